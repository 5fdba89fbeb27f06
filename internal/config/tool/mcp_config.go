package tool

// MCPServerConfig describes one MCP server connection (stdio or HTTP).
type MCPServerConfig struct {
	Command string            `json:"command,omitempty" yaml:"command,omitempty" validate:"required_without=URL"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	URL     string            `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// IsHTTP reports whether the server is reached over streamable HTTP.
func (c MCPServerConfig) IsHTTP() bool { return c.URL != "" }
