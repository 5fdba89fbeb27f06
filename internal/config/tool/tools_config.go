package tool

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	FileBasePath      string                     `json:"fileBasePath" yaml:"fileBasePath" validate:"required"`
	AllowWrite        bool                       `json:"allowWrite" yaml:"allowWrite"`
	Extended          bool                       `json:"extended" yaml:"extended"`
	ValidateArguments bool                       `json:"validateArguments" yaml:"validateArguments"`
	MCPServers        map[string]MCPServerConfig `json:"mcpServers" yaml:"mcpServers" validate:"dive"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		FileBasePath:      "./test_files",
		ValidateArguments: true,
		MCPServers:        map[string]MCPServerConfig{},
	}
}
