package agent

type AgentConfig struct {
	Model            string  `json:"model" yaml:"model" validate:"required"`
	MaxTokens        int     `json:"maxTokens" yaml:"maxTokens" validate:"gt=0"`
	Temperature      float64 `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxRetainedTurns int     `json:"maxRetainedTurns" yaml:"maxRetainedTurns" validate:"gt=0"`
	ToolsEnabled     bool    `json:"toolsEnabled" yaml:"toolsEnabled"`
	// SystemPrompt replaces the built-in preamble when set.
	SystemPrompt string `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:            "gpt-4",
		MaxTokens:        2000,
		Temperature:      0.7,
		MaxRetainedTurns: 50,
		ToolsEnabled:     true,
	}
}
