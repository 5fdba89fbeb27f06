package schema

import "context"

type AgentSettings struct {
	Model            string
	Temperature      float64
	MaxTokens        int
	MaxRetainedTurns int
	ToolsEnabled     bool
}

func NewAgentSettings(model string, temperature float64, maxTokens, maxRetainedTurns int, toolsEnabled bool) AgentSettings {
	return AgentSettings{
		Model:            model,
		Temperature:      temperature,
		MaxTokens:        maxTokens,
		MaxRetainedTurns: maxRetainedTurns,
		ToolsEnabled:     toolsEnabled,
	}
}

// DirectProcessor answers a single message for a session outside the REPL.
type DirectProcessor interface {
	ProcessDirect(ctx context.Context, sessionID, content string) string
}
