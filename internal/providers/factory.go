// Package providers implements schema.LLMProvider over OpenAI-compatible
// chat-completions endpoints.
package providers

import (
	"time"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

// Params are the raw values needed to construct a provider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	ProviderName string // registry name, e.g. "openai", "azure", "openrouter"
	APIKey       string
	APIBase      string
	Deployment   string // azure
	APIVersion   string // azure
	DefaultModel string
	Timeout      time.Duration
	ExtraHeaders map[string]string
}

// New creates the schema.LLMProvider for the given params.
func New(p Params) schema.LLMProvider {
	return NewOpenAIProvider(p)
}
