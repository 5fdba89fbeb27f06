package provider

const (
	ProviderOpenAI     = "openai"
	ProviderAzure      = "azure"
	ProviderOpenRouter = "openrouter"
	ProviderDeepSeek   = "deepseek"
	ProviderGroq       = "groq"
	ProviderVLLM       = "vllm"
)

// BackendConfig holds the chat-completions endpoint and its credentials.
type BackendConfig struct {
	Provider     string            `json:"provider" yaml:"provider" validate:"omitempty,oneof=openai azure openrouter deepseek groq vllm"`
	APIKey       string            `json:"apiKey" yaml:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty" yaml:"apiBase,omitempty" validate:"omitempty,url"`
	Deployment   string            `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	APIVersion   string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Timeout      int               `json:"timeout" yaml:"timeout" validate:"gte=0"` // seconds
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty" yaml:"extraHeaders,omitempty"`
}

func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		Provider:   ProviderOpenAI,
		APIVersion: "2024-02-15-preview",
		Deployment: "gpt-4",
		Timeout:    120,
	}
}

// IsAzure reports whether requests go to an Azure OpenAI deployment.
func (b BackendConfig) IsAzure() bool { return b.Provider == ProviderAzure }

// NeedsKey reports whether an API key is mandatory for this backend.
func (b BackendConfig) NeedsKey() bool { return b.Provider != ProviderVLLM }
