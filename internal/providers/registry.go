package providers

import "strings"

// ProviderSpec is the metadata record for one chat-completions backend.
type ProviderSpec struct {
	Name        string   // config value, e.g. "openrouter"
	Keywords    []string // model-name keywords for matching (lowercase)
	EnvKey      string   // env var holding the API key
	DisplayName string   // shown in `toolchat status`

	// Prefix stripped from model names before they reach the API.
	ModelPrefix string

	IsGateway           bool   // routes any model
	IsLocal             bool   // local deployment (vLLM)
	IsAzure             bool   // deployment-scoped URL and api-key header
	DetectByKeyPrefix   string // match api_key prefix to identify gateway
	DetectByBaseKeyword string // match substring in api_base URL
	DefaultAPIBase      string
}

// Label returns the display name, defaulting to Title-cased Name.
func (s ProviderSpec) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// PROVIDERS is the registry. Order = match priority.
var PROVIDERS = []ProviderSpec{
	{
		Name:                "azure",
		Keywords:            []string{"azure"},
		EnvKey:              "AZURE_OPENAI_API_KEY",
		DisplayName:         "Azure OpenAI",
		IsAzure:             true,
		DetectByBaseKeyword: "openai.azure.com",
	},
	{
		Name:                "openrouter",
		Keywords:            []string{"openrouter"},
		EnvKey:              "OPENROUTER_API_KEY",
		DisplayName:         "OpenRouter",
		ModelPrefix:         "openrouter",
		IsGateway:           true,
		DetectByKeyPrefix:   "sk-or-",
		DetectByBaseKeyword: "openrouter",
		DefaultAPIBase:      "https://openrouter.ai/api/v1",
	},
	{
		Name:           "openai",
		Keywords:       []string{"openai", "gpt"},
		EnvKey:         "OPENAI_API_KEY",
		DisplayName:    "OpenAI",
		DefaultAPIBase: "https://api.openai.com/v1",
	},
	{
		Name:           "deepseek",
		Keywords:       []string{"deepseek"},
		EnvKey:         "DEEPSEEK_API_KEY",
		DisplayName:    "DeepSeek",
		ModelPrefix:    "deepseek",
		DefaultAPIBase: "https://api.deepseek.com/v1",
	},
	{
		Name:           "groq",
		Keywords:       []string{"groq"},
		EnvKey:         "GROQ_API_KEY",
		DisplayName:    "Groq",
		ModelPrefix:    "groq",
		DefaultAPIBase: "https://api.groq.com/openai/v1",
	},
	{
		Name:        "vllm",
		Keywords:    []string{"vllm"},
		EnvKey:      "HOSTED_VLLM_API_KEY",
		DisplayName: "vLLM/Local",
		ModelPrefix: "hosted_vllm",
		IsLocal:     true,
	},
}

// FindByModel matches a standard provider by model-name keyword (case-insensitive).
// Gateways and local providers are matched by api key or base instead.
func FindByModel(model string) *ProviderSpec {
	modelLower := strings.ToLower(model)
	modelPrefix, _, _ := strings.Cut(modelLower, "/")

	var std []*ProviderSpec
	for i := range PROVIDERS {
		if !PROVIDERS[i].IsGateway && !PROVIDERS[i].IsLocal {
			std = append(std, &PROVIDERS[i])
		}
	}

	// Prefer explicit provider prefix.
	if strings.Contains(modelLower, "/") {
		for _, spec := range std {
			if modelPrefix == spec.Name {
				return spec
			}
		}
	}
	for _, spec := range std {
		for _, kw := range spec.Keywords {
			if strings.Contains(modelLower, kw) {
				return spec
			}
		}
	}
	return nil
}

// FindGateway detects a gateway or local provider.
// Priority: (1) explicit provider name, (2) api key prefix, (3) api base keyword.
func FindGateway(providerName, apiKey, apiBase string) *ProviderSpec {
	if providerName != "" {
		if s := FindByName(providerName); s != nil && (s.IsGateway || s.IsLocal) {
			return s
		}
	}
	for i := range PROVIDERS {
		spec := &PROVIDERS[i]
		if !spec.IsGateway && !spec.IsLocal {
			continue
		}
		if spec.DetectByKeyPrefix != "" && strings.HasPrefix(apiKey, spec.DetectByKeyPrefix) {
			return spec
		}
		if spec.DetectByBaseKeyword != "" && strings.Contains(apiBase, spec.DetectByBaseKeyword) {
			return spec
		}
	}
	return nil
}

// FindByName returns the ProviderSpec whose Name equals name.
func FindByName(name string) *ProviderSpec {
	name = strings.ToLower(name)
	for i := range PROVIDERS {
		if PROVIDERS[i].Name == name {
			return &PROVIDERS[i]
		}
	}
	return nil
}

// Resolve picks the spec for a configured backend: explicit name first, then
// gateway detection, then the model name. Falls back to openai.
func Resolve(providerName, apiKey, apiBase, model string) *ProviderSpec {
	if providerName != "" {
		if s := FindByName(providerName); s != nil {
			return s
		}
	}
	if strings.Contains(strings.ToLower(apiBase), "openai.azure.com") {
		return FindByName("azure")
	}
	if s := FindGateway("", apiKey, apiBase); s != nil {
		return s
	}
	if s := FindByModel(model); s != nil {
		return s
	}
	return FindByName("openai")
}
