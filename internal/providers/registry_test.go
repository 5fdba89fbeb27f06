package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name                     string
		provider, key, base, mdl string
		want                     string
	}{
		{"explicit", "groq", "", "", "llama3", "groq"},
		{"azure by base", "", "", "https://acme.openai.azure.com", "gpt-4", "azure"},
		{"gateway by key", "", "sk-or-abc", "", "gpt-4", "openrouter"},
		{"by model", "", "", "", "deepseek-chat", "deepseek"},
		{"fallback", "", "", "", "mystery-model", "openai"},
		{"case insensitive", "OpenRouter", "", "", "", "openrouter"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := Resolve(tc.provider, tc.key, tc.base, tc.mdl)
			require.NotNil(t, spec)
			assert.Equal(t, tc.want, spec.Name)
		})
	}
}

func TestFindGateway_SkipsStandardProviders(t *testing.T) {
	assert.Nil(t, FindGateway("openai", "", ""))
	assert.Equal(t, "vllm", FindGateway("vllm", "", "").Name)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Azure OpenAI", FindByName("azure").Label())
	assert.Equal(t, "Custom", ProviderSpec{Name: "custom"}.Label())
}
