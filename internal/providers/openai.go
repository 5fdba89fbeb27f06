package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

const (
	defaultTimeout    = 120 * time.Second
	defaultMaxTokens  = 2000
	defaultAPIVersion = "2024-02-15-preview"
)

// OpenAIProvider calls any OpenAI-compatible chat-completions endpoint,
// including Azure OpenAI deployments.
type OpenAIProvider struct {
	spec         *ProviderSpec
	apiBase      string
	deployment   string // azure only
	apiVersion   string // azure only
	defaultModel string
	client       *resty.Client
}

// NewOpenAIProvider constructs a provider from resolved params.
func NewOpenAIProvider(p Params) *OpenAIProvider {
	spec := Resolve(p.ProviderName, p.APIKey, p.APIBase, p.DefaultModel)

	base := p.APIBase
	if base == "" {
		base = spec.DefaultAPIBase
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	base = strings.TrimRight(base, "/")

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if spec.IsAzure {
		client.SetHeader("api-key", p.APIKey)
	} else if p.APIKey != "" {
		client.SetAuthToken(p.APIKey)
	}
	for k, v := range p.ExtraHeaders {
		client.SetHeader(k, v)
	}

	apiVersion := p.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	deployment := p.Deployment
	if deployment == "" {
		deployment = p.DefaultModel
	}

	return &OpenAIProvider{
		spec:         spec,
		apiBase:      base,
		deployment:   deployment,
		apiVersion:   apiVersion,
		defaultModel: p.DefaultModel,
		client:       client,
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// Spec returns the provider spec this client was resolved to.
func (p *OpenAIProvider) Spec() ProviderSpec { return *p.spec }

// Chat implements schema.LLMProvider.
func (p *OpenAIProvider) Chat(
	ctx context.Context,
	turns schema.Turns,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := map[string]any{
		"messages":    sanitizeTurns(turns),
		"max_tokens":  maxTokens,
		"temperature": opts.Temperature,
	}
	if !p.spec.IsAzure {
		body["model"] = p.resolveModel(model)
	}
	if len(tools) > 0 {
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}

	req := p.client.R().
		SetContext(ctx).
		SetBody(body)
	if p.spec.IsAzure {
		req.SetQueryParam("api-version", p.apiVersion)
	}

	resp, err := req.Post(p.endpoint())
	if err != nil {
		if ctx.Err() != nil {
			return schema.LLMResponse{}, ctx.Err()
		}
		return schema.LLMResponse{}, &TransportError{Err: err}
	}
	if resp.IsError() {
		return schema.LLMResponse{}, &HTTPError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	return parseOpenAIResponse(resp.Body())
}

func (p *OpenAIProvider) endpoint() string {
	if p.spec.IsAzure {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions", p.apiBase, p.deployment)
	}
	return p.apiBase + "/chat/completions"
}

// resolveModel strips a known routing prefix so the API receives the bare
// model name. Gateways keep the "vendor/model" form they route on.
func (p *OpenAIProvider) resolveModel(model string) string {
	if pfx := p.spec.ModelPrefix; pfx != "" {
		full := pfx + "/"
		if strings.HasPrefix(strings.ToLower(model), full) {
			return model[len(full):]
		}
	}
	if p.spec.IsGateway {
		return model
	}
	if head, rest, ok := strings.Cut(model, "/"); ok && FindByName(head) != nil {
		return rest
	}
	return model
}

// ---------------------------------------------------------------------------
// Turn sanitisation
// ---------------------------------------------------------------------------

// turnToWireMap converts a Turn to the OpenAI wire-format map.
func turnToWireMap(t schema.Turn) map[string]any {
	wire := map[string]any{
		"role":    string(t.Role),
		"content": t.Content,
	}
	switch t.Role {
	case schema.RoleAssistant:
		if len(t.ToolCalls) > 0 {
			// Strict providers want null content on tool-call-only turns.
			if t.Content == "" {
				wire["content"] = nil
			}
			raw := make([]map[string]any, len(t.ToolCalls))
			for i, tc := range t.ToolCalls {
				raw[i] = tc.ToWireMap()
			}
			wire["tool_calls"] = raw
		}
	case schema.RoleTool:
		wire["tool_call_id"] = t.ToolCallID
		wire["name"] = t.ToolName
	}
	return wire
}

// sanitizeTurns drops tool-result turns whose assistant turn fell out of the
// replay window. Those sit right after the system preamble.
func sanitizeTurns(turns schema.Turns) []map[string]any {
	out := make([]map[string]any, 0, len(turns.Turns))
	leading := true
	for _, t := range turns.Turns {
		switch {
		case t.Role == schema.RoleSystem:
		case t.Role == schema.RoleTool && leading:
			slog.Debug("dropping orphaned tool turn", "tool_call_id", t.ToolCallID)
			continue
		default:
			leading = false
		}
		out = append(out, turnToWireMap(t))
	}
	return out
}

// ---------------------------------------------------------------------------
// Response parser
// ---------------------------------------------------------------------------

// openAIRespBody is the subset of the chat completion response we care about.
type openAIRespBody struct {
	Choices []struct {
		Message struct {
			Content   *string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func parseOpenAIResponse(raw []byte) (schema.LLMResponse, error) {
	var body openAIRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse response: %w", err)
	}
	if len(body.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("empty choices in response")
	}

	choice := body.Choices[0]
	var content string
	if choice.Message.Content != nil {
		content = *choice.Message.Content
	}

	// Arguments stay raw; decoding failures are reported per call at dispatch.
	var toolCalls []schema.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, schema.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	finish := choice.FinishReason
	if finish == "" {
		finish = "stop"
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     body.Usage.PromptTokens,
			"completion_tokens": body.Usage.CompletionTokens,
			"total_tokens":      body.Usage.TotalTokens,
		},
	}, nil
}
