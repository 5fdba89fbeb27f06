package schema

// Role identifies who produced a Turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one function call requested by the assistant.
// Arguments holds the serialized argument object exactly as the backend sent it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToWireMap serialises a ToolCall into the OpenAI wire-format map.
// Used by provider implementations when building the JSON request body.
func (tc ToolCall) ToWireMap() map[string]any {
	args := tc.Arguments
	if args == "" {
		args = "{}"
	}
	return map[string]any{
		"id":   tc.ID,
		"type": "function",
		"function": map[string]any{
			"name":      tc.Name,
			"arguments": args,
		},
	}
}

// Turn is one entry in the conversation log.
//
// Content may be empty for an assistant turn that only carries tool calls.
// ToolCalls is populated for assistant turns that invoke tools.
// ToolCallID and ToolName are set for tool-result turns.
type Turn struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string // "tool" role only
	ToolName   string // "tool" role only
}

// HasToolCalls reports whether the turn requests tool execution.
func (t Turn) HasToolCalls() bool { return len(t.ToolCalls) > 0 }

func NewSystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func NewAssistantTurn(content string, toolCalls []ToolCall) Turn {
	var calls []ToolCall
	if len(toolCalls) > 0 {
		calls = make([]ToolCall, len(toolCalls))
		copy(calls, toolCalls)
	}
	return Turn{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

func NewToolResultTurn(toolCallID, toolName, result string) Turn {
	return Turn{
		Role:       RoleTool,
		Content:    result,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
}
