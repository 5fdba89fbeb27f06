package schema

// Turns is the ordered list of turns exchanged with the backend.
// It owns typed append methods so callers never construct raw maps.
type Turns struct {
	Turns []Turn
}

// NewTurns returns a Turns initialised with the given turns.
// Called with no arguments it returns an empty Turns ready for use.
func NewTurns(turns ...Turn) Turns {
	if len(turns) == 0 {
		return Turns{Turns: make([]Turn, 0)}
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return Turns{Turns: out}
}

// AddSystem appends a system turn.
func (ts *Turns) AddSystem(content string) {
	ts.Turns = append(ts.Turns, NewSystemTurn(content))
}

// AddUser appends a user turn.
func (ts *Turns) AddUser(content string) {
	ts.Turns = append(ts.Turns, NewUserTurn(content))
}

// AddAssistant appends an assistant turn with optional tool calls.
func (ts *Turns) AddAssistant(content string, toolCalls []ToolCall) {
	ts.Turns = append(ts.Turns, NewAssistantTurn(content, toolCalls))
}

// AddToolResult appends a tool-result turn.
func (ts *Turns) AddToolResult(toolCallID, toolName, result string) {
	ts.Turns = append(ts.Turns, NewToolResultTurn(toolCallID, toolName, result))
}

// Append copies all turns from other into ts.
func (ts *Turns) Append(other Turns) {
	ts.Turns = append(ts.Turns, other.Turns...)
}

func (ts *Turns) Len() int { return len(ts.Turns) }

// Last returns the final turn, or false when empty.
func (ts *Turns) Last() (Turn, bool) {
	if len(ts.Turns) == 0 {
		return Turn{}, false
	}
	return ts.Turns[len(ts.Turns)-1], true
}

// Clone returns a copy of ts with an independent backing slice.
func (ts *Turns) Clone() Turns {
	cloned := make([]Turn, len(ts.Turns))
	copy(cloned, ts.Turns)
	return Turns{Turns: cloned}
}
