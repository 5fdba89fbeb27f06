package schema

import (
	"errors"
	"fmt"
)

// FailureKind classifies a per-call tool failure.
type FailureKind string

const (
	FailureToolNotFound     FailureKind = "tool_not_found"
	FailureInvalidArguments FailureKind = "invalid_arguments"
	FailureExecution        FailureKind = "execution_failed"
)

// ToolFailure is the structured failure half of a ToolResult.
type ToolFailure struct {
	Kind FailureKind
	Tool string
	Err  error
}

func (f *ToolFailure) Error() string {
	switch f.Kind {
	case FailureToolNotFound:
		return fmt.Sprintf("Tool '%s' not found", f.Tool)
	case FailureInvalidArguments:
		return fmt.Sprintf("Error: invalid arguments for tool '%s': %v", f.Tool, f.Err)
	default:
		return fmt.Sprintf("Error executing tool: %v", f.Err)
	}
}

func (f *ToolFailure) Unwrap() error { return f.Err }

// ToolResult carries either a success payload or a failure descriptor.
// Expected edge cases (division by zero, unknown unit) are successes whose
// text explains the problem; Failure is reserved for calls that could not run.
type ToolResult struct {
	Text    string
	Failure *ToolFailure
}

func Success(text string) ToolResult {
	return ToolResult{Text: text}
}

func Failed(kind FailureKind, tool string, err error) ToolResult {
	return ToolResult{Failure: &ToolFailure{Kind: kind, Tool: tool, Err: err}}
}

// InvalidArguments wraps an argument error, keeping any *ArgumentError intact.
func InvalidArguments(tool string, err error) ToolResult {
	return Failed(FailureInvalidArguments, tool, err)
}

func (r ToolResult) OK() bool { return r.Failure == nil }

// Content is the text recorded as the tool-result turn.
func (r ToolResult) Content() string {
	if r.Failure != nil {
		return r.Failure.Error()
	}
	return r.Text
}

// IsFailure reports whether err is a ToolFailure of the given kind.
func IsFailure(err error, kind FailureKind) bool {
	var f *ToolFailure
	return errors.As(err, &f) && f.Kind == kind
}
