package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

func newExecutor(t *testing.T, validate bool, ts ...schema.Tool) *Executor {
	t.Helper()
	r, err := NewRegistryBuilder().WithTools(ts...).Build()
	require.NoError(t, err)
	return NewExecutor(r, validate)
}

func call(name, args string) schema.ToolCall {
	return schema.ToolCall{ID: "call_1", Name: name, Arguments: args}
}

// ─── Lookup / decoding ────────────────────────────────────────────────────────

func TestExecutor_ToolNotFound(t *testing.T) {
	e := newExecutor(t, true)

	res := e.Execute(context.Background(), call("nope", `{}`))
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureToolNotFound, res.Failure.Kind)
	assert.Equal(t, "Tool 'nope' not found", res.Content())
}

func TestExecutor_MalformedArguments(t *testing.T) {
	stub := newStub("echo", "text")
	e := newExecutor(t, false, stub)

	for _, raw := range []string{`{"text":`, `[1,2]`, `"str"`, `{"a":1} {"b":2}`} {
		res := e.Execute(context.Background(), call("echo", raw))
		require.False(t, res.OK(), raw)
		assert.Equal(t, schema.FailureInvalidArguments, res.Failure.Kind, raw)
	}
	assert.Empty(t, stub.calls)
}

func TestExecutor_EmptyArgumentsDecodeToObject(t *testing.T) {
	stub := newStub("noop")
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("noop", ""))
	require.True(t, res.OK())
	require.Len(t, stub.calls, 1)
	assert.Empty(t, stub.calls[0].Named)
}

// ─── Validation ───────────────────────────────────────────────────────────────

func TestExecutor_ValidationRejectsMissingRequired(t *testing.T) {
	stub := newStub("subtract", "a", "b")
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("subtract", `{"a": 1}`))
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureInvalidArguments, res.Failure.Kind)
	assert.Contains(t, res.Content(), "b")
	assert.Empty(t, stub.calls)
}

func TestExecutor_ValidationRejectsWrongType(t *testing.T) {
	stub := newStub("subtract", "a", "b")
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("subtract", `{"a": "one", "b": 2}`))
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureInvalidArguments, res.Failure.Kind)
}

func TestExecutor_ValidationDisabledPassesThrough(t *testing.T) {
	stub := newStub("subtract", "a", "b")
	e := newExecutor(t, false, stub)

	res := e.Execute(context.Background(), call("subtract", `{"a": 1}`))
	assert.True(t, res.OK())
	assert.Len(t, stub.calls, 1)
}

// ─── Conventions ──────────────────────────────────────────────────────────────

func TestExecutor_PositionalNumbers(t *testing.T) {
	stub := &stubTool{desc: variadicDescriptor("add", "Add numbers")}
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("add", `{"numbers": [1, 2.5, 3]}`))
	require.True(t, res.OK())
	require.Len(t, stub.calls, 1)
	assert.Equal(t, []float64{1, 2.5, 3}, stub.calls[0].Positional)
}

func TestExecutor_PositionalNumbersMissingIsEmpty(t *testing.T) {
	stub := &stubTool{desc: variadicDescriptor("add", "Add numbers")}
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("add", `{}`))
	require.True(t, res.OK())
	assert.NotNil(t, stub.calls[0].Positional)
	assert.Empty(t, stub.calls[0].Positional)
}

func TestExecutor_ByNameKeepsNamedArguments(t *testing.T) {
	stub := newStub("divide", "a", "b", "precision (optional)")
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("divide", `{"a": 10, "b": 4}`))
	require.True(t, res.OK())
	assert.Nil(t, stub.calls[0].Positional)
	assert.Equal(t, float64(10), stub.calls[0].Named["a"])
}

// ─── Failures ─────────────────────────────────────────────────────────────────

func TestExecutor_PanicBecomesExecutionFailure(t *testing.T) {
	stub := newStub("boom")
	stub.invoke = func(context.Context, schema.Args) schema.ToolResult { panic("kaboom") }
	e := newExecutor(t, true, stub)

	res := e.Execute(context.Background(), call("boom", `{}`))
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureExecution, res.Failure.Kind)
	assert.Equal(t, "Error executing tool: panic: kaboom", res.Content())
}

func TestExecutor_DivideByZeroIsTextualResult(t *testing.T) {
	e := newExecutor(t, true, NewCalculatorTools(nil)...)

	res := e.Execute(context.Background(), call("divide", `{"a": 10, "b": 0}`))
	require.True(t, res.OK())
	assert.Equal(t, "Error: Division by zero", res.Content())
}

func TestExecutor_ExecuteNamed(t *testing.T) {
	e := newExecutor(t, true, NewCalculatorTools(nil)...)

	res := e.ExecuteNamed(context.Background(), "subtract", map[string]any{"a": 5.0, "b": 3.0})
	require.True(t, res.OK())
	assert.Equal(t, "Result: 2\nCalculation: 5 - 3 = 2", res.Content())

	res = e.ExecuteNamed(context.Background(), "missing", nil)
	assert.Equal(t, schema.FailureToolNotFound, res.Failure.Kind)
}
