package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

// stubTool is a configurable schema.Tool for tests.
type stubTool struct {
	desc   schema.ToolDescriptor
	invoke func(ctx context.Context, args schema.Args) schema.ToolResult
	calls  []schema.Args
}

func newStub(name string, declared ...string) *stubTool {
	return &stubTool{desc: schema.NewDescriptor(name, name+" tool", declared...)}
}

func (s *stubTool) Descriptor() schema.ToolDescriptor { return s.desc }

func (s *stubTool) Invoke(ctx context.Context, args schema.Args) schema.ToolResult {
	s.calls = append(s.calls, args)
	if s.invoke != nil {
		return s.invoke(ctx, args)
	}
	return schema.Success("ok:" + s.desc.Name)
}

// ─── Registry ─────────────────────────────────────────────────────────────────

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("alpha")))

	got, ok := r.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Descriptor().Name)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Nil(t, r.GetTool(ToolName("missing")))
}

func TestRegistry_DuplicateFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("alpha")))

	err := r.Register(newStub("alpha"))
	var dup *DuplicateToolError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "alpha", dup.Name)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(newStub("")))
}

func TestRegistry_ListAllKeepsInsertionOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(newStub(name)))
	}

	var names []string
	for _, d := range r.ListAll() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
	assert.Equal(t, names, r.Names())
}

func TestRegistry_DescribeAll(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{desc: schema.NewDescriptor("divide", "Divide two numbers", "a", "b", "precision (optional)")}))
	require.NoError(t, r.Register(&stubTool{desc: schema.NewDescriptor("add", "Add numbers", "*numbers")}))

	assert.Equal(t,
		"- divide(a, b, precision (optional)): Divide two numbers\n- add(*numbers): Add numbers",
		r.DescribeAll())
}

func TestRegistryBuilder_DuplicateFailsBuild(t *testing.T) {
	_, err := NewRegistryBuilder().
		WithTool(newStub("a")).
		WithTool(newStub("b")).
		WithTool(newStub("a")).
		Build()

	var dup *DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)
}

func TestNewBuiltinRegistry_Order(t *testing.T) {
	r, err := NewBuiltinRegistry(BuiltinOptions{FileBasePath: t.TempDir(), MaxSessions: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"list_files", "read_file", "search_files",
		"add", "subtract", "multiply", "divide", "factorial",
		"convert_temperature", "convert_distance",
	}, r.Names())
}

func TestNewBuiltinRegistry_ExtendedWithWrite(t *testing.T) {
	r, err := NewBuiltinRegistry(BuiltinOptions{
		FileBasePath: t.TempDir(),
		Extended:     true,
		AllowWrite:   true,
		MaxSessions:  4,
	})
	require.NoError(t, err)

	for _, name := range []ToolName{ToolFileStats, ToolWriteFile, ToolPower, ToolStatistics, ToolConvertCurrency, ToolHistory, ToolClearHistory} {
		assert.NotNil(t, r.GetTool(name), name)
	}
}

func TestNewBuiltinRegistry_WriteRequiresOptIn(t *testing.T) {
	r, err := NewBuiltinRegistry(BuiltinOptions{FileBasePath: t.TempDir(), Extended: true, MaxSessions: 4})
	require.NoError(t, err)
	assert.Nil(t, r.GetTool(ToolWriteFile))
}
