package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	toolcfg "github.com/crystaldolphin/toolchat/internal/config/tool"
	"github.com/crystaldolphin/toolchat/internal/schema"
	"github.com/crystaldolphin/toolchat/internal/tools"
)

type fakeRemote struct {
	tools   []mcp.Tool
	listErr error

	mu     sync.Mutex
	calls  []mcp.CallToolRequest
	reply  *mcp.CallToolResult
	err    error
	closed bool
}

func (f *fakeRemote) ListTools(context.Context, mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeRemote) CallTool(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func weatherTool() mcp.Tool {
	return mcp.NewToolWithRawSchema("forecast", "Weather forecast", json.RawMessage(
		`{"type":"object","properties":{"city":{"type":"string","description":"City name"},"days":{"type":"integer"}},"required":["city"]}`))
}

func newTestBridge(remotes map[string]*fakeRemote, failing ...string) *Bridge {
	servers := map[string]toolcfg.MCPServerConfig{}
	for name := range remotes {
		servers[name] = toolcfg.MCPServerConfig{Command: "fake"}
	}
	for _, name := range failing {
		servers[name] = toolcfg.MCPServerConfig{Command: "missing"}
	}
	b := NewBridge(servers)
	b.dial = func(_ context.Context, name string, _ toolcfg.MCPServerConfig) (remote, error) {
		r, ok := remotes[name]
		if !ok {
			return nil, errors.New("exec: not found")
		}
		return r, nil
	}
	return b
}

// ─── Connect ──────────────────────────────────────────────────────────────────

func TestBridge_ConnectRegistersPrefixedTools(t *testing.T) {
	weather := &fakeRemote{tools: []mcp.Tool{weatherTool()}}
	reg := tools.NewRegistry()
	b := newTestBridge(map[string]*fakeRemote{"weather": weather})

	n := b.Connect(context.Background(), reg)
	assert.Equal(t, 1, n)

	tool, ok := reg.Lookup("mcp_weather_forecast")
	require.True(t, ok)
	d := tool.Descriptor()
	assert.Equal(t, "Weather forecast", d.Description)
	require.Len(t, d.Params, 2)
	assert.Equal(t, "city", d.Params[0].Name)
	assert.True(t, d.Params[0].Required())
	assert.Equal(t, "City name", d.Params[0].Description)
	assert.Equal(t, "days", d.Params[1].Name)
	assert.True(t, d.Params[1].Optional)
	assert.Equal(t, "object", tools.ParameterSchema(d)["type"])
}

func TestBridge_FailedServersAreSkipped(t *testing.T) {
	ok := &fakeRemote{tools: []mcp.Tool{weatherTool()}}
	broken := &fakeRemote{listErr: errors.New("boom")}
	reg := tools.NewRegistry()
	b := newTestBridge(map[string]*fakeRemote{"ok": ok, "broken": broken}, "absent")

	n := b.Connect(context.Background(), reg)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"mcp_ok_forecast"}, reg.Names())
	assert.True(t, broken.closed)
}

func TestBridge_NoServers(t *testing.T) {
	b := NewBridge(nil)
	assert.Zero(t, b.Connect(context.Background(), tools.NewRegistry()))
	b.Close()
}

func TestBridge_CloseEndsSessions(t *testing.T) {
	weather := &fakeRemote{tools: []mcp.Tool{weatherTool()}}
	b := newTestBridge(map[string]*fakeRemote{"weather": weather})
	b.Connect(context.Background(), tools.NewRegistry())

	b.Close()
	assert.True(t, weather.closed)
}

// ─── Invoke ───────────────────────────────────────────────────────────────────

func TestToolWrapper_InvokeThroughExecutor(t *testing.T) {
	weather := &fakeRemote{
		tools: []mcp.Tool{weatherTool()},
		reply: &mcp.CallToolResult{Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: "Sunny"},
			mcp.TextContent{Type: "text", Text: "22C"},
		}},
	}
	reg := tools.NewRegistry()
	newTestBridge(map[string]*fakeRemote{"weather": weather}).Connect(context.Background(), reg)
	e := tools.NewExecutor(reg, true)

	res := e.Execute(context.Background(), schema.ToolCall{ID: "c1", Name: "mcp_weather_forecast", Arguments: `{"city":"Oslo"}`})
	require.True(t, res.OK())
	assert.Equal(t, "Sunny\n22C", res.Content())

	require.Len(t, weather.calls, 1)
	assert.Equal(t, "forecast", weather.calls[0].Params.Name)
	assert.Equal(t, map[string]any{"city": "Oslo"}, weather.calls[0].Params.Arguments)
}

func TestToolWrapper_ValidationUsesAdvertisedSchema(t *testing.T) {
	weather := &fakeRemote{tools: []mcp.Tool{weatherTool()}}
	reg := tools.NewRegistry()
	newTestBridge(map[string]*fakeRemote{"weather": weather}).Connect(context.Background(), reg)
	e := tools.NewExecutor(reg, true)

	res := e.Execute(context.Background(), schema.ToolCall{ID: "c1", Name: "mcp_weather_forecast", Arguments: `{"days":2}`})
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureInvalidArguments, res.Failure.Kind)
	assert.Empty(t, weather.calls)
}

func TestToolWrapper_RemoteErrors(t *testing.T) {
	tests := []struct {
		name  string
		reply *mcp.CallToolResult
		err   error
		want  string
	}{
		{
			name:  "tool reported error",
			reply: &mcp.CallToolResult{IsError: true, Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "unknown city"}}},
			want:  "Error executing tool: unknown city",
		},
		{
			name: "transport error",
			err:  errors.New("connection reset"),
			want: "Error executing tool: connection reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRemote{reply: tt.reply, err: tt.err}
			w := newToolWrapper(r, "weather", weatherTool())

			res := w.Invoke(context.Background(), schema.NewArgs(map[string]any{"city": "x"}))
			require.False(t, res.OK())
			assert.Equal(t, schema.FailureExecution, res.Failure.Kind)
			assert.Equal(t, tt.want, res.Content())
		})
	}
}

func TestInputSchema_FallsBackToStructuredSchema(t *testing.T) {
	tool := mcp.Tool{
		Name: "echo",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"text": map[string]any{"type": "string"}},
			Required:   []string{"text"},
		},
	}
	s := inputSchema(tool)
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, []any{"text"}, s["required"])

	params := paramsFromSchema(s)
	require.Len(t, params, 1)
	assert.True(t, params[0].Required())
}
