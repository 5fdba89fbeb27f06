package mcp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	toolcfg "github.com/crystaldolphin/toolchat/internal/config/tool"
)

// remote is the part of an MCP client session the bridge relies on.
type remote interface {
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// dialFunc opens and initializes a session with one configured server.
type dialFunc func(ctx context.Context, name string, cfg toolcfg.MCPServerConfig) (remote, error)

// dial starts the server subprocess, or connects over streamable HTTP, and
// performs the initialize handshake.
func dial(ctx context.Context, name string, cfg toolcfg.MCPServerConfig) (remote, error) {
	var (
		c   *client.Client
		err error
	)
	switch {
	case cfg.Command != "":
		c, err = client.NewStdioMCPClient(cfg.Command, envList(cfg.Env), cfg.Args...)
		if err != nil {
			return nil, fmt.Errorf("start MCP server %q: %w", name, err)
		}
	case cfg.URL != "":
		c, err = client.NewStreamableHttpClient(cfg.URL, transport.WithHTTPHeaders(cfg.Headers))
		if err != nil {
			return nil, fmt.Errorf("create MCP client %q: %w", name, err)
		}
		if err := c.Start(ctx); err != nil {
			return nil, fmt.Errorf("connect MCP server %q: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("MCP server %q: no command or url configured", name)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "toolchat", Version: Version}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize MCP server %q: %w", name, err)
	}
	return c, nil
}

// envList merges extra variables over the current environment.
func envList(extra map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// resultText flattens the text blocks of a tool result.
func resultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	var parts []string
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			parts = append(parts, tc.Text)
		case *mcp.TextContent:
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
