// Package mcp connects toolchat to the Model Context Protocol in both
// directions: it serves the local registry to MCP clients and bridges tools
// from external MCP servers into the registry.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/crystaldolphin/toolchat/internal/tools"
)

// Version is reported to MCP peers.
const Version = "0.1.0"

// NewServer builds an MCP server exposing every registered tool. Calls go
// through executor, so MCP clients get the same decoding and validation as
// the orchestrator.
func NewServer(executor *tools.Executor, name string) (*server.MCPServer, error) {
	s := server.NewMCPServer(name, Version,
		server.WithRecovery(),
		server.WithToolCapabilities(true),
	)
	for _, desc := range executor.Registry().ListAll() {
		raw, err := json.Marshal(tools.ParameterSchema(desc))
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", desc.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(desc.Name, desc.Description, raw), toolHandler(executor, desc.Name))
	}
	return s, nil
}

// toolHandler keys calculation history by the MCP client session.
func toolHandler(executor *tools.Executor, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if session := server.ClientSessionFromContext(ctx); session != nil {
			ctx = tools.WithTurn(ctx, tools.TurnContext{SessionID: session.SessionID()})
		}
		result := executor.ExecuteNamed(ctx, name, req.GetArguments())
		if !result.OK() {
			return mcp.NewToolResultError(result.Content()), nil
		}
		return mcp.NewToolResultText(result.Content()), nil
	}
}

// ServeStdio serves the registry over stdin/stdout until the peer disconnects.
func ServeStdio(executor *tools.Executor, name string) error {
	s, err := NewServer(executor, name)
	if err != nil {
		return err
	}
	return server.ServeStdio(s)
}
