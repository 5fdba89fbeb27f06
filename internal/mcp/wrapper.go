package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

// toolWrapper exposes one tool discovered on an MCP server as a schema.Tool.
type toolWrapper struct {
	conn     remote
	server   string
	origName string
	desc     schema.ToolDescriptor
}

func newToolWrapper(conn remote, server string, t mcp.Tool) *toolWrapper {
	raw := inputSchema(t)
	return &toolWrapper{
		conn:     conn,
		server:   server,
		origName: t.Name,
		desc: schema.ToolDescriptor{
			Name:        "mcp_" + server + "_" + t.Name,
			Description: t.Description,
			Params:      paramsFromSchema(raw),
			Convention:  schema.ByName,
			RawSchema:   raw,
		},
	}
}

func (w *toolWrapper) Descriptor() schema.ToolDescriptor { return w.desc }

func (w *toolWrapper) Invoke(ctx context.Context, args schema.Args) schema.ToolResult {
	req := mcp.CallToolRequest{}
	req.Params.Name = w.origName
	req.Params.Arguments = args.Named

	res, err := w.conn.CallTool(ctx, req)
	if err != nil {
		return schema.Failed(schema.FailureExecution, w.desc.Name, err)
	}
	text := resultText(res)
	if res.IsError {
		return schema.Failed(schema.FailureExecution, w.desc.Name, errors.New(text))
	}
	return schema.Success(text)
}

// inputSchema returns the advertised argument schema as a plain map.
func inputSchema(t mcp.Tool) map[string]any {
	if len(t.RawInputSchema) > 0 {
		var m map[string]any
		if json.Unmarshal(t.RawInputSchema, &m) == nil && m != nil {
			return m
		}
	}
	out := map[string]any{"type": "object", "properties": map[string]any{}}
	if t.InputSchema.Type != "" {
		out["type"] = t.InputSchema.Type
	}
	if len(t.InputSchema.Properties) > 0 {
		out["properties"] = t.InputSchema.Properties
	}
	if len(t.InputSchema.Required) > 0 {
		required := make([]any, len(t.InputSchema.Required))
		for i, r := range t.InputSchema.Required {
			required[i] = r
		}
		out["required"] = required
	}
	return out
}

// paramsFromSchema lists properties for display: required ones first, each
// group sorted by name.
func paramsFromSchema(s map[string]any) []schema.Param {
	props, _ := s["properties"].(map[string]any)
	required := map[string]bool{}
	switch r := s["required"].(type) {
	case []any:
		for _, v := range r {
			if name, ok := v.(string); ok {
				required[name] = true
			}
		}
	case []string:
		for _, name := range r {
			required[name] = true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	params := make([]schema.Param, 0, len(names))
	for _, name := range names {
		declared := name
		if !required[name] {
			declared += " (optional)"
		}
		p := schema.ParseParam(declared)
		if prop, ok := props[name].(map[string]any); ok {
			if d, ok := prop["description"].(string); ok {
				p.Description = d
			}
		}
		params = append(params, p)
	}
	return params
}
