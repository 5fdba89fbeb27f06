package mcp

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	toolcfg "github.com/crystaldolphin/toolchat/internal/config/tool"
	"github.com/crystaldolphin/toolchat/internal/tools"
)

const connectTimeout = 30 * time.Second

// Bridge owns the sessions with all configured external MCP servers.
type Bridge struct {
	servers map[string]toolcfg.MCPServerConfig
	dial    dialFunc

	mu    sync.Mutex
	conns map[string]remote
}

// NewBridge returns a Bridge for the given servers. Nothing is started until Connect.
func NewBridge(servers map[string]toolcfg.MCPServerConfig) *Bridge {
	return &Bridge{servers: servers, dial: dial, conns: map[string]remote{}}
}

// Connect dials every server concurrently and registers the discovered tools
// into registry as mcp_<server>_<tool>, servers in name order. Failed servers
// are logged and skipped. It returns the number of tools registered.
func (b *Bridge) Connect(ctx context.Context, registry *tools.Registry) int {
	if len(b.servers) == 0 {
		return 0
	}

	discovered := make(map[string][]mcp.Tool, len(b.servers))
	var discoveredMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for name, cfg := range b.servers {
		g.Go(func() error {
			dialCtx, cancel := context.WithTimeout(gctx, connectTimeout)
			defer cancel()

			conn, err := b.dial(dialCtx, name, cfg)
			if err != nil {
				slog.Error("MCP server connect failed", "server", name, "err", err)
				return nil
			}
			res, err := conn.ListTools(dialCtx, mcp.ListToolsRequest{})
			if err != nil {
				slog.Error("MCP server list_tools failed", "server", name, "err", err)
				_ = conn.Close()
				return nil
			}

			b.mu.Lock()
			b.conns[name] = conn
			b.mu.Unlock()

			discoveredMu.Lock()
			discovered[name] = res.Tools
			discoveredMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	names := make([]string, 0, len(discovered))
	for name := range discovered {
		names = append(names, name)
	}
	sort.Strings(names)

	registered := 0
	for _, name := range names {
		conn := b.conns[name]
		for _, t := range discovered[name] {
			if t.Name == "" {
				continue
			}
			w := newToolWrapper(conn, name, t)
			if err := registry.Register(w); err != nil {
				slog.Warn("MCP tool skipped", "server", name, "tool", t.Name, "err", err)
				continue
			}
			registered++
			slog.Debug("MCP tool registered", "server", name, "tool", w.desc.Name)
		}
		slog.Info("MCP server connected", "server", name, "tools", len(discovered[name]))
	}
	return registered
}

// Close ends every open session.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, conn := range b.conns {
		if err := conn.Close(); err != nil {
			slog.Warn("MCP server close failed", "server", name, "err", err)
		}
		delete(b.conns, name)
	}
}
