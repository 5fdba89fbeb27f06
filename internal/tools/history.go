package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

const (
	maxHistoryEntries   = 100
	defaultHistoryLimit = 10
	anonymousSession    = "default"
)

// HistoryEntry is one recorded calculation.
type HistoryEntry struct {
	Operation string
	Result    string
}

// CalcHistory keeps a bounded calculation log per session id.
// Sessions beyond the capacity are evicted least-recently-used first.
type CalcHistory struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, []HistoryEntry]
}

// NewCalcHistory returns a history tracking at most maxSessions sessions.
func NewCalcHistory(maxSessions int) (*CalcHistory, error) {
	if maxSessions <= 0 {
		maxSessions = 1
	}
	cache, err := lru.New[string, []HistoryEntry](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("create history cache: %w", err)
	}
	return &CalcHistory{sessions: cache}, nil
}

func sessionKey(id string) string {
	if id == "" {
		return anonymousSession
	}
	return id
}

// Record appends e to the session log, dropping the oldest entry past the cap.
func (h *CalcHistory) Record(sessionID string, e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := sessionKey(sessionID)
	entries, _ := h.sessions.Get(key)
	entries = append(entries, e)
	if len(entries) > maxHistoryEntries {
		entries = entries[len(entries)-maxHistoryEntries:]
	}
	h.sessions.Add(key, entries)
}

// Recent returns up to limit of the newest entries, oldest first.
func (h *CalcHistory) Recent(sessionID string, limit int) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries, _ := h.sessions.Get(sessionKey(sessionID))
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// Clear drops the session log and returns how many entries it held.
func (h *CalcHistory) Clear(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := sessionKey(sessionID)
	entries, ok := h.sessions.Peek(key)
	if !ok {
		return 0
	}
	h.sessions.Remove(key)
	return len(entries)
}

// ---------------------------------------------------------------------------
// history / clear_history tools
// ---------------------------------------------------------------------------

type historyTool struct {
	history *CalcHistory
}

func (t *historyTool) Descriptor() schema.ToolDescriptor {
	return schema.ToolDescriptor{
		Name:        string(ToolHistory),
		Description: "View calculation history for this session",
		Params: []schema.Param{
			schema.ParseParam("limit (optional)").Typed(schema.TypeInteger).Describe("Number of recent calculations to show (default 10)"),
		},
		Convention: schema.ByName,
	}
}

func (t *historyTool) Invoke(ctx context.Context, args schema.Args) schema.ToolResult {
	limit, err := args.OptionalInt("limit", defaultHistoryLimit)
	if err != nil {
		return schema.InvalidArguments(string(ToolHistory), err)
	}
	entries := t.history.Recent(TurnCtx(ctx).SessionID, limit)
	if len(entries) == 0 {
		return schema.Success("No calculation history available.")
	}

	var b strings.Builder
	b.WriteString("Calculation History:\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s = %s\n", i+1, e.Operation, e.Result)
	}
	return schema.Success(strings.TrimRight(b.String(), "\n"))
}

type clearHistoryTool struct {
	history *CalcHistory
}

func (t *clearHistoryTool) Descriptor() schema.ToolDescriptor {
	return schema.NewDescriptor(string(ToolClearHistory), "Clear the calculation history")
}

func (t *clearHistoryTool) Invoke(ctx context.Context, _ schema.Args) schema.ToolResult {
	n := t.history.Clear(TurnCtx(ctx).SessionID)
	return schema.Success(fmt.Sprintf("Cleared %d calculations from history.", n))
}

// NewHistoryTools returns the history and clear_history tools.
func NewHistoryTools(history *CalcHistory) []schema.Tool {
	return []schema.Tool{&historyTool{history: history}, &clearHistoryTool{history: history}}
}
