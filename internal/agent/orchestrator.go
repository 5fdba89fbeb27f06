package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/looplab/fsm"

	"github.com/crystaldolphin/toolchat/internal/schema"
	"github.com/crystaldolphin/toolchat/internal/session"
	"github.com/crystaldolphin/toolchat/internal/shared/llmutils"
	"github.com/crystaldolphin/toolchat/internal/tools"
)

// TurnRequest is one user turn as supplied by the shell.
type TurnRequest struct {
	Text     string
	UseTools bool
	// Temperature overrides the configured value when non-nil.
	Temperature *float64
}

// TurnResult reports how a turn resolved.
type TurnResult struct {
	Reply     string
	Turns     schema.Turns      // full log after the turn
	ToolCalls []schema.ToolCall // calls dispatched this turn, in order
	State     string
	Skipped   bool  // input was blank; nothing changed
	Err       error // *BackendCallError; Reply holds the display string
}

// Orchestrator drives one user turn through at most two backend round trips.
// It never mutates the registry; each Store must be driven by one turn at a time.
type Orchestrator struct {
	invoker  *Invoker
	executor *tools.Executor
	settings schema.AgentSettings
	sessions *session.Manager
}

func NewOrchestrator(
	invoker *Invoker,
	executor *tools.Executor,
	settings schema.AgentSettings,
	sessions *session.Manager,
) *Orchestrator {
	return &Orchestrator{
		invoker:  invoker,
		executor: executor,
		settings: settings,
		sessions: sessions,
	}
}

func (o *Orchestrator) Settings() schema.AgentSettings { return o.settings }

// Registry exposes the read-only tool registry for status display.
func (o *Orchestrator) Registry() *tools.Registry { return o.executor.Registry() }

// Sessions returns the session manager backing ProcessDirect.
func (o *Orchestrator) Sessions() *session.Manager { return o.sessions }

// HandleTurn runs one user turn against store.
func (o *Orchestrator) HandleTurn(ctx context.Context, store *session.Store, req TurnRequest) TurnResult {
	if strings.TrimSpace(req.Text) == "" {
		return TurnResult{Turns: store.Turns(), State: StateAwaitingInput, Skipped: true}
	}

	machine := newTurnFSM(store.ID)
	ctx = tools.WithTurn(ctx, tools.TurnContext{SessionID: store.ID})
	opts := o.chatOptions(req)

	slog.Info("Processing turn", "session", store.ID, "content", llmutils.Truncate(req.Text, 80), "tools", req.UseTools)

	store.AppendUser(req.Text)
	var defs []map[string]any
	if req.UseTools {
		defs = tools.ToBackendSchema(o.executor.Registry().ListAll())
	}

	advance(ctx, machine, EventSubmit)
	resp, err := o.invoker.Chat(ctx, store.SnapshotForBackend(), defs, opts)
	if err != nil {
		return o.fail(ctx, machine, store, 1, err, nil)
	}

	if !resp.HasToolCalls() {
		return o.finish(ctx, machine, store, resp, nil)
	}

	store.AppendAssistant(resp.Content, resp.ToolCalls)
	advance(ctx, machine, EventRequestTools)
	o.dispatch(ctx, store, resp.ToolCalls)
	advance(ctx, machine, EventToolsDispatched)

	// Synthesis runs without tools; any calls it requests are ignored.
	final, err := o.invoker.Chat(ctx, store.SnapshotForBackend(), nil, opts)
	if err != nil {
		return o.fail(ctx, machine, store, 2, err, resp.ToolCalls)
	}
	if final.HasToolCalls() {
		slog.Warn("Ignoring tool calls in synthesis response", "session", store.ID, "calls", llmutils.ToolHint(final.ToolCalls))
	}
	return o.finish(ctx, machine, store, final, resp.ToolCalls)
}

// dispatch runs each call in backend order and records exactly one result per call.
func (o *Orchestrator) dispatch(ctx context.Context, store *session.Store, calls []schema.ToolCall) {
	for _, tc := range calls {
		slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(tc.Arguments, 200))

		result := o.executor.Execute(ctx, tc)
		if !result.OK() {
			slog.Warn("Tool call failed", "name", tc.Name, "kind", result.Failure.Kind, "err", result.Failure.Err)
		}
		store.AppendToolResult(tc.ID, tc.Name, result.Content())
	}
}

func (o *Orchestrator) finish(
	ctx context.Context,
	machine *fsm.FSM,
	store *session.Store,
	resp schema.LLMResponse,
	calls []schema.ToolCall,
) TurnResult {
	// The stored turn keeps the backend text as returned; only the reply is cleaned.
	store.AppendAssistant(resp.Content, nil)
	reply := llmutils.StripThink(resp.Content)
	advance(ctx, machine, EventReply)

	slog.Info("Response", "session", store.ID, "length", len(reply), "tool_calls", len(calls))
	return TurnResult{
		Reply:     reply,
		Turns:     store.Turns(),
		ToolCalls: calls,
		State:     machine.Current(),
	}
}

// fail leaves no assistant turn for the failed round so the user can retry.
func (o *Orchestrator) fail(
	ctx context.Context,
	machine *fsm.FSM,
	store *session.Store,
	round int,
	err error,
	calls []schema.ToolCall,
) TurnResult {
	advance(ctx, machine, EventFailure)
	callErr := &BackendCallError{Round: round, Err: err}
	slog.Error("Backend call failed", "session", store.ID, "round", round, "err", err)
	return TurnResult{
		Reply:     DisplayError(callErr),
		Turns:     store.Turns(),
		ToolCalls: calls,
		State:     machine.Current(),
		Err:       callErr,
	}
}

func (o *Orchestrator) chatOptions(req TurnRequest) schema.ChatOptions {
	temperature := o.settings.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	return schema.NewChatOptions(o.settings.Model, o.settings.MaxTokens, temperature)
}

// ProcessDirect answers one message for sessionID outside an interactive shell.
func (o *Orchestrator) ProcessDirect(ctx context.Context, sessionID, content string) string {
	store := o.sessions.GetOrCreate(sessionID)
	res := o.HandleTurn(ctx, store, TurnRequest{Text: content, UseTools: o.settings.ToolsEnabled})
	return res.Reply
}
