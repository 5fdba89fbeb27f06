package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/looplab/fsm"
)

const (
	StateAwaitingInput    = "awaiting_user_input"
	StateBackendCall1     = "backend_call_1"
	StateDispatchingTools = "dispatching_tools"
	StateBackendCall2     = "backend_call_2"
	StateDone             = "done"
	StateFailed           = "failed"
)

const (
	EventSubmit          = "submit"
	EventReply           = "reply"
	EventRequestTools    = "request_tools"
	EventToolsDispatched = "tools_dispatched"
	EventFailure         = "failure"
)

// One tool round per turn: backend_call_2 can only reach done or failed.
func turnFSMEvents() fsm.Events {
	return fsm.Events{
		{Name: EventSubmit, Src: []string{StateAwaitingInput}, Dst: StateBackendCall1},
		{Name: EventReply, Src: []string{StateBackendCall1, StateBackendCall2}, Dst: StateDone},
		{Name: EventRequestTools, Src: []string{StateBackendCall1}, Dst: StateDispatchingTools},
		{Name: EventToolsDispatched, Src: []string{StateDispatchingTools}, Dst: StateBackendCall2},
		{Name: EventFailure, Src: []string{StateBackendCall1, StateBackendCall2}, Dst: StateFailed},
	}
}

// transitionObserver logs every transition with the time spent in the source state.
type transitionObserver struct {
	sessionID string
	enteredAt time.Time
}

func (o *transitionObserver) afterEvent(_ context.Context, e *fsm.Event) {
	slog.Debug("Turn transition",
		"session", o.sessionID,
		"event", e.Event,
		"from", e.Src,
		"to", e.Dst,
		"elapsed", time.Since(o.enteredAt),
	)
	o.enteredAt = time.Now()
}

func newTurnFSM(sessionID string) *fsm.FSM {
	observer := &transitionObserver{sessionID: sessionID, enteredAt: time.Now()}
	return fsm.NewFSM(
		StateAwaitingInput,
		turnFSMEvents(),
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) { observer.afterEvent(ctx, e) },
		},
	)
}

// advance fires event; an invalid transition is a programming error and is logged.
// Transitions still happen after the turn context is cancelled.
func advance(ctx context.Context, machine *fsm.FSM, event string) {
	if err := machine.Event(context.WithoutCancel(ctx), event); err != nil {
		slog.Error("Invalid turn transition", "event", event, "state", machine.Current(), "err", err)
	}
}
