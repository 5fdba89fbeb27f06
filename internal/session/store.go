package session

import (
	"sync"
	"time"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

// DefaultMaxRetained is the replay window used when none is configured.
const DefaultMaxRetained = 50

// Store holds one conversation's turns.
//
// Turns are append-only; Clear is the only operation that removes them.
// Only the last maxRetained turns are replayed to the backend, but the full
// log is kept for inspection.
type Store struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	preamble    string
	maxRetained int

	mu    sync.Mutex
	turns schema.Turns
}

// NewStore creates an empty store. A non-positive maxRetained falls back to
// DefaultMaxRetained.
func NewStore(id string, maxRetained int, preamble string) *Store {
	if maxRetained <= 0 {
		maxRetained = DefaultMaxRetained
	}
	now := time.Now()
	return &Store{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		preamble:    preamble,
		maxRetained: maxRetained,
		turns:       schema.NewTurns(),
	}
}

// AppendUser appends a user turn.
func (s *Store) AppendUser(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns.AddUser(text)
	s.UpdatedAt = time.Now()
}

// AppendAssistant appends an assistant turn. calls may be nil.
func (s *Store) AppendAssistant(text string, calls []schema.ToolCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns.AddAssistant(text, calls)
	s.UpdatedAt = time.Now()
}

// AppendToolResult appends the result of one tool call.
func (s *Store) AppendToolResult(callID, toolName, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns.AddToolResult(callID, toolName, content)
	s.UpdatedAt = time.Now()
}

// SnapshotForBackend returns the system preamble followed by the last
// maxRetained stored turns.
func (s *Store) SnapshotForBackend() schema.Turns {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail := s.turns.Turns
	if len(tail) > s.maxRetained {
		tail = tail[len(tail)-s.maxRetained:]
	}

	out := schema.NewTurns()
	out.Turns = make([]schema.Turn, 0, len(tail)+1)
	if s.preamble != "" {
		out.AddSystem(s.preamble)
	}
	out.Turns = append(out.Turns, tail...)
	return out
}

// Clear drops every turn and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.turns.Len()
	s.turns = schema.NewTurns()
	s.UpdatedAt = time.Now()
	return n
}

// Len returns the true number of stored turns, not the replay window.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.Len()
}

// Turns returns a copy of the full log.
func (s *Store) Turns() schema.Turns {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.Clone()
}

// MaxRetained returns the replay window size.
func (s *Store) MaxRetained() int { return s.maxRetained }
