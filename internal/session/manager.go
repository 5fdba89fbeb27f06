// Package session keeps conversation logs keyed by an explicit session id.
//
// Sessions live in memory only. The Manager bounds how many are kept and
// evicts the least recently used one when full.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxSessions is used when the configured bound is not positive.
const DefaultMaxSessions = 256

// Manager creates and looks up Stores by id.
type Manager struct {
	maxRetained int
	preamble    string

	mu    sync.Mutex
	cache *lru.Cache[string, *Store]
}

// NewManager creates a Manager holding at most maxSessions stores, each
// replaying maxRetained turns behind preamble.
func NewManager(maxSessions, maxRetained int, preamble string) (*Manager, error) {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	cache, err := lru.NewWithEvict[string, *Store](maxSessions, func(id string, _ *Store) {
		slog.Debug("session evicted", "id", id)
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Manager{
		maxRetained: maxRetained,
		preamble:    preamble,
		cache:       cache,
	}, nil
}

// Create starts a new session with a fresh random id.
func (m *Manager) Create() (string, *Store) {
	id := uuid.NewString()
	s := NewStore(id, m.maxRetained, m.preamble)

	m.mu.Lock()
	m.cache.Add(id, s)
	m.mu.Unlock()
	return id, s
}

// Get returns the store for id.
func (m *Manager) Get(id string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Get(id)
}

// GetOrCreate returns the store for id, creating it under that id if needed.
// An empty id creates a session with a generated one.
func (m *Manager) GetOrCreate(id string) *Store {
	if id == "" {
		_, s := m.Create()
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.cache.Get(id); ok {
		return s
	}
	s := NewStore(id, m.maxRetained, m.preamble)
	m.cache.Add(id, s)
	return s
}

// Clear empties the session's log. It reports false when id is unknown.
func (m *Manager) Clear(id string) (int, bool) {
	s, ok := m.Get(id)
	if !ok {
		return 0, false
	}
	return s.Clear(), true
}

// Delete forgets the session entirely.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Remove(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}

// IDs lists live session ids, oldest first.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Keys()
}
