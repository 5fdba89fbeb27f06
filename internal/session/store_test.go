package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

func TestStore_SnapshotPrependsPreamble(t *testing.T) {
	s := NewStore("s1", 10, "be helpful")
	s.AppendUser("hi")
	s.AppendAssistant("hello", nil)

	snap := s.SnapshotForBackend()
	require.Equal(t, 3, snap.Len())
	assert.Equal(t, schema.RoleSystem, snap.Turns[0].Role)
	assert.Equal(t, "be helpful", snap.Turns[0].Content)
	assert.Equal(t, "hi", snap.Turns[1].Content)
	assert.Equal(t, "hello", snap.Turns[2].Content)
}

func TestStore_HistoryBound(t *testing.T) {
	const retained = 4
	s := NewStore("s1", retained, "preamble")
	for i := 0; i < 9; i++ {
		s.AppendUser(fmt.Sprintf("m%d", i))
	}

	snap := s.SnapshotForBackend()
	require.Equal(t, retained+1, snap.Len())
	assert.Equal(t, "preamble", snap.Turns[0].Content)
	assert.Equal(t, "m5", snap.Turns[1].Content)
	assert.Equal(t, "m8", snap.Turns[retained].Content)
	assert.Equal(t, 9, s.Len())
}

func TestStore_ToolTurns(t *testing.T) {
	s := NewStore("s1", 10, "p")
	calls := []schema.ToolCall{{ID: "c1", Name: "add", Arguments: `{"numbers":[1,2]}`}}
	s.AppendUser("add 1 and 2")
	s.AppendAssistant("", calls)
	s.AppendToolResult("c1", "add", "Result: 3")

	turns := s.Turns()
	require.Equal(t, 3, turns.Len())
	assert.True(t, turns.Turns[1].HasToolCalls())
	assert.Equal(t, "c1", turns.Turns[2].ToolCallID)
	assert.Equal(t, "add", turns.Turns[2].ToolName)
	assert.Equal(t, schema.RoleTool, turns.Turns[2].Role)

	// the caller's slice is copied
	calls[0].Name = "changed"
	assert.Equal(t, "add", s.Turns().Turns[1].ToolCalls[0].Name)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore("s1", 10, "p")
	s.AppendUser("a")
	s.AppendAssistant("b", nil)
	s.AppendUser("c")

	assert.Equal(t, 3, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Clear())

	snap := s.SnapshotForBackend()
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, schema.RoleSystem, snap.Turns[0].Role)
}

func TestStore_TurnsIsCopy(t *testing.T) {
	s := NewStore("s1", 10, "p")
	s.AppendUser("a")

	turns := s.Turns()
	turns.AddUser("b")
	assert.Equal(t, 1, s.Len())
}

func TestStore_DefaultRetained(t *testing.T) {
	assert.Equal(t, DefaultMaxRetained, NewStore("s", 0, "").MaxRetained())
}

func TestStore_ConcurrentReads(t *testing.T) {
	s := NewStore("s1", 5, "p")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AppendUser("x")
		}()
		go func() {
			defer wg.Done()
			_ = s.SnapshotForBackend()
			_ = s.Len()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, s.Len())
}
