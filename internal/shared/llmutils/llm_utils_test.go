package llmutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}

func TestStripThink(t *testing.T) {
	assert.Equal(t, "answer", StripThink("<think>hmm\nlet me see</think>\nanswer"))
	assert.Equal(t, "plain", StripThink("plain"))
}

func TestToolHint(t *testing.T) {
	calls := []schema.ToolCall{
		{Name: "divide", Arguments: `{"a":10,"b":0}`},
		{Name: "list_files"},
	}
	assert.Equal(t, `divide({"a":10,"b":0}), list_files()`, ToolHint(calls))
}
