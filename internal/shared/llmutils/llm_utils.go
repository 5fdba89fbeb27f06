package llmutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

var reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Truncate shortens a string to at most n characters, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return strings.TrimSpace(reThink.ReplaceAllString(s, ""))
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ToolHint renders a short line for a batch of tool calls, e.g. `divide({"a":10,"b":0})`.
func ToolHint(calls []schema.ToolCall) string {
	parts := make([]string, 0, len(calls))
	for _, tc := range calls {
		args := strings.TrimSpace(tc.Arguments)
		if args == "" || args == "{}" {
			parts = append(parts, tc.Name+"()")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", tc.Name, Truncate(args, 40)))
	}
	return strings.Join(parts, ", ")
}
