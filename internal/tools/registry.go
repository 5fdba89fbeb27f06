package tools

import (
	"fmt"
	"strings"
	"sync"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolListFiles          ToolName = "list_files"
	ToolReadFile           ToolName = "read_file"
	ToolSearchFiles        ToolName = "search_files"
	ToolFileStats          ToolName = "file_stats"
	ToolWriteFile          ToolName = "write_file"
	ToolAdd                ToolName = "add"
	ToolSubtract           ToolName = "subtract"
	ToolMultiply           ToolName = "multiply"
	ToolDivide             ToolName = "divide"
	ToolPower              ToolName = "power"
	ToolSquareRoot         ToolName = "square_root"
	ToolPercentage         ToolName = "percentage"
	ToolFactorial          ToolName = "factorial"
	ToolAverage            ToolName = "average"
	ToolStatistics         ToolName = "statistics"
	ToolTrigonometry       ToolName = "trigonometry"
	ToolConvertTemperature ToolName = "convert_temperature"
	ToolConvertDistance    ToolName = "convert_distance"
	ToolConvertCurrency    ToolName = "convert_currency"
	ToolHistory            ToolName = "history"
	ToolClearHistory       ToolName = "clear_history"
)

// DuplicateToolError is returned when a name is registered twice.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// Registry holds a set of named tools in insertion order.
// It is populated during startup and treated as read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]schema.Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]schema.Tool)}
}

// Register adds t, failing if its name is already present.
func (r *Registry) Register(t schema.Tool) error {
	name := t.Descriptor().Name
	if name == "" {
		return fmt.Errorf("tool has an empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Name: name}
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (schema.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// GetTool returns the built-in tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	t, _ := r.Lookup(string(name))
	return t
}

// ListAll returns the descriptors in registration order.
func (r *Registry) ListAll() []schema.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schema.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor())
	}
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DescribeAll renders one "- name(params): description" line per tool.
func (r *Registry) DescribeAll() string {
	descs := r.ListAll()
	lines := make([]string, 0, len(descs))
	for _, d := range descs {
		lines = append(lines, fmt.Sprintf("- %s: %s", d.Signature(), d.Description))
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
