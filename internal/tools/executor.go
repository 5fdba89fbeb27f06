package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

// Executor runs one requested tool call against a Registry. It never panics
// and never returns a Go error: every outcome is a schema.ToolResult.
type Executor struct {
	registry *Registry
	validate bool
	schemas  sync.Map // tool name → *gojsonschema.Schema
}

// NewExecutor returns an Executor. When validate is true, decoded arguments
// are checked against the tool's parameter schema before invocation.
func NewExecutor(registry *Registry, validate bool) *Executor {
	return &Executor{registry: registry, validate: validate}
}

func (e *Executor) Registry() *Registry { return e.registry }

// Execute looks up, decodes, validates, adapts and invokes one call.
func (e *Executor) Execute(ctx context.Context, call schema.ToolCall) schema.ToolResult {
	t, ok := e.registry.Lookup(call.Name)
	if !ok {
		slog.Warn("Tool not found", "name", call.Name)
		return schema.Failed(schema.FailureToolNotFound, call.Name, fmt.Errorf("no tool named %q", call.Name))
	}
	desc := t.Descriptor()

	named, err := DecodeArguments(call.Arguments)
	if err != nil {
		return schema.InvalidArguments(desc.Name, err)
	}
	return e.run(ctx, t, desc, named)
}

// ExecuteNamed invokes a tool with an already decoded argument object.
func (e *Executor) ExecuteNamed(ctx context.Context, name string, named map[string]any) schema.ToolResult {
	t, ok := e.registry.Lookup(name)
	if !ok {
		return schema.Failed(schema.FailureToolNotFound, name, fmt.Errorf("no tool named %q", name))
	}
	if named == nil {
		named = map[string]any{}
	}
	return e.run(ctx, t, t.Descriptor(), named)
}

func (e *Executor) run(ctx context.Context, t schema.Tool, desc schema.ToolDescriptor, named map[string]any) schema.ToolResult {
	if e.validate {
		if err := e.validateArguments(desc, named); err != nil {
			return schema.InvalidArguments(desc.Name, err)
		}
	}

	args, err := AdaptArguments(desc, named)
	if err != nil {
		return schema.InvalidArguments(desc.Name, err)
	}
	return invoke(ctx, t, desc.Name, args)
}

func invoke(ctx context.Context, t schema.Tool, name string, args schema.Args) (result schema.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool panicked", "name", name, "panic", r)
			result = schema.Failed(schema.FailureExecution, name, fmt.Errorf("panic: %v", r))
		}
	}()
	return t.Invoke(ctx, args)
}

// DecodeArguments parses the serialized argument payload into an object.
// An empty payload decodes to an empty object.
func DecodeArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("malformed arguments: %w", err)
	}
	if dec.More() {
		return nil, errors.New("malformed arguments: trailing data after JSON object")
	}
	switch obj := v.(type) {
	case map[string]any:
		return obj, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("arguments must be a JSON object, got %T", v)
	}
}

// AdaptArguments shapes decoded arguments according to desc.Convention.
func AdaptArguments(desc schema.ToolDescriptor, named map[string]any) (schema.Args, error) {
	args := schema.NewArgs(named)
	if desc.Convention != schema.PositionalNumbers {
		return args, nil
	}
	p, ok := desc.Variadic()
	if !ok {
		return args, fmt.Errorf("tool %s declares positional numbers without a variadic parameter", desc.Name)
	}
	if !args.Has(p.Name) {
		args.Positional = []float64{}
		return args, nil
	}
	nums, err := args.Numbers(p.Name)
	if err != nil {
		return args, err
	}
	args.Positional = nums
	return args, nil
}

func (e *Executor) validateArguments(desc schema.ToolDescriptor, named map[string]any) error {
	s, err := e.compiledSchema(desc)
	if err != nil {
		// A schema that cannot compile is a descriptor bug; do not block the call on it.
		slog.Warn("Skipping argument validation", "tool", desc.Name, "err", err)
		return nil
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(named))
	if err != nil {
		return fmt.Errorf("validate arguments: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		msgs = append(msgs, re.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (e *Executor) compiledSchema(desc schema.ToolDescriptor) (*gojsonschema.Schema, error) {
	if s, ok := e.schemas.Load(desc.Name); ok {
		return s.(*gojsonschema.Schema), nil
	}
	doc := make(map[string]any)
	for k, v := range ParameterSchema(desc) {
		doc[k] = v
	}
	if req, ok := doc["required"].([]string); ok && len(req) == 0 {
		delete(doc, "required")
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	e.schemas.Store(desc.Name, s)
	return s, nil
}
