package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ArgumentError reports a missing or mistyped tool argument.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' %s", e.Param, e.Reason)
}

func missingArg(name string) error {
	return &ArgumentError{Param: name, Reason: "is required"}
}

// Args is the decoded argument payload handed to a tool.
// Positional is set only for tools declaring PositionalNumbers.
type Args struct {
	Named      map[string]any
	Positional []float64
}

// NewArgs wraps a decoded argument object.
func NewArgs(named map[string]any) Args {
	if named == nil {
		named = map[string]any{}
	}
	return Args{Named: named}
}

// Has reports whether name was supplied with a non-null value.
func (a Args) Has(name string) bool {
	v, ok := a.Named[name]
	return ok && v != nil
}

// Number returns a required numeric argument.
func (a Args) Number(name string) (float64, error) {
	v, ok := a.Named[name]
	if !ok || v == nil {
		return 0, missingArg(name)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &ArgumentError{Param: name, Reason: fmt.Sprintf("must be a number, got %v", v)}
	}
	return f, nil
}

// OptionalNumber returns a numeric argument or def when absent.
func (a Args) OptionalNumber(name string, def float64) (float64, error) {
	if !a.Has(name) {
		return def, nil
	}
	return a.Number(name)
}

// Int returns a required integral argument.
func (a Args) Int(name string) (int, error) {
	f, err := a.Number(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, &ArgumentError{Param: name, Reason: fmt.Sprintf("must be an integer, got %v", f)}
	}
	if f >= math.MaxInt || f < math.MinInt {
		return 0, &ArgumentError{Param: name, Reason: fmt.Sprintf("is out of the integer range: %v", f)}
	}
	return int(f), nil
}

// OptionalInt returns an integral argument or def when absent.
func (a Args) OptionalInt(name string, def int) (int, error) {
	if !a.Has(name) {
		return def, nil
	}
	return a.Int(name)
}

// String returns a required string argument.
func (a Args) String(name string) (string, error) {
	v, ok := a.Named[name]
	if !ok || v == nil {
		return "", missingArg(name)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case float64, int, int64, json.Number:
		return fmt.Sprint(s), nil
	}
	return "", &ArgumentError{Param: name, Reason: fmt.Sprintf("must be a string, got %v", v)}
}

// OptionalString returns a string argument or def when absent.
func (a Args) OptionalString(name, def string) (string, error) {
	if !a.Has(name) {
		return def, nil
	}
	return a.String(name)
}

// Numbers returns the variadic numeric array, preferring positional values.
func (a Args) Numbers(name string) ([]float64, error) {
	if a.Positional != nil {
		return a.Positional, nil
	}
	v, ok := a.Named[name]
	if !ok || v == nil {
		return nil, missingArg(name)
	}
	raw, ok := v.([]any)
	if !ok {
		if f, isNum := toFloat(v); isNum {
			return []float64{f}, nil
		}
		return nil, &ArgumentError{Param: name, Reason: "must be an array of numbers"}
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		f, ok := toFloat(item)
		if !ok {
			return nil, &ArgumentError{Param: name, Reason: fmt.Sprintf("item %d is not a number: %v", i, item)}
		}
		out = append(out, f)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
