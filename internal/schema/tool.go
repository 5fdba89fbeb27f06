// Package schema contains the core contracts shared across toolchat packages.
// Concrete implementations live in their respective packages.
package schema

import (
	"context"
	"strings"
)

const (
	optionalMarker = "(optional)"
	variadicMarker = "*"
)

// ParamType is the primitive type surfaced to the backend for a parameter.
// The zero value means "infer from the parameter name".
type ParamType string

const (
	TypeInferred ParamType = ""
	TypeNumber   ParamType = "number"
	TypeInteger  ParamType = "integer"
	TypeString   ParamType = "string"
	TypeBoolean  ParamType = "boolean"
)

// ArgConvention declares how decoded arguments reach a tool.
type ArgConvention string

const (
	// ByName passes the decoded argument object keyed by parameter name.
	ByName ArgConvention = "by_name"
	// PositionalNumbers passes the single variadic numeric array positionally.
	PositionalNumbers ArgConvention = "positional_numbers"
)

// Param is one declared tool parameter.
type Param struct {
	Declared    string // as written by the tool author, e.g. "precision (optional)" or "*numbers"
	Name        string // schema key with markers stripped
	Type        ParamType
	Optional    bool
	Variadic    bool
	Description string
}

// ParseParam strips the optional and variadic markers from a declared name.
func ParseParam(declared string) Param {
	p := Param{Declared: declared}
	name := strings.TrimSpace(declared)
	if strings.HasSuffix(name, optionalMarker) {
		p.Optional = true
		name = strings.TrimSpace(strings.TrimSuffix(name, optionalMarker))
	}
	if strings.HasPrefix(name, variadicMarker) {
		p.Variadic = true
		name = strings.TrimPrefix(name, variadicMarker)
	}
	p.Name = name
	return p
}

// ParseParams parses each declared name in order.
func ParseParams(declared ...string) []Param {
	out := make([]Param, 0, len(declared))
	for _, d := range declared {
		out = append(out, ParseParam(d))
	}
	return out
}

// Typed returns a copy of p with an explicit type.
func (p Param) Typed(t ParamType) Param {
	p.Type = t
	return p
}

// Describe returns a copy of p with a description.
func (p Param) Describe(desc string) Param {
	p.Description = desc
	return p
}

// Required reports whether the backend must supply the parameter.
func (p Param) Required() bool { return !p.Optional && !p.Variadic }

// ToolDescriptor is the registry-facing metadata of a tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Params      []Param
	Convention  ArgConvention
	// RawSchema, when set, replaces the schema derived from Params.
	// Bridged tools carry the schema their server advertised.
	RawSchema map[string]any
}

// NewDescriptor builds a by-name descriptor from declared parameter names.
func NewDescriptor(name, description string, declared ...string) ToolDescriptor {
	return ToolDescriptor{
		Name:        name,
		Description: description,
		Params:      ParseParams(declared...),
		Convention:  ByName,
	}
}

// Variadic returns the first variadic parameter, if any.
func (d ToolDescriptor) Variadic() (Param, bool) {
	for _, p := range d.Params {
		if p.Variadic {
			return p, true
		}
	}
	return Param{}, false
}

// Signature renders "name(p1, p2 (optional))" using the declared names.
func (d ToolDescriptor) Signature() string {
	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Declared
	}
	return d.Name + "(" + strings.Join(names, ", ") + ")"
}

// Tool is the interface all model-callable tools must satisfy.
// Built-in tools and MCP-bridged tools both implement this interface.
type Tool interface {
	Descriptor() ToolDescriptor
	Invoke(ctx context.Context, args Args) ToolResult
}
