package tools

import "github.com/crystaldolphin/toolchat/internal/schema"

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce a Registry ready for use.
type RegistryBuilder struct {
	tools []schema.Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithTool adds a tool and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	b.tools = append(b.tools, tool)

	return b
}

// WithTools adds several tools in order.
func (b *RegistryBuilder) WithTools(tools ...schema.Tool) *RegistryBuilder {
	b.tools = append(b.tools, tools...)

	return b
}

// Build registers the accumulated tools in order and returns the first
// *DuplicateToolError encountered.
func (b *RegistryBuilder) Build() (*Registry, error) {
	r := NewRegistry()
	for _, t := range b.tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}
