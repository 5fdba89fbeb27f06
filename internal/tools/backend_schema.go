package tools

import "github.com/crystaldolphin/toolchat/internal/schema"

// numericParams are parameter names inferred as numeric when a descriptor
// does not declare an explicit type. Everything else is a string.
var numericParams = map[string]bool{
	"a":         true,
	"b":         true,
	"value":     true,
	"n":         true,
	"precision": true,
}

// ToBackendSchema returns the tool definitions in OpenAI function-calling
// format, one entry per descriptor, in the given order.
func ToBackendSchema(descs []schema.ToolDescriptor) []map[string]any {
	list := make([]map[string]any, 0, len(descs))
	for _, d := range descs {
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        d.Name,
				"description": d.Description,
				"parameters":  ParameterSchema(d),
			},
		})
	}
	return list
}

// ParameterSchema builds the JSON Schema object describing d's parameters.
func ParameterSchema(d schema.ToolDescriptor) map[string]any {
	if d.RawSchema != nil {
		return d.RawSchema
	}
	properties := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		properties[p.Name] = propertySchema(p)
		if p.Required() {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func propertySchema(p schema.Param) map[string]any {
	desc := p.Description
	if desc == "" {
		desc = "Parameter: " + p.Declared
	}
	if p.Variadic {
		item := p.Type
		if item == schema.TypeInferred {
			item = schema.TypeNumber
		}
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": string(item)},
			"description": desc,
		}
	}
	return map[string]any{
		"type":        string(paramType(p)),
		"description": desc,
	}
}

// paramType prefers an explicit declaration over name-based inference.
func paramType(p schema.Param) schema.ParamType {
	if p.Type != schema.TypeInferred {
		return p.Type
	}
	if numericParams[p.Name] {
		return schema.TypeNumber
	}
	return schema.TypeString
}
