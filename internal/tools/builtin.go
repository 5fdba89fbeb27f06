package tools

import "github.com/crystaldolphin/toolchat/internal/schema"

// BuiltinOptions selects and configures the built-in tool set.
type BuiltinOptions struct {
	FileBasePath string
	AllowWrite   bool
	// Extended adds file_stats, the advanced math tools, currency
	// conversion and the calculation history tools.
	Extended    bool
	MaxSessions int
}

// Builtin returns the built-in tools in registration order: file tools,
// arithmetic, conversions, then the extended set.
func Builtin(opts BuiltinOptions) ([]schema.Tool, error) {
	sandbox, err := NewSandbox(opts.FileBasePath)
	if err != nil {
		return nil, err
	}
	history, err := NewCalcHistory(opts.MaxSessions)
	if err != nil {
		return nil, err
	}

	list := []schema.Tool{
		NewListFilesTool(sandbox),
		NewReadFileTool(sandbox),
		NewSearchFilesTool(sandbox),
	}
	list = append(list, NewCalculatorTools(history)...)
	list = append(list, NewConversionTools(history)...)

	if !opts.Extended {
		return list, nil
	}
	list = append(list, NewFileStatsTool(sandbox))
	if opts.AllowWrite {
		list = append(list, NewWriteFileTool(sandbox))
	}
	list = append(list, NewAdvancedCalculatorTools(history)...)
	list = append(list, NewCurrencyTool(history))
	list = append(list, NewHistoryTools(history)...)
	return list, nil
}

// NewBuiltinRegistry builds a Registry holding the built-in tools.
func NewBuiltinRegistry(opts BuiltinOptions) (*Registry, error) {
	list, err := Builtin(opts)
	if err != nil {
		return nil, err
	}
	return NewRegistryBuilder().WithTools(list...).Build()
}
