package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

func calcRegistry(t *testing.T, history *CalcHistory) *Executor {
	t.Helper()
	var list []schema.Tool
	list = append(list, NewCalculatorTools(history)...)
	list = append(list, NewAdvancedCalculatorTools(history)...)
	list = append(list, NewConversionTools(history)...)
	list = append(list, NewCurrencyTool(history))
	return newExecutor(t, true, list...)
}

func run(t *testing.T, e *Executor, name, args string) string {
	t.Helper()
	res := e.Execute(context.Background(), call(name, args))
	require.True(t, res.OK(), res.Content())
	return res.Content()
}

// ─── Arithmetic ───────────────────────────────────────────────────────────────

func TestCalculator_Arithmetic(t *testing.T) {
	e := calcRegistry(t, nil)

	cases := []struct {
		name, tool, args, want string
	}{
		{"add", "add", `{"numbers":[2,3]}`, "Result: 5\nCalculation: 2 + 3 = 5"},
		{"add decimals", "add", `{"numbers":[1.5,2.25]}`, "Result: 3.75\nCalculation: 1.5 + 2.25 = 3.75"},
		{"add empty", "add", `{"numbers":[]}`, "Error: No numbers provided"},
		{"subtract", "subtract", `{"a":10,"b":4}`, "Result: 6\nCalculation: 10 - 4 = 6"},
		{"multiply", "multiply", `{"numbers":[2,3,4]}`, "Result: 24\nCalculation: 2 × 3 × 4 = 24"},
		{"divide default precision", "divide", `{"a":10,"b":3}`, "Result: 3.33\nCalculation: 10 ÷ 3 = 3.33"},
		{"divide exact", "divide", `{"a":10,"b":4}`, "Result: 2.5\nCalculation: 10 ÷ 4 = 2.5"},
		{"divide precision", "divide", `{"a":1,"b":3,"precision":4}`, "Result: 0.3333\nCalculation: 1 ÷ 3 = 0.3333"},
		{"divide by zero", "divide", `{"a":10,"b":0}`, "Error: Division by zero"},
		{"factorial small", "factorial", `{"n":5}`, "Result: 120\nCalculation: 5! = 1 × 2 × 3 × 4 × 5 = 120"},
		{"factorial zero", "factorial", `{"n":0}`, "Result: 1\nCalculation: 0! = 1 = 1"},
		{"factorial large", "factorial", `{"n":10}`, "Result: 3628800\nCalculation: 10! = 3628800"},
		{"factorial max", "factorial", `{"n":20}`, "Result: 2432902008176640000\nCalculation: 20! = 2432902008176640000"},
		{"factorial negative", "factorial", `{"n":-1}`, "Error: Factorial undefined for negative numbers"},
		{"factorial too big", "factorial", `{"n":21}`, "Error: Factorial limited to n ≤ 20"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(t, e, tc.tool, tc.args))
		})
	}
}

func TestCalculator_FactorialRejectsFraction(t *testing.T) {
	e := calcRegistry(t, nil)

	res := e.Execute(context.Background(), call("factorial", `{"n":2.5}`))
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureInvalidArguments, res.Failure.Kind)
}

func TestCalculator_AdvancedMath(t *testing.T) {
	e := calcRegistry(t, nil)

	cases := []struct {
		name, tool, args, want string
	}{
		{"power", "power", `{"base":2,"exponent":10}`, "Result: 1024\nCalculation: 2^10 = 1024"},
		{"sqrt", "square_root", `{"number":16}`, "Result: 4\nCalculation: √16 = 4"},
		{"sqrt negative", "square_root", `{"number":-4}`, "Error: Cannot calculate square root of negative number"},
		{"percentage", "percentage", `{"percent":15,"of":200}`, "Result: 30\nCalculation: 15% of 200 = 30"},
		{"average", "average", `{"numbers":[1,2,3,4]}`, "Result: 2.5\nAverage of 4 numbers: 2.5"},
		{"sin degrees", "trigonometry", `{"function":"sin","angle":90}`, "Result: 1.000000\nCalculation: sin(90°) = 1.000000"},
		{"cos radians", "trigonometry", `{"function":"cos","angle":0,"unit":"radians"}`, "Result: 1.000000\nCalculation: cos(0 rad) = 1.000000"},
		{"trig unknown", "trigonometry", `{"function":"sec","angle":1}`, "Error: Unknown function 'sec' (use sin, cos or tan)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(t, e, tc.tool, tc.args))
		})
	}
}

func TestCalculator_Statistics(t *testing.T) {
	e := calcRegistry(t, nil)

	got := run(t, e, "statistics", `{"numbers":[4,1,3,2]}`)
	assert.Equal(t, "Statistics for 4 numbers:\n"+
		"  Count:  4\n"+
		"  Sum:    10\n"+
		"  Mean:   2.5000\n"+
		"  Median: 2.5\n"+
		"  Min:    1\n"+
		"  Max:    4\n"+
		"  Range:  3", got)
}

// ─── Conversions ──────────────────────────────────────────────────────────────

func TestConversions(t *testing.T) {
	e := calcRegistry(t, nil)

	cases := []struct {
		name, tool, args, want string
	}{
		{"c to f", "convert_temperature", `{"value":100,"from_unit":"C","to_unit":"F"}`, "Result: 212.00 F\nConversion: 100 C = 212.00 F"},
		{"f to k", "convert_temperature", `{"value":32,"from_unit":"f","to_unit":"K"}`, "Result: 273.15 K\nConversion: 32 F = 273.15 K"},
		{"temperature no-op", "convert_temperature", `{"value":20,"from_unit":"C","to_unit":"C"}`, "Result: 20 C\n(No conversion needed)"},
		{"temperature unknown", "convert_temperature", `{"value":20,"from_unit":"X","to_unit":"C"}`, "Error: Unknown temperature unit 'X' (use C, F or K)"},
		{"km to m", "convert_distance", `{"value":1,"from_unit":"km","to_unit":"m"}`, "Result: 1000.0000 m\n\nConversion: 1 kilometers = 1000.0000 meters"},
		{"distance no-op", "convert_distance", `{"value":5,"from_unit":"mi","to_unit":"mi"}`, "Result: 5 mi\n(No conversion needed)"},
		{"distance unknown", "convert_distance", `{"value":5,"from_unit":"yd","to_unit":"m"}`, "Error: Unknown distance unit 'yd' (use m, ft, mi or km)"},
		{"currency no-op", "convert_currency", `{"amount":10,"from_currency":"usd","to_currency":"USD"}`, "Result: 10.00 USD\n(No conversion needed)"},
		{"currency unknown", "convert_currency", `{"amount":10,"from_currency":"JPY","to_currency":"USD"}`, "Error: Unsupported currency 'JPY' (use USD, EUR or GBP)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(t, e, tc.tool, tc.args))
		})
	}
}

func TestConvertCurrency(t *testing.T) {
	e := calcRegistry(t, nil)

	got := run(t, e, "convert_currency", `{"amount":100,"from_currency":"USD","to_currency":"EUR"}`)
	assert.Equal(t, "Result: €92.00 EUR\n\n"+
		"Conversion: $100.00 USD = €92.00 EUR\n"+
		"Exchange Rate: 1 USD = 0.9200 EUR\n\n"+
		"Note: Using approximate exchange rates for demonstration.", got)
}

func TestFactorial_OutOfIntRange(t *testing.T) {
	history, err := NewCalcHistory(0)
	require.NoError(t, err)
	e := calcRegistry(t, history)

	res := e.Execute(context.Background(), call("factorial", `{"n":1e19}`))
	require.False(t, res.OK())
	assert.Equal(t, schema.FailureInvalidArguments, res.Failure.Kind)
	assert.Equal(t, "Error: invalid arguments for tool 'factorial': argument 'n' is out of the integer range: 1e+19", res.Content())
}
