package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

const (
	defaultDivisionPrecision = 2
	maxDivisionPrecision     = 15
	maxFactorial             = 20
)

// calcFunc computes the result text of one calculation. A non-nil entry is
// recorded in the caller's session history.
type calcFunc func(args schema.Args) (text string, entry *HistoryEntry, err error)

// calculatorTool adapts a calcFunc to schema.Tool.
type calculatorTool struct {
	desc    schema.ToolDescriptor
	history *CalcHistory
	fn      calcFunc
}

func (t *calculatorTool) Descriptor() schema.ToolDescriptor { return t.desc }

func (t *calculatorTool) Invoke(ctx context.Context, args schema.Args) schema.ToolResult {
	text, entry, err := t.fn(args)
	if err != nil {
		var argErr *schema.ArgumentError
		if errors.As(err, &argErr) {
			return schema.InvalidArguments(t.desc.Name, err)
		}
		return schema.Failed(schema.FailureExecution, t.desc.Name, err)
	}
	if entry != nil && t.history != nil {
		t.history.Record(TurnCtx(ctx).SessionID, *entry)
	}
	return schema.Success(text)
}

func variadicDescriptor(name, description string) schema.ToolDescriptor {
	d := schema.NewDescriptor(name, description, "*numbers")
	d.Convention = schema.PositionalNumbers
	return d
}

func numberParam(declared string) schema.Param {
	return schema.ParseParam(declared).Typed(schema.TypeNumber)
}

// NewCalculatorTools returns the arithmetic tools in registration order.
func NewCalculatorTools(history *CalcHistory) []schema.Tool {
	tool := func(d schema.ToolDescriptor, fn calcFunc) schema.Tool {
		return &calculatorTool{desc: d, history: history, fn: fn}
	}
	return []schema.Tool{
		tool(variadicDescriptor(string(ToolAdd), "Add numbers"), calcAdd),
		tool(schema.NewDescriptor(string(ToolSubtract), "Subtract two numbers", "a", "b"), calcSubtract),
		tool(variadicDescriptor(string(ToolMultiply), "Multiply numbers"), calcMultiply),
		tool(schema.NewDescriptor(string(ToolDivide), "Divide two numbers", "a", "b", "precision (optional)"), calcDivide),
		tool(schema.NewDescriptor(string(ToolFactorial), "Calculate factorial", "n"), calcFactorial),
	}
}

// NewAdvancedCalculatorTools returns the extra math tools that declare
// explicit parameter types.
func NewAdvancedCalculatorTools(history *CalcHistory) []schema.Tool {
	tool := func(d schema.ToolDescriptor, fn calcFunc) schema.Tool {
		return &calculatorTool{desc: d, history: history, fn: fn}
	}
	return []schema.Tool{
		tool(schema.ToolDescriptor{
			Name:        string(ToolPower),
			Description: "Raise a number to a power",
			Params:      []schema.Param{numberParam("base"), numberParam("exponent")},
			Convention:  schema.ByName,
		}, calcPower),
		tool(schema.ToolDescriptor{
			Name:        string(ToolSquareRoot),
			Description: "Calculate the square root of a number",
			Params:      []schema.Param{numberParam("number")},
			Convention:  schema.ByName,
		}, calcSquareRoot),
		tool(schema.ToolDescriptor{
			Name:        string(ToolPercentage),
			Description: "Calculate a percentage of a number",
			Params:      []schema.Param{numberParam("percent"), numberParam("of")},
			Convention:  schema.ByName,
		}, calcPercentage),
		tool(variadicDescriptor(string(ToolAverage), "Calculate the average of numbers"), calcAverage),
		tool(variadicDescriptor(string(ToolStatistics), "Calculate count, sum, mean, median, min, max and range"), calcStatistics),
		tool(schema.ToolDescriptor{
			Name:        string(ToolTrigonometry),
			Description: "Calculate sin, cos or tan of an angle",
			Params: []schema.Param{
				schema.ParseParam("function").Typed(schema.TypeString).Describe("One of sin, cos, tan"),
				numberParam("angle"),
				schema.ParseParam("unit (optional)").Typed(schema.TypeString).Describe("degrees (default) or radians"),
			},
			Convention: schema.ByName,
		}, calcTrigonometry),
	}
}

// ---------------------------------------------------------------------------
// Basic arithmetic
// ---------------------------------------------------------------------------

func calcAdd(args schema.Args) (string, *HistoryEntry, error) {
	nums, err := args.Numbers("numbers")
	if err != nil {
		return "", nil, err
	}
	if len(nums) == 0 {
		return "Error: No numbers provided", nil, nil
	}
	var sum float64
	for _, n := range nums {
		sum += n
	}
	r := formatNumber(sum)
	return fmt.Sprintf("Result: %s\nCalculation: %s = %s", r, joinNumbers(nums, " + "), r),
		entry(fmt.Sprintf("add(%s)", joinNumbers(nums, ", ")), r), nil
}

func calcSubtract(args schema.Args) (string, *HistoryEntry, error) {
	a, err := args.Number("a")
	if err != nil {
		return "", nil, err
	}
	b, err := args.Number("b")
	if err != nil {
		return "", nil, err
	}
	r := formatNumber(a - b)
	return fmt.Sprintf("Result: %s\nCalculation: %s - %s = %s", r, formatNumber(a), formatNumber(b), r),
		entry(fmt.Sprintf("subtract(%s, %s)", formatNumber(a), formatNumber(b)), r), nil
}

func calcMultiply(args schema.Args) (string, *HistoryEntry, error) {
	nums, err := args.Numbers("numbers")
	if err != nil {
		return "", nil, err
	}
	if len(nums) == 0 {
		return "Error: No numbers provided", nil, nil
	}
	product := 1.0
	for _, n := range nums {
		product *= n
	}
	r := formatNumber(product)
	return fmt.Sprintf("Result: %s\nCalculation: %s = %s", r, joinNumbers(nums, " × "), r),
		entry(fmt.Sprintf("multiply(%s)", joinNumbers(nums, ", ")), r), nil
}

func calcDivide(args schema.Args) (string, *HistoryEntry, error) {
	a, err := args.Number("a")
	if err != nil {
		return "", nil, err
	}
	b, err := args.Number("b")
	if err != nil {
		return "", nil, err
	}
	precision, err := args.OptionalInt("precision", defaultDivisionPrecision)
	if err != nil {
		return "", nil, err
	}
	if b == 0 {
		return "Error: Division by zero", nil, nil
	}
	if precision < 0 || precision > maxDivisionPrecision {
		return fmt.Sprintf("Error: Precision must be between 0 and %d", maxDivisionPrecision), nil, nil
	}
	r := decimal.NewFromFloat(a).Div(decimal.NewFromFloat(b)).Round(int32(precision)).String()
	return fmt.Sprintf("Result: %s\nCalculation: %s ÷ %s = %s", r, formatNumber(a), formatNumber(b), r),
		entry(fmt.Sprintf("divide(%s, %s)", formatNumber(a), formatNumber(b)), r), nil
}

func calcFactorial(args schema.Args) (string, *HistoryEntry, error) {
	n, err := args.Int("n")
	if err != nil {
		return "", nil, err
	}
	if n < 0 {
		return "Error: Factorial undefined for negative numbers", nil, nil
	}
	if n > maxFactorial {
		return fmt.Sprintf("Error: Factorial limited to n ≤ %d", maxFactorial), nil, nil
	}

	var result uint64 = 1
	steps := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		result *= uint64(i)
		steps = append(steps, strconv.Itoa(i))
	}
	r := strconv.FormatUint(result, 10)

	calc := fmt.Sprintf("%d! = %s", n, r)
	if n <= 5 {
		expansion := "1"
		if n > 0 {
			expansion = strings.Join(steps, " × ")
		}
		calc = fmt.Sprintf("%d! = %s = %s", n, expansion, r)
	}
	return fmt.Sprintf("Result: %s\nCalculation: %s", r, calc),
		entry(fmt.Sprintf("factorial(%d)", n), r), nil
}

// ---------------------------------------------------------------------------
// Advanced math
// ---------------------------------------------------------------------------

func calcPower(args schema.Args) (string, *HistoryEntry, error) {
	base, err := args.Number("base")
	if err != nil {
		return "", nil, err
	}
	exp, err := args.Number("exponent")
	if err != nil {
		return "", nil, err
	}
	v := math.Pow(base, exp)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "Error: Result is not a finite number", nil, nil
	}
	r := formatNumber(v)
	return fmt.Sprintf("Result: %s\nCalculation: %s^%s = %s", r, formatNumber(base), formatNumber(exp), r),
		entry(fmt.Sprintf("power(%s, %s)", formatNumber(base), formatNumber(exp)), r), nil
}

func calcSquareRoot(args schema.Args) (string, *HistoryEntry, error) {
	n, err := args.Number("number")
	if err != nil {
		return "", nil, err
	}
	if n < 0 {
		return "Error: Cannot calculate square root of negative number", nil, nil
	}
	r := formatNumber(math.Sqrt(n))
	return fmt.Sprintf("Result: %s\nCalculation: √%s = %s", r, formatNumber(n), r),
		entry(fmt.Sprintf("sqrt(%s)", formatNumber(n)), r), nil
}

func calcPercentage(args schema.Args) (string, *HistoryEntry, error) {
	percent, err := args.Number("percent")
	if err != nil {
		return "", nil, err
	}
	of, err := args.Number("of")
	if err != nil {
		return "", nil, err
	}
	r := formatNumber(percent * of / 100)
	return fmt.Sprintf("Result: %s\nCalculation: %s%% of %s = %s", r, formatNumber(percent), formatNumber(of), r),
		entry(fmt.Sprintf("percentage(%s, %s)", formatNumber(percent), formatNumber(of)), r), nil
}

func calcAverage(args schema.Args) (string, *HistoryEntry, error) {
	nums, err := args.Numbers("numbers")
	if err != nil {
		return "", nil, err
	}
	if len(nums) == 0 {
		return "Error: No numbers provided", nil, nil
	}
	r := formatNumber(sum(nums) / float64(len(nums)))
	return fmt.Sprintf("Result: %s\nAverage of %d numbers: %s", r, len(nums), r),
		entry(fmt.Sprintf("average(%s)", joinNumbers(nums, ", ")), r), nil
}

func calcStatistics(args schema.Args) (string, *HistoryEntry, error) {
	nums, err := args.Numbers("numbers")
	if err != nil {
		return "", nil, err
	}
	if len(nums) == 0 {
		return "Error: No numbers provided", nil, nil
	}
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	n := len(sorted)
	total := sum(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	lo, hi := sorted[0], sorted[n-1]

	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for %d numbers:\n", n)
	fmt.Fprintf(&b, "  Count:  %d\n", n)
	fmt.Fprintf(&b, "  Sum:    %s\n", formatNumber(total))
	fmt.Fprintf(&b, "  Mean:   %.4f\n", total/float64(n))
	fmt.Fprintf(&b, "  Median: %s\n", formatNumber(median))
	fmt.Fprintf(&b, "  Min:    %s\n", formatNumber(lo))
	fmt.Fprintf(&b, "  Max:    %s\n", formatNumber(hi))
	fmt.Fprintf(&b, "  Range:  %s", formatNumber(hi-lo))

	return b.String(), entry(fmt.Sprintf("statistics(%d numbers)", n), fmt.Sprintf("mean %.4f", total/float64(n))), nil
}

func calcTrigonometry(args schema.Args) (string, *HistoryEntry, error) {
	fn, err := args.String("function")
	if err != nil {
		return "", nil, err
	}
	angle, err := args.Number("angle")
	if err != nil {
		return "", nil, err
	}
	unit, err := args.OptionalString("unit", "degrees")
	if err != nil {
		return "", nil, err
	}

	rad := angle
	suffix := " rad"
	switch strings.ToLower(unit) {
	case "degrees", "degree", "deg":
		rad = angle * math.Pi / 180
		suffix = "°"
	case "radians", "radian", "rad":
	default:
		return fmt.Sprintf("Error: Unknown angle unit '%s' (use degrees or radians)", unit), nil, nil
	}

	var v float64
	switch strings.ToLower(fn) {
	case "sin":
		v = math.Sin(rad)
	case "cos":
		v = math.Cos(rad)
	case "tan":
		v = math.Tan(rad)
	default:
		return fmt.Sprintf("Error: Unknown function '%s' (use sin, cos or tan)", fn), nil, nil
	}

	r := fmt.Sprintf("%.6f", v)
	return fmt.Sprintf("Result: %s\nCalculation: %s(%s%s) = %s", r, strings.ToLower(fn), formatNumber(angle), suffix, r),
		entry(fmt.Sprintf("%s(%s %s)", strings.ToLower(fn), formatNumber(angle), unit), r), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func entry(operation, result string) *HistoryEntry {
	return &HistoryEntry{Operation: operation, Result: result}
}

func sum(nums []float64) float64 {
	var s float64
	for _, n := range nums {
		s += n
	}
	return s
}

// formatNumber renders f in its shortest exact form ("5", "2.5").
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinNumbers(nums []float64, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = formatNumber(n)
	}
	return strings.Join(parts, sep)
}
