package tools

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

var (
	metersPer = map[string]float64{"m": 1.0, "ft": 0.3048, "mi": 1609.34, "km": 1000.0}
	perMeter  = map[string]float64{"m": 1.0, "ft": 3.28084, "mi": 0.000621371, "km": 0.001}

	distanceNames = map[string]string{"m": "meters", "ft": "feet", "mi": "miles", "km": "kilometers"}

	// Approximate rates, 1 unit of the outer key in the inner currency.
	exchangeRates = map[string]map[string]string{
		"USD": {"USD": "1.0", "EUR": "0.92", "GBP": "0.79"},
		"EUR": {"USD": "1.09", "EUR": "1.0", "GBP": "0.86"},
		"GBP": {"USD": "1.27", "EUR": "1.16", "GBP": "1.0"},
	}
	currencySymbols = map[string]string{"USD": "$", "EUR": "€", "GBP": "£"}
)

// NewConversionTools returns the unit conversion tools in registration order.
func NewConversionTools(history *CalcHistory) []schema.Tool {
	return []schema.Tool{
		&calculatorTool{
			desc:    schema.NewDescriptor(string(ToolConvertTemperature), "Convert temperature (C, F, K)", "value", "from_unit", "to_unit"),
			history: history,
			fn:      convertTemperature,
		},
		&calculatorTool{
			desc:    schema.NewDescriptor(string(ToolConvertDistance), "Convert distance (m, ft, mi, km)", "value", "from_unit", "to_unit"),
			history: history,
			fn:      convertDistance,
		},
	}
}

// NewCurrencyTool converts between USD, EUR and GBP at fixed rates.
func NewCurrencyTool(history *CalcHistory) schema.Tool {
	return &calculatorTool{
		desc: schema.ToolDescriptor{
			Name:        string(ToolConvertCurrency),
			Description: "Convert currency (USD, EUR, GBP) using approximate fixed rates",
			Params: []schema.Param{
				numberParam("amount"),
				schema.ParseParam("from_currency").Typed(schema.TypeString),
				schema.ParseParam("to_currency").Typed(schema.TypeString),
			},
			Convention: schema.ByName,
		},
		history: history,
		fn:      convertCurrency,
	}
}

type unitArgs struct {
	value    float64
	from, to string
}

func readUnitArgs(args schema.Args, valueKey, fromKey, toKey string, normalize func(string) string) (unitArgs, error) {
	var u unitArgs
	var err error
	if u.value, err = args.Number(valueKey); err != nil {
		return u, err
	}
	if u.from, err = args.String(fromKey); err != nil {
		return u, err
	}
	if u.to, err = args.String(toKey); err != nil {
		return u, err
	}
	u.from, u.to = normalize(u.from), normalize(u.to)
	return u, nil
}

func convertTemperature(args schema.Args) (string, *HistoryEntry, error) {
	u, err := readUnitArgs(args, "value", "from_unit", "to_unit", normalizeTemperatureUnit)
	if err != nil {
		return "", nil, err
	}
	for _, unit := range []string{u.from, u.to} {
		if unit != "C" && unit != "F" && unit != "K" {
			return fmt.Sprintf("Error: Unknown temperature unit '%s' (use C, F or K)", unit), nil, nil
		}
	}
	if u.from == u.to {
		return fmt.Sprintf("Result: %s %s\n(No conversion needed)", formatNumber(u.value), u.to), nil, nil
	}

	celsius := u.value
	switch u.from {
	case "F":
		celsius = (u.value - 32) * 5 / 9
	case "K":
		celsius = u.value - 273.15
	}

	result := celsius
	switch u.to {
	case "F":
		result = celsius*9/5 + 32
	case "K":
		result = celsius + 273.15
	}

	r := fmt.Sprintf("%.2f", result)
	return fmt.Sprintf("Result: %s %s\nConversion: %s %s = %s %s", r, u.to, formatNumber(u.value), u.from, r, u.to),
		entry(fmt.Sprintf("convert(%s%s to %s)", formatNumber(u.value), u.from, u.to), r), nil
}

func normalizeTemperatureUnit(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "CELSIUS":
		return "C"
	case "FAHRENHEIT":
		return "F"
	case "KELVIN":
		return "K"
	}
	return s
}

func convertDistance(args schema.Args) (string, *HistoryEntry, error) {
	u, err := readUnitArgs(args, "value", "from_unit", "to_unit", func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	if err != nil {
		return "", nil, err
	}
	for _, unit := range []string{u.from, u.to} {
		if _, ok := metersPer[unit]; !ok {
			return fmt.Sprintf("Error: Unknown distance unit '%s' (use m, ft, mi or km)", unit), nil, nil
		}
	}
	if u.from == u.to {
		return fmt.Sprintf("Result: %s %s\n(No conversion needed)", formatNumber(u.value), u.to), nil, nil
	}

	r := fmt.Sprintf("%.4f", u.value*metersPer[u.from]*perMeter[u.to])
	return fmt.Sprintf("Result: %s %s\n\nConversion: %s %s = %s %s",
			r, u.to, formatNumber(u.value), distanceNames[u.from], r, distanceNames[u.to]),
		entry(fmt.Sprintf("convert(%s %s to %s)", formatNumber(u.value), u.from, u.to), r), nil
}

func convertCurrency(args schema.Args) (string, *HistoryEntry, error) {
	u, err := readUnitArgs(args, "amount", "from_currency", "to_currency", func(s string) string {
		return strings.ToUpper(strings.TrimSpace(s))
	})
	if err != nil {
		return "", nil, err
	}
	for _, cur := range []string{u.from, u.to} {
		if _, ok := exchangeRates[cur]; !ok {
			return fmt.Sprintf("Error: Unsupported currency '%s' (use USD, EUR or GBP)", cur), nil, nil
		}
	}

	amount := decimal.NewFromFloat(u.value)
	if u.from == u.to {
		return fmt.Sprintf("Result: %s %s\n(No conversion needed)", amount.StringFixed(2), u.to), nil, nil
	}

	rate := decimal.RequireFromString(exchangeRates[u.from][u.to])
	result := amount.Mul(rate).StringFixed(2)
	from, to := currencySymbols[u.from], currencySymbols[u.to]

	var b strings.Builder
	fmt.Fprintf(&b, "Result: %s%s %s\n\n", to, result, u.to)
	fmt.Fprintf(&b, "Conversion: %s%s %s = %s%s %s\n", from, amount.StringFixed(2), u.from, to, result, u.to)
	fmt.Fprintf(&b, "Exchange Rate: 1 %s = %s %s\n\n", u.from, rate.StringFixed(4), u.to)
	b.WriteString("Note: Using approximate exchange rates for demonstration.")

	return b.String(), entry(fmt.Sprintf("convert(%s %s to %s)", amount.StringFixed(2), u.from, u.to), result), nil
}
