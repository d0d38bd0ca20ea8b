package printing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts loosely typed upstream values to a decimal.
// Anything that is not a finite number becomes zero; a single bad field
// must never abort generation of the form.
func ParseDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case decimal.NullDecimal:
		if !val.Valid {
			return decimal.Zero
		}
		return val.Decimal
	case int:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float32:
		return finiteDecimal(float64(val))
	case float64:
		return finiteDecimal(val)
	case json.Number:
		return ParseDecimal(val.String())
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	case *string:
		if val == nil {
			return decimal.Zero
		}
		return ParseDecimal(*val)
	default:
		return decimal.Zero
	}
}

func finiteDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// FormatMoney formats a value with thousand separators and two decimals.
// Example: 1234.5 -> "1,234.50"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "." + decPart
}

// FormatQuantity prints a quantity without trailing zeros
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// FormatWeight prints a shipping weight with two decimals
func FormatWeight(d decimal.Decimal) string {
	return d.StringFixed(2)
}
