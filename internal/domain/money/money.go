package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a raw spreadsheet cell into a decimal amount.
// Strings are expected in the es-ES format: "." as thousands separator,
// "," as decimal separator, no currency symbol. Anything unparseable
// (including nil and empty strings) yields zero so a single bad cell
// never aborts a batch import.
func Parse(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return parseString(v)
	default:
		return decimal.Zero
	}
}

func parseString(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
