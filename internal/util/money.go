package util

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// maxAmount bounds any single amount so that cents always fit in int64.
var maxAmount = decimal.New(1, 12)

// ToCents converts a currency amount to integer cents, rounding half away from zero.
// The sign is preserved; callers decide whether zero or negative amounts are acceptable.
func ToCents(amount decimal.Decimal) (int64, error) {
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return 0, fmt.Errorf("amount too large, got %s", amount.String())
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}

// FromCents converts cents back to a currency amount with two decimal places.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders cents as a fixed two-decimal string, e.g. 1234 -> "12.34".
func FormatCents(cents int64) string {
	return FromCents(cents).StringFixed(2)
}

// AmountJSON renders cents as a bare JSON number with two decimals, e.g. 60.00.
func AmountJSON(cents int64) json.Number {
	return json.Number(FormatCents(cents))
}
