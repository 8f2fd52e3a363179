// Package money holds the two-decimal currency arithmetic used by every total the console
// computes or sends to the backend.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of decimals kept for currency amounts.
const Places = 2

// Zero is 0.00.
var Zero = decimal.Zero

// Round2 rounds a float amount to cents, half away from zero.
//
// The float is first taken at its shortest decimal representation, so 2.675 is rounded as the
// decimal 2.675 (giving 2.68) and not as its binary neighbour 2.67499999...
func Round2(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(Places)
}

// RoundDecimal rounds an exact decimal to cents, half away from zero.
func RoundDecimal(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// LineTotal returns round2(unitPrice × quantity).
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(Places)
}

// Sum adds already-rounded amounts and rounds the result.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.Round(Places)
}

// Float converts an amount to the float64 the backend JSON expects.
func Float(d decimal.Decimal) float64 {
	return d.Round(Places).InexactFloat64()
}

// Format renders an amount as "$12.50".
func Format(d decimal.Decimal) string {
	return fmt.Sprintf("$%s", d.StringFixed(Places))
}
