package aggregate

import "github.com/shopspring/decimal"

// CentsToDollars converts integer cents to dollars rounded to two places.
// Input is whole cents, so Round(2) never meets a half cent.
func CentsToDollars(cents int64) float64 {
	return decimal.New(cents, -2).Round(2).InexactFloat64()
}

// FormatDollars renders cents as "$12.34" (or "-$1.05").
func FormatDollars(cents int64) string {
	d := decimal.New(cents, -2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
