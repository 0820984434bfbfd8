// Package money converts between major currency units (pounds) accepted at
// the API boundary and the minor units (pence) used for all internal
// arithmetic. Balances and transaction amounts are always int64 pence; floats
// never survive past the boundary.
package money

import "math"

// Pence converts a major-unit amount to minor units, rounding half away from
// zero. 25.50 -> 2550, 0.009 -> 1, 0.004 -> 0.
func Pence(pounds float64) int64 {
	return int64(math.Round(pounds * 100))
}

// Pounds converts minor units back to major units for account projections.
func Pounds(pence int64) float64 {
	return float64(pence) / 100
}
