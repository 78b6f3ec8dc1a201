package domain

import "github.com/shopspring/decimal"

// Emission multiplies usage by factor and rounds to two decimal places, half away
// from zero, on the shortest decimal form of the product. 0.125 rounds to 0.13.
func Emission(usage, factor float64) float64 {
	return decimal.NewFromFloat(usage * factor).Round(2).InexactFloat64()
}
