package model

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimals, the precision of every
// price in a report.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
