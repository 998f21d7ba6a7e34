package utils

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to 2 decimals. Only for display; sums
// are always taken over unrounded values.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Fixed2 formats v with exactly two decimals: 20 -> "20.00".
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Trim formats v without trailing zeros: 11 -> "11", 10.5 -> "10.5".
func Trim(v float64) string {
	return decimal.NewFromFloat(v).Round(6).String()
}
