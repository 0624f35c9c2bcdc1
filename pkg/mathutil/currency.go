// Package mathutil provides the small numeric helpers shared by the engines.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is not
// positive.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator > 0 {
		return numerator / denominator
	}
	return 0
}

// ApplyPercentage returns the given percentage of value, e.g.
// ApplyPercentage(200, 15) == 30.
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Complement returns the share of value left after removing percentage of it,
// e.g. Complement(200, 70) == 60.
func Complement(value, percentage float64) float64 {
	return value * (1 - percentage/constants.PercentageMultiplier)
}

// AdjustByPercentage scales value up or down by a signed percentage, e.g.
// AdjustByPercentage(200, -10) == 180.
func AdjustByPercentage(value, percentage float64) float64 {
	return value * (1 + percentage/constants.PercentageMultiplier)
}

// CalculatePercentage calculates what percentage value is of total, guarding
// against a non-positive total.
func CalculatePercentage(value, total float64) float64 {
	return SafeDivide(value, total) * constants.PercentageMultiplier
}
