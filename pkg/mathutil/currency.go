// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"errors"
	"math"

	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/shopspring/decimal"
)

// ErrNotFinite is returned when a NaN or infinite value reaches a monetary
// conversion.
var ErrNotFinite = errors.New("value is not a finite number")

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelativeTolerance checks if two values differ by no more than
// tolerance times the larger magnitude. Values that are both zero match.
func WithinRelativeTolerance(val1, val2, tolerance float64) bool {
	scale := math.Max(math.Abs(val1), math.Abs(val2))
	if scale == 0 {
		return true
	}
	return math.Abs(val1-val2) <= tolerance*scale
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// ToDecimal converts a float into a decimal, rejecting NaN and infinities
// which have no decimal representation.
func ToDecimal(val float64) (decimal.Decimal, error) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero, ErrNotFinite
	}
	return decimal.NewFromFloat(val), nil
}

// RoundCents rounds a decimal amount to whole cents.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.CentPlaces)
}
