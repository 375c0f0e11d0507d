package amortization

import (
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/shopspring/decimal"
)

// StandardPayment returns the level monthly payment that retires balance over
// termYears at the given annual percentage rate, rounded to cents. It is used
// to fill in a missing contractual payment, not by the projection itself.
func StandardPayment(balance, annualInterestRate float64, termYears int) (decimal.Decimal, error) {
	principal, err := toDecimal("balance", balance)
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := toDecimal("interestRate", annualInterestRate)
	if err != nil {
		return decimal.Zero, err
	}
	termMonths := termYears * constants.MonthsPerYear
	if termMonths <= 0 {
		return principal.Round(constants.CentPlaces), nil
	}

	months := decimal.NewFromInt(int64(termMonths))
	if rate.IsZero() {
		return principal.DivRound(months, constants.CentPlaces), nil
	}

	periodicRate := rate.DivRound(monthlyRateDivisor, constants.RatePrecision)
	growth, err := decimal.NewFromInt(1).Add(periodicRate).PowWithPrecision(months, constants.RatePrecision)
	if err != nil {
		return decimal.Zero, &CalculationError{Field: "interestRate", Value: annualInterestRate, Err: err}
	}
	denominator := growth.Sub(decimal.NewFromInt(1))
	if denominator.Sign() == 0 {
		return principal.DivRound(months, constants.CentPlaces), nil
	}
	return principal.Mul(periodicRate).Mul(growth).DivRound(denominator, constants.CentPlaces), nil
}
