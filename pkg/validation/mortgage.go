package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/format"
)

// ErrOutOfRange is wrapped by every mortgage field violation.
var ErrOutOfRange = errors.New("value out of range")

// ValidateMortgage applies the onboarding form's ranges to m and returns
// every violation joined into one error, or nil.
func ValidateMortgage(m amortization.MortgageDetails) error {
	var errs []error

	if err := checkRange("balance", m.Balance, constants.MinBalance, constants.MaxBalance, format.Currency); err != nil {
		errs = append(errs, err)
	}
	if err := checkRange("interestRate", m.InterestRate, constants.MinInterestRate, constants.MaxInterestRate, percent); err != nil {
		errs = append(errs, err)
	}
	if m.OriginalTerm < constants.MinTermYears || m.OriginalTerm > constants.MaxTermYears {
		errs = append(errs, fmt.Errorf("originalTerm must be between %d and %d years, got %d: %w",
			constants.MinTermYears, constants.MaxTermYears, m.OriginalTerm, ErrOutOfRange))
	}
	if err := checkRange("monthlyPayment", m.MonthlyPayment, constants.MinMonthlyPayment, constants.MaxMonthlyPayment, format.Currency); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateExtraPayment rejects extra payments that are not finite or are
// negative.
func ValidateExtraPayment(extra float64) error {
	if math.IsNaN(extra) || math.IsInf(extra, 0) || extra < 0 {
		return fmt.Errorf("extraPayment must be a non-negative amount, got %v: %w", extra, ErrOutOfRange)
	}
	return nil
}

func checkRange(field string, value, lower, upper float64, render func(float64) string) error {
	if math.IsNaN(value) || value < lower || value > upper {
		return fmt.Errorf("%s must be between %s and %s, got %v: %w",
			field, render(lower), render(upper), value, ErrOutOfRange)
	}
	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%g%%", v)
}
