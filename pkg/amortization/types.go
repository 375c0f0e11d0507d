// Package amortization projects how a mortgage is paid down month by month
// and how much time and interest an extra monthly principal payment saves.
//
// Every function in this package is pure: the result depends only on the
// arguments (and the supplied clock when no start date is set), nothing is
// cached between calls, and concurrent use needs no synchronisation.
package amortization

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-payoff/pkg/format"
	"github.com/shopspring/decimal"
)

// ErrInvalidNumber is wrapped by CalculationError when an input cannot take
// part in the arithmetic (NaN or an infinity).
var ErrInvalidNumber = errors.New("mortgage input is not a finite number")

// CalculationError reports an input that could not be used in the
// projection. It is never returned for financially nonsensical but finite
// inputs; those produce a Stats value whose Warnings describe the problem.
type CalculationError struct {
	Field string
	Value float64
	Err   error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("failed to calculate mortgage statistics: %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// MortgageDetails holds the loan being projected.
type MortgageDetails struct {
	Balance        float64   `json:"balance"`        // outstanding principal
	InterestRate   float64   `json:"interestRate"`   // nominal annual rate in percent, 3.75 means 3.75%
	OriginalTerm   int       `json:"originalTerm"`   // years
	MonthlyPayment float64   `json:"monthlyPayment"` // contractual principal and interest payment
	StartDate      time.Time `json:"startDate"`
}

// Stats summarises the contractual schedule against an accelerated one.
type Stats struct {
	// OriginalPayoffDate is the start date advanced by the full term. It is
	// term based and does not depend on whether the payment retires the loan.
	OriginalPayoffDate time.Time `json:"originalPayoffDate"`
	// OriginalTotalInterest is MonthlyPayment * term months - Balance.
	OriginalTotalInterest decimal.Decimal `json:"originalTotalInterest"`
	NewPayoffDate         time.Time       `json:"newPayoffDate"`
	// NewTotalInterest is the simulated interest charged until payoff or the
	// term cap.
	NewTotalInterest decimal.Decimal `json:"newTotalInterest"`
	InterestSaved    decimal.Decimal `json:"interestSaved"`
	TimeShaved       int             `json:"timeShaved"` // months
	TotalPayments    int             `json:"totalPayments"`
	// RemainingBalance is what is still owed when the simulation stopped.
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// Converged reports whether the simulated balance reached zero within the
// term.
func (s Stats) Converged() bool {
	return s.RemainingBalance.LessThanOrEqual(decimal.Zero)
}

// Warnings lists conditions a caller should surface before presenting the
// figures as savings.
func (s Stats) Warnings() []string {
	var warnings []string
	if !s.Converged() {
		warnings = append(warnings, fmt.Sprintf("payment does not retire the loan: %s still owed after %d months",
			format.Currency(s.RemainingBalance.InexactFloat64()), s.TotalPayments))
	}
	if s.InterestSaved.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("projected interest exceeds the original schedule by %s",
			format.Currency(s.InterestSaved.Neg().InexactFloat64())))
	}
	if s.TimeShaved < 0 {
		warnings = append(warnings, fmt.Sprintf("projected payoff is %d months later than the original schedule", -s.TimeShaved))
	}
	return warnings
}

// Entry is one month of an amortization schedule.
type Entry struct {
	Month     int             `json:"month"` // 1-based
	Date      time.Time       `json:"date"`
	Payment   decimal.Decimal `json:"payment"` // scheduled payment including the extra amount
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"` // after this month's payment, floored at zero
}

// Outlay is the amount actually paid this month. It is below Payment only in
// the final month, where principal is capped at what remains owed.
func (e Entry) Outlay() decimal.Decimal {
	return e.Principal.Add(e.Interest)
}
