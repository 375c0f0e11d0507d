package config

import (
	"fmt"

	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/format"
	"github.com/iwvelando/mortgage-payoff/pkg/validation"
	"go.uber.org/zap"
)

// ProcessMortgage fills in a missing contractual payment with the level
// payment for the balance, rate and term, then checks the mortgage against
// the input form's ranges.
func (conf *Configuration) ProcessMortgage(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if conf.Mortgage.MonthlyPayment == 0 {
		payment, err := amortization.StandardPayment(conf.Mortgage.Balance, conf.Mortgage.InterestRate, conf.Mortgage.OriginalTerm)
		if err != nil {
			return fmt.Errorf("failed to derive monthly payment: %w", err)
		}
		conf.Mortgage.MonthlyPayment = payment.InexactFloat64()
		logger.Info(fmt.Sprintf("monthly payment not configured, using level payment %s", format.CurrencyCents(conf.Mortgage.MonthlyPayment)),
			zap.String("op", "config.ProcessMortgage"),
		)
	}

	m, err := conf.MortgageDetails()
	if err != nil {
		return err
	}
	if err := validation.ValidateMortgage(m); err != nil {
		return fmt.Errorf("invalid mortgage: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.ExtraPayment < 0 {
		warnings = append(warnings, fmt.Sprintf("extraPayment %s is negative and will slow the payoff",
			format.Currency(conf.ExtraPayment)))
	}
	for _, amount := range conf.Scenarios {
		if amount < 0 {
			warnings = append(warnings, fmt.Sprintf("scenario amount %s is negative", format.Currency(amount)))
		}
	}

	firstInterest := conf.Mortgage.Balance * conf.Mortgage.InterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	if conf.Mortgage.MonthlyPayment > 0 && conf.Mortgage.MonthlyPayment+conf.ExtraPayment <= firstInterest {
		warnings = append(warnings, fmt.Sprintf("payment %s does not cover the first month's interest of %s; the balance will never decrease",
			format.Currency(conf.Mortgage.MonthlyPayment+conf.ExtraPayment), format.Currency(firstInterest)))
	}

	if conf.Goal != nil {
		switch {
		case conf.Goal.TargetMonths > 0 && conf.Goal.TargetInterestSaved > 0:
			warnings = append(warnings, "goal sets both targetMonths and targetInterestSaved; targetMonths is used")
		case conf.Goal.TargetMonths <= 0 && conf.Goal.TargetInterestSaved <= 0:
			warnings = append(warnings, "goal has no positive target and will be skipped")
		}
		if conf.Goal.TargetMonths > conf.Mortgage.OriginalTerm*constants.MonthsPerYear {
			warnings = append(warnings, fmt.Sprintf("goal targetMonths %d exceeds the %d month term",
				conf.Goal.TargetMonths, conf.Mortgage.OriginalTerm*constants.MonthsPerYear))
		}
	}

	if conf.Surplus.Threshold < 0 {
		warnings = append(warnings, "surplus threshold is negative; the default threshold is used")
	}

	return warnings
}
