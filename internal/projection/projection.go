// Package projection defines the report shown for a configured mortgage and
// includes functions for building it.
package projection

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-payoff/internal/config"
	"github.com/iwvelando/mortgage-payoff/internal/optimizer"
	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/format"
	"github.com/iwvelando/mortgage-payoff/pkg/optimization"
	"github.com/iwvelando/mortgage-payoff/pkg/roundup"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Scenario is one goal-setting card: the projection for a candidate extra
// payment.
type Scenario struct {
	Label        string             `json:"label"`
	ExtraPayment float64            `json:"extraPayment"`
	Stats        amortization.Stats `json:"stats"`
}

// Report holds everything projected for one configuration.
type Report struct {
	GeneratedAt  time.Time                    `json:"generatedAt"`
	Mortgage     amortization.MortgageDetails `json:"mortgage"`
	ExtraPayment float64                      `json:"extraPayment"`
	Baseline     amortization.Stats           `json:"baseline"`
	Plan         amortization.Stats           `json:"plan"`
	Scenarios    []Scenario                   `json:"scenarios"`
	Schedule     []amortization.Entry         `json:"schedule,omitempty"`
	RoundUps     decimal.Decimal              `json:"roundUps"`
	Surplus      *roundup.PotStatus           `json:"surplus,omitempty"`
	Goal         *optimization.Summary        `json:"goal,omitempty"`
	Warnings     []string                     `json:"warnings,omitempty"`
}

// GetProjection builds the report for conf using the current time.
func GetProjection(logger *zap.Logger, conf config.Configuration) (Report, error) {
	return GetProjectionWithFixedTime(logger, conf, time.Now())
}

// GetProjectionWithFixedTime builds the report for conf, treating now as the
// current time. now only matters when the mortgage has no start date.
func GetProjectionWithFixedTime(logger *zap.Logger, conf config.Configuration, now time.Time) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mortgage, err := conf.MortgageDetails()
	if err != nil {
		return Report{}, err
	}
	calc := amortization.NewCalculator(logger, func() time.Time { return now })

	report := Report{
		GeneratedAt:  now,
		Mortgage:     mortgage,
		ExtraPayment: conf.ExtraPayment,
		Warnings:     conf.ValidateConfiguration(),
	}

	if report.Baseline, err = calc.Stats(mortgage, 0); err != nil {
		return Report{}, fmt.Errorf("baseline projection failed: %w", err)
	}
	if report.Plan, err = calc.Stats(mortgage, conf.ExtraPayment); err != nil {
		return Report{}, fmt.Errorf("plan projection failed: %w", err)
	}
	report.Warnings = append(report.Warnings, report.Plan.Warnings()...)

	if report.Scenarios, err = CompareScenarios(calc, mortgage, conf.ScenarioAmounts()); err != nil {
		return Report{}, err
	}

	if conf.IncludeSchedule {
		if report.Schedule, err = calc.Schedule(mortgage, conf.ExtraPayment); err != nil {
			return Report{}, fmt.Errorf("schedule generation failed: %w", err)
		}
	}

	if report.RoundUps, err = roundup.AggregateRoundUps(conf.Transactions); err != nil {
		return Report{}, fmt.Errorf("round-up aggregation failed: %w", err)
	}
	if len(conf.Transactions) > 0 || conf.Surplus.Balance > 0 {
		// Round-ups land in the surplus pot alongside whatever is already there.
		balance := conf.Surplus.Balance + report.RoundUps.InexactFloat64()
		status, err := roundup.Progress(balance, conf.Surplus.Threshold)
		if err != nil {
			return Report{}, err
		}
		report.Surplus = &status
	}

	if conf.Goal != nil && (conf.Goal.TargetMonths > 0 || conf.Goal.TargetInterestSaved > 0) {
		runner, err := optimizer.NewRunner(logger, calc, mortgage)
		if err != nil {
			return Report{}, err
		}
		summary, err := runner.Solve(optimizer.Goal{
			TargetMonths:        conf.Goal.TargetMonths,
			TargetInterestSaved: conf.Goal.TargetInterestSaved,
			Min:                 conf.Goal.Min,
			Max:                 conf.Goal.Max,
			Tolerance:           conf.Goal.Tolerance,
		})
		if err != nil {
			return Report{}, fmt.Errorf("goal solve failed: %w", err)
		}
		report.Goal = &summary
		if !summary.Converged {
			report.Warnings = append(report.Warnings, summary.Notes...)
		}
	}

	logger.Debug(fmt.Sprintf("projected payoff on %s, %s earlier than scheduled",
		format.Date(report.Plan.NewPayoffDate), format.Months(report.Plan.TimeShaved)),
		zap.String("op", "projection.GetProjection"),
		zap.Int("scenarios", len(report.Scenarios)),
		zap.Int("warnings", len(report.Warnings)),
	)

	return report, nil
}

// CompareScenarios projects the mortgage once per candidate extra payment, in
// the order given.
func CompareScenarios(calc *amortization.Calculator, m amortization.MortgageDetails, amounts []float64) ([]Scenario, error) {
	scenarios := make([]Scenario, 0, len(amounts))
	for _, amount := range amounts {
		stats, err := calc.Stats(m, amount)
		if err != nil {
			return nil, fmt.Errorf("scenario %s failed: %w", format.Currency(amount), err)
		}
		scenarios = append(scenarios, Scenario{
			Label:        ScenarioLabel(amount),
			ExtraPayment: amount,
			Stats:        stats,
		})
	}
	return scenarios, nil
}

// ScenarioLabel names the preset an amount corresponds to, or describes the
// amount when it is not a preset.
func ScenarioLabel(amount float64) string {
	switch amount {
	case constants.PresetConservative:
		return "Conservative"
	case constants.PresetModerate:
		return "Moderate"
	case constants.PresetAggressive:
		return "Aggressive"
	case constants.PresetMaximum:
		return "Maximum"
	}
	return fmt.Sprintf("%s/month", format.Currency(amount))
}
