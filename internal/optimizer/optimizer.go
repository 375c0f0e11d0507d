// Package optimizer solves for the smallest extra monthly payment that meets
// a payoff goal. Larger extra payments never lengthen the payoff or raise the
// interest paid, so the goal is monotone in the payment and bisection finds
// its threshold.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/format"
	"github.com/iwvelando/mortgage-payoff/pkg/mathutil"
	"github.com/iwvelando/mortgage-payoff/pkg/optimization"
	"go.uber.org/zap"
)

// ErrNoTarget is returned when a Goal sets neither target.
var ErrNoTarget = errors.New("goal requires targetMonths or targetInterestSaved")

// Goal describes what the extra payment must achieve. TargetMonths wins when
// both targets are set. A nil Min means zero; a nil Max means enough to retire
// the loan with the first payment.
type Goal struct {
	TargetMonths        int
	TargetInterestSaved float64
	Min                 *float64
	Max                 *float64
	Tolerance           float64
}

// Runner solves goals for one mortgage.
type Runner struct {
	logger   *zap.Logger
	calc     *amortization.Calculator
	mortgage amortization.MortgageDetails
}

type evaluation struct {
	extra     float64
	stats     amortization.Stats
	satisfied bool
}

// NewRunner constructs a Runner for the provided mortgage.
func NewRunner(logger *zap.Logger, calc *amortization.Calculator, mortgage amortization.MortgageDetails) (*Runner, error) {
	if calc == nil {
		return nil, fmt.Errorf("calculator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, calc: calc, mortgage: mortgage}, nil
}

// Solve returns the smallest extra payment, rounded up to the cent, that
// meets goal within its bounds. When even the upper bound misses the goal the
// summary reports the upper bound with Converged false.
func (r *Runner) Solve(goal Goal) (optimization.Summary, error) {
	target, targetValue, err := goalTarget(goal)
	if err != nil {
		return optimization.Summary{}, err
	}

	minVal, maxVal := r.bounds(goal)
	if minVal > maxVal {
		return optimization.Summary{}, fmt.Errorf("goal bounds inverted: min %s exceeds max %s",
			format.CurrencyCents(minVal), format.CurrencyCents(maxVal))
	}
	tolerance := goal.Tolerance
	if tolerance <= 0 {
		tolerance = constants.DefaultSolverTolerance
	}

	summary := optimization.Summary{
		Target:      target,
		TargetValue: targetValue,
		Min:         minVal,
		Max:         maxVal,
	}

	lower, err := r.evaluate(goal, minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	if lower.satisfied {
		summary.Notes = append(summary.Notes, fmt.Sprintf("goal already met with %s extra per month", format.CurrencyCents(minVal)))
		return finish(summary, lower, 0, true), nil
	}

	upper, err := r.evaluate(goal, maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	if !upper.satisfied {
		summary.Notes = append(summary.Notes, fmt.Sprintf("unable to meet %s %s within bounds %s to %s",
			target, formatTarget(target, targetValue), format.CurrencyCents(minVal), format.CurrencyCents(maxVal)))
		r.logger.Debug("goal unreachable within bounds",
			zap.String("op", "optimizer.Solve"),
			zap.String("target", target),
			zap.Float64("max", maxVal),
		)
		return finish(summary, upper, 0, false), nil
	}

	iterations := 0
	for upper.extra-lower.extra > tolerance && iterations < constants.MaxSolverIterations {
		iterations++
		mid, err := r.evaluate(goal, (lower.extra+upper.extra)/2)
		if err != nil {
			return optimization.Summary{}, err
		}
		if mid.satisfied {
			upper = mid
		} else {
			lower = mid
		}
	}

	// Round up to the cent; a larger payment still meets the goal.
	best := upper
	if cents := math.Ceil(upper.extra*constants.DecimalPrecision) / constants.DecimalPrecision; cents != upper.extra && cents <= maxVal {
		best, err = r.evaluate(goal, cents)
		if err != nil {
			return optimization.Summary{}, err
		}
	}

	r.logger.Debug(fmt.Sprintf("solved %s goal with extra payment %.2f after %d iterations", target, best.extra, iterations),
		zap.String("op", "optimizer.Solve"),
	)
	return finish(summary, best, iterations, true), nil
}

func (r *Runner) evaluate(goal Goal, extra float64) (evaluation, error) {
	stats, err := r.calc.Stats(r.mortgage, extra)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer evaluation at %.2f failed: %w", extra, err)
	}
	satisfied := false
	if goal.TargetMonths > 0 {
		satisfied = stats.Converged() && stats.TotalPayments <= goal.TargetMonths
	} else {
		satisfied = stats.InterestSaved.InexactFloat64() >= goal.TargetInterestSaved
	}
	return evaluation{extra: extra, stats: stats, satisfied: satisfied}, nil
}

func (r *Runner) bounds(goal Goal) (float64, float64) {
	minVal := 0.0
	if goal.Min != nil {
		minVal = *goal.Min
	}
	var maxVal float64
	if goal.Max != nil {
		maxVal = *goal.Max
	} else {
		// One payment of this size retires the whole balance plus the first
		// month's interest.
		firstInterest := r.mortgage.Balance * r.mortgage.InterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
		maxVal = math.Max(mathutil.Round(r.mortgage.Balance+math.Abs(firstInterest)), minVal)
	}
	return minVal, maxVal
}

func goalTarget(goal Goal) (string, float64, error) {
	switch {
	case goal.TargetMonths > 0:
		return optimization.TargetMonths, float64(goal.TargetMonths), nil
	case goal.TargetInterestSaved > 0:
		return optimization.TargetInterestSaved, goal.TargetInterestSaved, nil
	}
	return "", 0, ErrNoTarget
}

func finish(summary optimization.Summary, eval evaluation, iterations int, converged bool) optimization.Summary {
	summary.Value = eval.extra
	summary.ValueDisplay = format.CurrencyCents(eval.extra)
	summary.TotalPayments = eval.stats.TotalPayments
	summary.InterestSaved = eval.stats.InterestSaved.InexactFloat64()
	summary.Iterations = iterations
	summary.Converged = converged
	return summary
}

func formatTarget(target string, value float64) string {
	if target == optimization.TargetMonths {
		return format.Months(int(value))
	}
	return format.Currency(value)
}
