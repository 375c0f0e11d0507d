package amortization

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Calculator wraps the projection functions with debug logging and an
// injectable clock. The zero value is not usable; call NewCalculator.
type Calculator struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewCalculator creates a Calculator. A nil logger is replaced by a no-op
// logger and a nil clock by time.Now.
func NewCalculator(logger *zap.Logger, now func() time.Time) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{logger: logger, now: now}
}

// Stats projects m with extra added to every monthly payment.
func (c *Calculator) Stats(m MortgageDetails, extra float64) (Stats, error) {
	stats, err := CalculateStatsAt(m, extra, c.now())
	if err != nil {
		c.logger.Debug("mortgage projection rejected input",
			zap.String("op", "amortization.Stats"),
			zap.Error(err),
		)
		return Stats{}, err
	}

	c.logger.Debug(fmt.Sprintf("projected payoff in %d of %d months with extra payment %.2f",
		stats.TotalPayments, stats.TotalPayments+stats.TimeShaved, extra),
		zap.String("op", "amortization.Stats"),
		zap.String("interestSaved", stats.InterestSaved.StringFixed(2)),
		zap.Bool("converged", stats.Converged()),
	)
	return stats, nil
}

// Schedule returns the month-by-month schedule for m with extra added to
// every monthly payment.
func (c *Calculator) Schedule(m MortgageDetails, extra float64) ([]Entry, error) {
	schedule, err := GenerateScheduleAt(m, extra, c.now())
	if err != nil {
		c.logger.Debug("amortization schedule rejected input",
			zap.String("op", "amortization.Schedule"),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug(fmt.Sprintf("generated %d schedule entries with extra payment %.2f", len(schedule), extra),
		zap.String("op", "amortization.Schedule"),
	)
	return schedule, nil
}

// Now returns the calculator's notion of the current time.
func (c *Calculator) Now() time.Time {
	return c.now()
}
