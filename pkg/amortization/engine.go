package amortization

import (
	"time"

	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/datetime"
	"github.com/iwvelando/mortgage-payoff/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// maxPreallocatedMonths covers the longest term the input form accepts.
const maxPreallocatedMonths = constants.MaxTermYears * constants.MonthsPerYear

var monthlyRateDivisor = decimal.NewFromFloat(constants.PercentageMultiplier * constants.MonthsPerYear)

// terms is MortgageDetails converted for decimal arithmetic.
type terms struct {
	balance        decimal.Decimal
	monthlyRate    decimal.Decimal
	monthlyPayment decimal.Decimal
	totalMonths    int
}

// simulation is the state left when the month-by-month loop stops.
type simulation struct {
	months        int
	totalInterest decimal.Decimal
	balance       decimal.Decimal
}

func newTerms(m MortgageDetails) (terms, error) {
	balance, err := toDecimal("balance", m.Balance)
	if err != nil {
		return terms{}, err
	}
	rate, err := toDecimal("interestRate", m.InterestRate)
	if err != nil {
		return terms{}, err
	}
	payment, err := toDecimal("monthlyPayment", m.MonthlyPayment)
	if err != nil {
		return terms{}, err
	}
	return terms{
		balance:        balance,
		monthlyRate:    rate.DivRound(monthlyRateDivisor, constants.RatePrecision),
		monthlyPayment: payment,
		totalMonths:    m.OriginalTerm * constants.MonthsPerYear,
	}, nil
}

func toDecimal(field string, value float64) (decimal.Decimal, error) {
	d, err := mathutil.ToDecimal(value)
	if err != nil {
		return decimal.Zero, &CalculationError{Field: field, Value: value, Err: ErrInvalidNumber}
	}
	return d, nil
}

// simulate charges interest on the remaining balance and applies the rest of
// payment to principal, month by month, until the balance is retired or the
// term is exhausted. visit, when non-nil, sees every month.
func simulate(t terms, payment decimal.Decimal, visit func(Entry)) simulation {
	remaining := t.balance
	totalInterest := decimal.Zero
	month := 0

	for remaining.IsPositive() && month < t.totalMonths {
		interest := remaining.Mul(t.monthlyRate).Round(constants.InterestPlaces)
		principal := decimal.Min(payment.Sub(interest), remaining)

		totalInterest = totalInterest.Add(interest)
		remaining = remaining.Sub(principal)
		month++

		if visit != nil {
			visit(Entry{
				Month:     month,
				Payment:   payment,
				Principal: principal,
				Interest:  interest,
				Balance:   decimal.Max(remaining, decimal.Zero),
			})
		}
	}

	return simulation{months: month, totalInterest: totalInterest, balance: remaining}
}

// CalculateStats projects the mortgage with extraMonthlyPayment added to
// every payment. When m.StartDate is zero the current date is used.
func CalculateStats(m MortgageDetails, extraMonthlyPayment float64) (Stats, error) {
	return CalculateStatsAt(m, extraMonthlyPayment, time.Now())
}

// CalculateStatsAt is CalculateStats with now standing in for the current
// date when m.StartDate is zero.
func CalculateStatsAt(m MortgageDetails, extraMonthlyPayment float64, now time.Time) (Stats, error) {
	t, err := newTerms(m)
	if err != nil {
		return Stats{}, err
	}
	extra, err := toDecimal("extraMonthlyPayment", extraMonthlyPayment)
	if err != nil {
		return Stats{}, err
	}

	start := datetime.ResolveStart(m.StartDate, now)

	// The original schedule is analytic; only the accelerated one is simulated.
	originalTotalInterest := t.monthlyPayment.Mul(decimal.NewFromInt(int64(t.totalMonths))).Sub(t.balance)

	sim := simulate(t, t.monthlyPayment.Add(extra), nil)

	return Stats{
		OriginalPayoffDate:    datetime.AddMonths(start, t.totalMonths),
		OriginalTotalInterest: originalTotalInterest,
		NewPayoffDate:         datetime.AddMonths(start, sim.months),
		NewTotalInterest:      sim.totalInterest,
		InterestSaved:         originalTotalInterest.Sub(sim.totalInterest),
		TimeShaved:            t.totalMonths - sim.months,
		TotalPayments:         sim.months,
		RemainingBalance:      sim.balance,
	}, nil
}

// GenerateSchedule returns one Entry per simulated month using the same
// arithmetic as CalculateStats. Entry dates count from the current date when
// m.StartDate is zero.
func GenerateSchedule(m MortgageDetails, extraPayment float64) ([]Entry, error) {
	return GenerateScheduleAt(m, extraPayment, time.Now())
}

// GenerateScheduleAt is GenerateSchedule with now standing in for the
// current date when m.StartDate is zero.
func GenerateScheduleAt(m MortgageDetails, extraPayment float64, now time.Time) ([]Entry, error) {
	t, err := newTerms(m)
	if err != nil {
		return nil, err
	}
	extra, err := toDecimal("extraPayment", extraPayment)
	if err != nil {
		return nil, err
	}

	start := datetime.ResolveStart(m.StartDate, now)
	schedule := make([]Entry, 0, max(0, min(t.totalMonths, maxPreallocatedMonths)))

	simulate(t, t.monthlyPayment.Add(extra), func(e Entry) {
		e.Date = datetime.AddMonths(start, e.Month)
		schedule = append(schedule, e)
	})

	return schedule, nil
}
