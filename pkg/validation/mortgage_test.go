package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
)

func TestValidateMortgage(t *testing.T) {
	valid := amortization.MortgageDetails{Balance: 350000, InterestRate: 3.75, OriginalTerm: 30, MonthlyPayment: 1850}

	tests := []struct {
		name       string
		mutate     func(m *amortization.MortgageDetails)
		violations []string
	}{
		{name: "Valid", mutate: func(m *amortization.MortgageDetails) {}},
		{name: "Balance too small", mutate: func(m *amortization.MortgageDetails) { m.Balance = 999 }, violations: []string{"balance"}},
		{name: "Balance too large", mutate: func(m *amortization.MortgageDetails) { m.Balance = 10000001 }, violations: []string{"balance"}},
		{name: "Rate too low", mutate: func(m *amortization.MortgageDetails) { m.InterestRate = 0 }, violations: []string{"interestRate"}},
		{name: "Rate NaN", mutate: func(m *amortization.MortgageDetails) { m.InterestRate = math.NaN() }, violations: []string{"interestRate"}},
		{name: "Term zero", mutate: func(m *amortization.MortgageDetails) { m.OriginalTerm = 0 }, violations: []string{"originalTerm"}},
		{name: "Term too long", mutate: func(m *amortization.MortgageDetails) { m.OriginalTerm = 51 }, violations: []string{"originalTerm"}},
		{
			name: "Everything wrong",
			mutate: func(m *amortization.MortgageDetails) {
				*m = amortization.MortgageDetails{}
			},
			violations: []string{"balance", "interestRate", "originalTerm", "monthlyPayment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			err := ValidateMortgage(m)

			if len(tt.violations) == 0 {
				if err != nil {
					t.Fatalf("ValidateMortgage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("ValidateMortgage() error = %v, expected ErrOutOfRange", err)
			}
			for _, field := range tt.violations {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("error %q does not mention %s", err.Error(), field)
				}
			}
		})
	}
}

func TestValidateMortgageMessage(t *testing.T) {
	err := ValidateMortgage(amortization.MortgageDetails{Balance: 500, InterestRate: 4, OriginalTerm: 30, MonthlyPayment: 1000})
	if err == nil || !strings.Contains(err.Error(), "$1,000 and $10,000,000") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateExtraPayment(t *testing.T) {
	for _, extra := range []float64{0, 50, 300} {
		if err := ValidateExtraPayment(extra); err != nil {
			t.Errorf("ValidateExtraPayment(%v) unexpected error: %v", extra, err)
		}
	}
	for _, extra := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := ValidateExtraPayment(extra); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ValidateExtraPayment(%v) error = %v, expected ErrOutOfRange", extra, err)
		}
	}
}
