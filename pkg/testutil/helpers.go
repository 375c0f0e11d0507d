// Package testutil provides common utility functions and fixtures for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/mortgage-payoff/internal/config"
	"github.com/iwvelando/mortgage-payoff/internal/projection"
	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/roundup"
)

// FixedNow is the clock used by fixtures that need a current date.
var FixedNow = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

// FindScenario finds a scenario by label in the scenarios slice.
// Returns a pointer to the scenario if found, nil otherwise.
func FindScenario(scenarios []projection.Scenario, label string) *projection.Scenario {
	for i := range scenarios {
		if scenarios[i].Label == label {
			return &scenarios[i]
		}
	}
	return nil
}

// Mortgage returns the dashboard example loan: $350,000 at 3.75% over 30
// years paying $1,850 a month from March 15, 2024.
func Mortgage() amortization.MortgageDetails {
	return amortization.MortgageDetails{
		Balance:        350000,
		InterestRate:   3.75,
		OriginalTerm:   30,
		MonthlyPayment: 1850,
		StartDate:      time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
}

// Configuration returns a configuration for Mortgage with a $100 extra
// payment, three round-up transactions and a surplus pot over its threshold.
func Configuration() config.Configuration {
	return config.Configuration{
		Mortgage: config.MortgageConfig{
			Balance:        350000,
			InterestRate:   3.75,
			OriginalTerm:   30,
			MonthlyPayment: 1850,
			StartDate:      "2024-03-15",
		},
		ExtraPayment: 100,
		Transactions: []roundup.Transaction{{Amount: 4.20}, {Amount: 9.99}, {Amount: 15.00}},
		Surplus:      config.SurplusConfig{Balance: 247.50, Threshold: 100},
	}
}
