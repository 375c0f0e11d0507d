package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-payoff/pkg/datetime"
	"go.uber.org/zap"
)

const sampleConfig = `mortgage:
  balance: 350000
  interestRate: 3.75
  originalTerm: 30
  monthlyPayment: 1850
  startDate: "2024-03-15"
extraPayment: 100
scenarios: [25, 75]
includeSchedule: true
goal:
  targetMonths: 240
  max: 5000
transactions:
  - amount: 4.20
  - amount: 9.99
surplus:
  balance: 247.50
  threshold: 100
logging:
  level: debug
  format: console
output:
  format: csv
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Mortgage.Balance != 350000 || conf.Mortgage.InterestRate != 3.75 ||
		conf.Mortgage.OriginalTerm != 30 || conf.Mortgage.MonthlyPayment != 1850 {
		t.Errorf("unexpected mortgage: %+v", conf.Mortgage)
	}
	if conf.Mortgage.StartDate != "2024-03-15" {
		t.Errorf("StartDate = %q", conf.Mortgage.StartDate)
	}
	if conf.ExtraPayment != 100 {
		t.Errorf("ExtraPayment = %v, expected 100", conf.ExtraPayment)
	}
	if len(conf.Scenarios) != 2 || conf.Scenarios[1] != 75 {
		t.Errorf("Scenarios = %v", conf.Scenarios)
	}
	if !conf.IncludeSchedule {
		t.Error("expected IncludeSchedule")
	}
	if conf.Goal == nil || conf.Goal.TargetMonths != 240 || conf.Goal.Max == nil || *conf.Goal.Max != 5000 || conf.Goal.Min != nil {
		t.Errorf("unexpected goal: %+v", conf.Goal)
	}
	if len(conf.Transactions) != 2 || conf.Transactions[0].Amount != 4.20 {
		t.Errorf("Transactions = %+v", conf.Transactions)
	}
	if conf.Surplus.Balance != 247.50 || conf.Surplus.Threshold != 100 {
		t.Errorf("Surplus = %+v", conf.Surplus)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %q", conf.Output.Format)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Mortgage.Balance != 350000 {
		t.Errorf("Balance = %v", conf.Mortgage.Balance)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("mortgage: [unterminated")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadExampleConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.ProcessMortgage(zap.NewNop()); err != nil {
		t.Fatalf("ProcessMortgage() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestMortgageDetails(t *testing.T) {
	conf := &Configuration{Mortgage: MortgageConfig{Balance: 1, StartDate: "2024-03-15"}}
	m, err := conf.MortgageDetails()
	if err != nil {
		t.Fatalf("MortgageDetails() error = %v", err)
	}
	if !m.StartDate.Equal(datetime.MustParseTime(datetime.StartDateLayout, "2024-03-15")) {
		t.Errorf("StartDate = %v", m.StartDate)
	}

	conf.Mortgage.StartDate = "March 2024"
	if _, err := conf.MortgageDetails(); err == nil {
		t.Fatal("expected error for malformed start date")
	}
}

func TestScenarioAmounts(t *testing.T) {
	conf := &Configuration{}
	presets := conf.ScenarioAmounts()
	expected := []float64{50, 100, 200, 300}
	if len(presets) != len(expected) {
		t.Fatalf("ScenarioAmounts() = %v, expected %v", presets, expected)
	}
	for i := range expected {
		if presets[i] != expected[i] {
			t.Errorf("ScenarioAmounts()[%d] = %v, expected %v", i, presets[i], expected[i])
		}
	}

	conf.Scenarios = []float64{10}
	custom := conf.ScenarioAmounts()
	custom[0] = 99
	if conf.Scenarios[0] != 10 {
		t.Error("ScenarioAmounts() must not alias the configured slice")
	}
}
