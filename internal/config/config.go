// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/datetime"
	"github.com/iwvelando/mortgage-payoff/pkg/roundup"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-payoff.
type Configuration struct {
	Mortgage        MortgageConfig        `mapstructure:"mortgage" yaml:"mortgage"`
	ExtraPayment    float64               `mapstructure:"extraPayment" yaml:"extraPayment"`
	Scenarios       []float64             `mapstructure:"scenarios" yaml:"scenarios,omitempty"`
	IncludeSchedule bool                  `mapstructure:"includeSchedule" yaml:"includeSchedule,omitempty"`
	Goal            *GoalConfig           `mapstructure:"goal" yaml:"goal,omitempty"`
	Transactions    []roundup.Transaction `mapstructure:"transactions" yaml:"transactions,omitempty"`
	Surplus         SurplusConfig         `mapstructure:"surplus" yaml:"surplus,omitempty"`
	Logging         LoggingConfig         `mapstructure:"logging" yaml:"logging,omitempty"`
	Output          OutputConfig          `mapstructure:"output" yaml:"output,omitempty"`
}

// MortgageConfig is the mortgage as entered during onboarding.
type MortgageConfig struct {
	Balance        float64 `mapstructure:"balance" yaml:"balance" json:"balance"`
	InterestRate   float64 `mapstructure:"interestRate" yaml:"interestRate" json:"interestRate"`
	OriginalTerm   int     `mapstructure:"originalTerm" yaml:"originalTerm" json:"originalTerm"` // years
	MonthlyPayment float64 `mapstructure:"monthlyPayment" yaml:"monthlyPayment" json:"monthlyPayment"`
	StartDate      string  `mapstructure:"startDate" yaml:"startDate,omitempty" json:"startDate,omitempty"` // YYYY-MM-DD
}

// GoalConfig asks for the smallest extra payment meeting one target.
type GoalConfig struct {
	TargetMonths        int      `mapstructure:"targetMonths" yaml:"targetMonths,omitempty"`
	TargetInterestSaved float64  `mapstructure:"targetInterestSaved" yaml:"targetInterestSaved,omitempty"`
	Min                 *float64 `mapstructure:"min" yaml:"min,omitempty"`
	Max                 *float64 `mapstructure:"max" yaml:"max,omitempty"`
	Tolerance           float64  `mapstructure:"tolerance" yaml:"tolerance,omitempty"`
}

// SurplusConfig describes the surplus pot.
type SurplusConfig struct {
	Balance   float64 `mapstructure:"balance" yaml:"balance,omitempty"`
	Threshold float64 `mapstructure:"threshold" yaml:"threshold,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// MortgageDetails converts the configured mortgage into engine input.
func (conf *Configuration) MortgageDetails() (amortization.MortgageDetails, error) {
	start, err := datetime.ParseStartDate(conf.Mortgage.StartDate)
	if err != nil {
		return amortization.MortgageDetails{}, err
	}
	return amortization.MortgageDetails{
		Balance:        conf.Mortgage.Balance,
		InterestRate:   conf.Mortgage.InterestRate,
		OriginalTerm:   conf.Mortgage.OriginalTerm,
		MonthlyPayment: conf.Mortgage.MonthlyPayment,
		StartDate:      start,
	}, nil
}

// ScenarioAmounts returns the configured candidate extra payments, or the
// goal-setting presets when none are configured.
func (conf *Configuration) ScenarioAmounts() []float64 {
	if len(conf.Scenarios) > 0 {
		return append([]float64(nil), conf.Scenarios...)
	}
	return []float64{
		constants.PresetConservative,
		constants.PresetModerate,
		constants.PresetAggressive,
		constants.PresetMaximum,
	}
}
