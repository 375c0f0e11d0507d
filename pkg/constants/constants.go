// Package constants provides shared constants for the mortgage-payoff application.
package constants

// StartDateLayout is the format expected for mortgage start dates in config
// files and API payloads.
const StartDateLayout = "2006-01-02"

// DisplayDateLayout is the long-form calendar date used in reports.
const DisplayDateLayout = "January 2, 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CentPlaces is the number of fractional digits in a currency amount
	CentPlaces = 2

	// InterestPlaces is the number of fractional digits kept for each simulated
	// monthly interest charge
	InterestPlaces = 10

	// RatePrecision is the number of fractional digits kept for the monthly rate
	RatePrecision = 16

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Extra payment presets offered on the goal-setting screen.
const (
	PresetConservative = 50.0
	PresetModerate     = 100.0
	PresetAggressive   = 200.0
	PresetMaximum      = 300.0
)

// Mortgage input bounds applied at the form boundary.
const (
	MinBalance        = 1000.0
	MaxBalance        = 10000000.0
	MinInterestRate   = 0.1
	MaxInterestRate   = 20.0
	MinTermYears      = 1
	MaxTermYears      = 50
	MinMonthlyPayment = 100.0
	MaxMonthlyPayment = 100000.0
)

// Surplus pot constants
const (
	// DefaultTransferThreshold is the pot size that triggers an automatic transfer
	DefaultTransferThreshold = 100.0

	// MinimumManualTransfer is the smallest pot that may be transferred by hand
	MinimumManualTransfer = 25.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTLSeconds is how long cached schedules live
	DefaultCacheTTLSeconds = 900
)

// Optimizer defaults
const (
	// DefaultSolverTolerance is the bisection stopping width in currency units
	DefaultSolverTolerance = 1.0

	// MaxSolverIterations bounds the bisection loop
	MaxSolverIterations = 200
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
