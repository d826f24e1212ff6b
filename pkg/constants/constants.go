// Package constants provides shared constants for the vc-valuation application.
package constants

// DateTimeLayout is the format expected for the valuation date in config files
// and is also the output date format.
const DateTimeLayout = "2006-01-02"

// CashFlowDateLayout is the layout used for year-end cash flow dates in
// projection tables (e.g., "31-Dec-2030").
const CashFlowDateLayout = "02-Jan-2006"

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// RateTolerance is the convergence tolerance for iterative rate solvers
	RateTolerance = 1e-7

	// FallbackIRR is the rate reported when an IRR cannot be solved for a
	// degenerate cash flow series
	FallbackIRR = 0.25
)

// Valuation defaults mirroring the interactive tool's initial form values
const (
	// DefaultExitYear is the default forecast year for the exit event
	DefaultExitYear = 7

	// MaxExitYear is the largest supported exit year
	MaxExitYear = 10

	// DefaultEVRevenueMultiple is the default EV/Revenue exit multiple
	DefaultEVRevenueMultiple = 10.0

	// DefaultDiscountRate is the default required return
	DefaultDiscountRate = 0.25

	// DefaultEquityStakeEntry is the default investor stake at entry
	DefaultEquityStakeEntry = 0.10

	// MinEquityStakeEntry is the lowest stake considered meaningful for the
	// investor tables
	MinEquityStakeEntry = 0.01

	// MinDiscountRate is the lowest accepted required return
	MinDiscountRate = 0.05

	// MaxDiscountRate is the highest accepted required return
	MaxDiscountRate = 0.50

	// MaxDilutionEffect is the highest accepted dilution effect
	MaxDilutionEffect = 0.50

	// ProjectionTailYears is how many years past the exit year projection
	// tables extend
	ProjectionTailYears = 3
)

// Sensitivity sweep defaults
const (
	// DefaultSensitivityMin is the default lower bound of the discount rate sweep
	DefaultSensitivityMin = 0.15

	// DefaultSensitivityMax is the default upper bound of the discount rate sweep
	DefaultSensitivityMax = 0.35

	// DefaultSensitivityStep is the default step of the discount rate sweep
	DefaultSensitivityStep = 0.01
)

// Scenario preset factors applied when the configuration defines no scenarios
const (
	// ConservativeRevenueFactor scales exit revenue in the conservative preset
	ConservativeRevenueFactor = 0.8

	// ConservativeMultipleFactor scales the exit multiple in the conservative preset
	ConservativeMultipleFactor = 0.7

	// OptimisticRevenueFactor scales exit revenue in the optimistic preset
	OptimisticRevenueFactor = 1.2

	// OptimisticMultipleFactor scales the exit multiple in the optimistic preset
	OptimisticMultipleFactor = 1.3
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTLSeconds is the default lifetime for cached valuation responses
	DefaultCacheTTLSeconds = 300
)
