// Package constants provides shared constants for the finance-dashboard application.
package constants

// MonthLabelLayout is the layout of every month key in the model document,
// e.g. "Jan 2025".
const MonthLabelLayout = "Jan 2006"

// ISODateLayout is the layout of hire, termination, start and end dates.
const ISODateLayout = "2006-01-02"

// Month axis bounds
const (
	// AxisStartYear is the calendar year of the first month on the axis
	AxisStartYear = 2025

	// AxisMonths is the number of months covered by every series (Jan 2025 - Dec 2030)
	AxisMonths = 72

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Payroll constants
const (
	// SalaryPayPeriodsPerYear converts an annual salary into a biweekly paycheck
	SalaryPayPeriodsPerYear = 26.0

	// DefaultPayPeriodsPerMonth is the number of paychecks assumed in a month
	DefaultPayPeriodsPerMonth = 2

	// AverageWeeksPerMonth converts weekly hours into monthly hours for hourly staff
	AverageWeeksPerMonth = 4.33

	// ContractorHoursPerWeek and ContractorWeeksPerMonth approximate a contractor month
	ContractorHoursPerWeek  = 40.0
	ContractorWeeksPerMonth = 4.0

	// DefaultPayrollTaxRate is the payroll tax percentage for current documents
	DefaultPayrollTaxRate = 10.0

	// LegacyPayrollTaxRate is the payroll tax percentage assumed by documents
	// written before the rate was stored explicitly
	LegacyPayrollTaxRate = 23.0
)

// Gross profit constants
const (
	// DefaultGrossMarginPct is the gross margin assumed for non-subscription streams
	DefaultGrossMarginPct = 70.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultModelFile is the default location of the local model document
	DefaultModelFile = "data/model.json"

	// DefaultModelName is the row key of the model document in the remote store
	DefaultModelName = "default"

	// EnvPrefix prefixes environment overrides of configuration keys
	EnvPrefix = "FINANCE"

	// PassphraseEnv holds the passphrase of an encrypted model file
	PassphraseEnv = "FINANCE_MODEL_PASSPHRASE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body for model edits (1 MB)
	DefaultMaxBodySizeBytes int64 = 1024 * 1024
)

// Store defaults
const (
	// DefaultRetryAttempts is the number of tries for a remote store operation
	DefaultRetryAttempts = 3

	// DefaultRetryBackoffMillis is the first backoff delay; later delays double
	DefaultRetryBackoffMillis = 200

	// DefaultCacheKey is the redis key holding the cached model document
	DefaultCacheKey = "finance-dashboard:model"
)
