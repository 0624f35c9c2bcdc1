// Package config defines the application configuration and loads it from a
// YAML file with environment overrides.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/store"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Configuration holds all configuration for finance-dashboard.
type Configuration struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store,omitempty"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, yaml
	Annual bool   `mapstructure:"annual" yaml:"annual,omitempty"`
}

// StoreConfig selects and configures where the model document lives.
type StoreConfig struct {
	Backend  string         `mapstructure:"backend" yaml:"backend,omitempty"` // file, postgres
	File     FileConfig     `mapstructure:"file" yaml:"file,omitempty"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres,omitempty"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis,omitempty"`
	Retry    RetryConfig    `mapstructure:"retry" yaml:"retry,omitempty"`
}

// FileConfig configures the local JSON store. With the postgres backend the
// file is the fallback.
type FileConfig struct {
	Path    string `mapstructure:"path" yaml:"path,omitempty"`
	Encrypt bool   `mapstructure:"encrypt" yaml:"encrypt,omitempty"`
}

// PostgresConfig configures the remote store.
type PostgresConfig struct {
	URL         string `mapstructure:"url" yaml:"url,omitempty"`
	FallbackURL string `mapstructure:"fallbackURL" yaml:"fallbackURL,omitempty"`
	ModelName   string `mapstructure:"modelName" yaml:"modelName,omitempty"`
}

// RedisConfig configures the optional document cache. An empty address
// disables it.
type RedisConfig struct {
	Addr string        `mapstructure:"addr" yaml:"addr,omitempty"`
	Key  string        `mapstructure:"key" yaml:"key,omitempty"`
	TTL  time.Duration `mapstructure:"ttl" yaml:"ttl,omitempty"`
}

// RetryConfig bounds retries of remote store calls.
type RetryConfig struct {
	Attempts      int `mapstructure:"attempts" yaml:"attempts,omitempty"`
	BackoffMillis int `mapstructure:"backoffMillis" yaml:"backoffMillis,omitempty"`
}

// DefaultsConfig holds the values normalization fills into documents.
type DefaultsConfig struct {
	PayrollTaxRate       float64 `mapstructure:"payrollTaxRate" yaml:"payrollTaxRate,omitempty"`
	LegacyPayrollTaxRate float64 `mapstructure:"legacyPayrollTaxRate" yaml:"legacyPayrollTaxRate,omitempty"`
	PayPeriodsPerMonth   int     `mapstructure:"payPeriodsPerMonth" yaml:"payPeriodsPerMonth,omitempty"`
	GrossMarginPct       float64 `mapstructure:"grossMarginPct" yaml:"grossMarginPct,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.annual", true)
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.file.path", constants.DefaultModelFile)
	v.SetDefault("store.file.encrypt", false)
	v.SetDefault("store.postgres.fallbackURL", "")
	v.SetDefault("store.postgres.modelName", constants.DefaultModelName)
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.key", constants.DefaultCacheKey)
	v.SetDefault("store.redis.ttl", "0s")
	v.SetDefault("store.retry.attempts", constants.DefaultRetryAttempts)
	v.SetDefault("store.retry.backoffMillis", constants.DefaultRetryBackoffMillis)
	v.SetDefault("defaults.payrollTaxRate", constants.DefaultPayrollTaxRate)
	v.SetDefault("defaults.legacyPayrollTaxRate", constants.LegacyPayrollTaxRate)
	v.SetDefault("defaults.payPeriodsPerMonth", constants.DefaultPayPeriodsPerMonth)
	v.SetDefault("defaults.grossMarginPct", constants.DefaultGrossMarginPct)

	// DATABASE_URL is honoured as well as the prefixed key.
	_ = v.BindEnv("store.postgres.url", constants.EnvPrefix+"_STORE_POSTGRES_URL", "DATABASE_URL")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is given, still
// honouring environment overrides.
func Default() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ModelDefaults returns the normalization defaults.
func (c *Configuration) ModelDefaults() model.Defaults {
	return model.Defaults{
		PayrollTaxRate:       c.Defaults.PayrollTaxRate,
		LegacyPayrollTaxRate: c.Defaults.LegacyPayrollTaxRate,
		PayPeriodsPerMonth:   c.Defaults.PayPeriodsPerMonth,
		GrossMarginPct:       c.Defaults.GrossMarginPct,
	}
}

// RetryPolicy returns the retry policy for remote store calls.
func (c *Configuration) RetryPolicy() store.RetryPolicy {
	return store.RetryPolicy{
		Attempts: c.Store.Retry.Attempts,
		Backoff:  time.Duration(c.Store.Retry.BackoffMillis) * time.Millisecond,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown logging level %q; info is used", c.Logging.Level))
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		warnings = append(warnings, err.Error())
	}

	switch c.Store.Backend {
	case BackendFile:
	case BackendPostgres:
		if c.Store.Postgres.URL == "" {
			warnings = append(warnings, "Store backend is postgres but no URL is set; the file store will be used")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown store backend %q; the file store will be used", c.Store.Backend))
	}
	if c.Store.File.Path == "" {
		warnings = append(warnings, "Store file path is empty")
	}
	if c.Store.Retry.Attempts < 1 {
		warnings = append(warnings, fmt.Sprintf("Store retry attempts is %d; remote calls are tried once", c.Store.Retry.Attempts))
	}
	if c.Store.Redis.Addr != "" && c.Store.Redis.Key == "" {
		warnings = append(warnings, "Redis cache is enabled without a key")
	}

	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"Payroll tax rate", c.Defaults.PayrollTaxRate},
		{"Legacy payroll tax rate", c.Defaults.LegacyPayrollTaxRate},
		{"Default gross margin", c.Defaults.GrossMarginPct},
	} {
		if rate.value < 0 || rate.value > 100 {
			warnings = append(warnings, fmt.Sprintf("%s %.2f%% is outside 0-100", rate.name, rate.value))
		}
	}
	if c.Defaults.PayPeriodsPerMonth < 1 {
		warnings = append(warnings, fmt.Sprintf("Pay periods per month is %d; %d is used", c.Defaults.PayPeriodsPerMonth, constants.DefaultPayPeriodsPerMonth))
	}

	return warnings
}
