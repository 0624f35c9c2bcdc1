package config

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	cfg, err := LoadConfiguration("../../test/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Output.Format != constants.OutputFormatCSV || cfg.Output.Annual {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Store.Backend != BackendPostgres {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendPostgres)
	}
	if !cfg.Store.File.Encrypt || cfg.Store.File.Path != "/var/lib/finance-dashboard/model.json" {
		t.Errorf("file store = %+v", cfg.Store.File)
	}
	if cfg.Store.Postgres.ModelName != "plan-2025" {
		t.Errorf("model name = %q", cfg.Store.Postgres.ModelName)
	}
	if cfg.Store.Postgres.FallbackURL == "" {
		t.Error("expected a fallback URL")
	}
	if cfg.Store.Redis.TTL != 5*time.Minute {
		t.Errorf("redis ttl = %v, want 5m", cfg.Store.Redis.TTL)
	}
	if cfg.Store.Redis.Key != constants.DefaultCacheKey {
		t.Errorf("redis key = %q, want default", cfg.Store.Redis.Key)
	}

	policy := cfg.RetryPolicy()
	if policy.Attempts != 5 || policy.Backoff != 50*time.Millisecond {
		t.Errorf("RetryPolicy() = %+v", policy)
	}

	defaults := cfg.ModelDefaults()
	if defaults.PayrollTaxRate != 12.5 {
		t.Errorf("payroll tax rate = %v, want 12.5", defaults.PayrollTaxRate)
	}
	if defaults.LegacyPayrollTaxRate != constants.LegacyPayrollTaxRate {
		t.Errorf("legacy tax rate = %v, want %v", defaults.LegacyPayrollTaxRate, constants.LegacyPayrollTaxRate)
	}
	if defaults.PayPeriodsPerMonth != constants.DefaultPayPeriodsPerMonth {
		t.Errorf("pay periods = %d", defaults.PayPeriodsPerMonth)
	}
	if defaults.GrossMarginPct != constants.DefaultGrossMarginPct {
		t.Errorf("gross margin = %v", defaults.GrossMarginPct)
	}

	if warnings := cfg.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration("does-not-exist.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if cfg.Store.Backend != BackendFile {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendFile)
	}
	if cfg.Store.File.Path != constants.DefaultModelFile {
		t.Errorf("path = %q", cfg.Store.File.Path)
	}
	if cfg.Output.Format != constants.OutputFormatPretty || !cfg.Output.Annual {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.RetryPolicy().Attempts != constants.DefaultRetryAttempts {
		t.Errorf("attempts = %d", cfg.RetryPolicy().Attempts)
	}
	if warnings := cfg.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FINANCE_STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://env@localhost/finance")
	t.Setenv("FINANCE_OUTPUT_FORMAT", "yaml")

	cfg, err := LoadConfigurationFromReader(strings.NewReader("logging:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if cfg.Store.Backend != BackendPostgres {
		t.Errorf("backend = %q, want postgres", cfg.Store.Backend)
	}
	if cfg.Store.Postgres.URL != "postgres://env@localhost/finance" {
		t.Errorf("url = %q", cfg.Store.Postgres.URL)
	}
	if cfg.Output.Format != constants.OutputFormatYAML {
		t.Errorf("format = %q", cfg.Output.Format)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Configuration)
		want   string
	}{
		{"log level", func(c *Configuration) { c.Logging.Level = "loud" }, "logging level"},
		{"output format", func(c *Configuration) { c.Output.Format = "xml" }, "output format"},
		{"postgres without url", func(c *Configuration) { c.Store.Backend = BackendPostgres }, "no URL"},
		{"unknown backend", func(c *Configuration) { c.Store.Backend = "s3" }, "Unknown store backend"},
		{"empty path", func(c *Configuration) { c.Store.File.Path = "" }, "file path"},
		{"no retries", func(c *Configuration) { c.Store.Retry.Attempts = 0 }, "retry attempts"},
		{"redis without key", func(c *Configuration) {
			c.Store.Redis.Addr = "localhost:6379"
			c.Store.Redis.Key = ""
		}, "without a key"},
		{"tax rate", func(c *Configuration) { c.Defaults.PayrollTaxRate = 120 }, "outside 0-100"},
		{"margin", func(c *Configuration) { c.Defaults.GrossMarginPct = -5 }, "outside 0-100"},
		{"pay periods", func(c *Configuration) { c.Defaults.PayPeriodsPerMonth = 0 }, "Pay periods"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatalf("Default() error = %v", err)
			}
			tt.mutate(cfg)
			warnings := cfg.ValidateConfiguration()
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a warning containing %q, got %v", tt.want, warnings)
			}
		})
	}
}
