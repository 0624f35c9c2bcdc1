package validation

import (
	"strings"
	"testing"
)

func TestValidatePercentRange(t *testing.T) {
	tests := []struct {
		name        string
		value       float64
		wantWarning bool
	}{
		{"Zero", 0, false},
		{"Typical churn", 2.5, false},
		{"Upper bound", 100, false},
		{"Negative", -1, true},
		{"Over 100", 120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidatePercentRange("Churn", "Jan 2025", tt.value)
			if (warning != "") != tt.wantWarning {
				t.Errorf("ValidatePercentRange(%v) = %q, wantWarning %v", tt.value, warning, tt.wantWarning)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if w := ValidateNonNegative("New customers", "Jan 2025", 5); w != "" {
		t.Errorf("unexpected warning %q", w)
	}
	if w := ValidateNonNegative("New customers", "Jan 2025", -5); w == "" {
		t.Errorf("expected warning for negative value")
	}
}

func TestValidateMonthLabel(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		wantWarning bool
	}{
		{"Empty is allowed", "", false},
		{"On axis", "Jun 2026", false},
		{"Off axis", "Jun 2031", true},
		{"Wrong layout", "2026-06", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateMonthLabel("Go-live month", tt.label)
			if (warning != "") != tt.wantWarning {
				t.Errorf("ValidateMonthLabel(%q) = %q, wantWarning %v", tt.label, warning, tt.wantWarning)
			}
		})
	}
}

func TestValidateGridMonths(t *testing.T) {
	warnings := ValidateGridMonths("OEM new customers", map[string]float64{
		"Jan 2025": 1,
		"2025-02":  2,
	})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "2025-02") {
		t.Errorf("warning should name the bad key: %s", warnings[0])
	}
}

func TestValidateDateWindow(t *testing.T) {
	tests := []struct {
		name         string
		start        string
		end          string
		wantWarnings int
	}{
		{"Open ended", "2025-01-15", "", 0},
		{"Valid window", "2025-01-15", "2026-01-15", 0},
		{"End before start", "2026-01-15", "2025-01-15", 1},
		{"Same day", "2025-01-15", "2025-01-15", 1},
		{"Bad start", "15/01/2025", "", 1},
		{"Bad end", "2025-01-15", "soon", 1},
		{"Both bad", "x", "y", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateDateWindow("Employee 'Ada'", "hire date", tt.start, "termination date", tt.end)
			if len(warnings) != tt.wantWarnings {
				t.Errorf("ValidateDateWindow() = %v, expected %d warnings", warnings, tt.wantWarnings)
			}
		})
	}
}
