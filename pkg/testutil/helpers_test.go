package testutil

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

func TestMonths(t *testing.T) {
	row := Months(3)
	if len(row) != constants.AxisMonths {
		t.Fatalf("Months() has %d entries, expected %d", len(row), constants.AxisMonths)
	}
	if row["Jan 2025"] != 3 || row["Dec 2030"] != 3 {
		t.Errorf("Months() did not fill every month: %v", row)
	}
}

func TestLeading(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected map[string]float64
	}{
		{
			name:     "Two months",
			values:   []float64{100, 50},
			expected: map[string]float64{"Jan 2025": 100, "Feb 2025": 50},
		},
		{
			name:     "No values",
			values:   nil,
			expected: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Leading(tt.values...)
			if len(row) != len(tt.expected) {
				t.Fatalf("Leading() = %v, expected %v", row, tt.expected)
			}
			for k, v := range tt.expected {
				if row[k] != v {
					t.Errorf("Leading()[%s] = %.2f, expected %.2f", k, row[k], v)
				}
			}
		})
	}
}

func TestAssertSeries(t *testing.T) {
	got := make([]float64, constants.AxisMonths)
	got[0] = 1.004
	got[1] = 2
	AssertSeries(t, "series", got, 1, 2)
	AssertClose(t, "value", 10.001, 10)
}
