// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// Months returns the label of every month on the axis, keyed to the value v.
func Months(v float64) map[string]float64 {
	row := make(map[string]float64, constants.AxisMonths)
	for _, label := range datetime.MonthAxis() {
		row[label] = v
	}
	return row
}

// Leading returns a month-keyed row holding values for the first months of
// the axis. Later months are absent.
func Leading(values ...float64) map[string]float64 {
	row := make(map[string]float64, len(values))
	for i, v := range values {
		label, ok := datetime.MonthLabel(i)
		if !ok {
			break
		}
		row[label] = v
	}
	return row
}

// AssertClose fails the test when got and expected differ by more than a cent.
func AssertClose(t *testing.T, name string, got, expected float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, expected, constants.CurrencyTolerance) {
		t.Errorf("%s = %.4f, expected %.4f", name, got, expected)
	}
}

// AssertSeries compares a series against expected values month by month. A
// shorter expected slice is zero-extended to the axis length.
func AssertSeries(t *testing.T, name string, got []float64, expected ...float64) {
	t.Helper()
	if len(got) != constants.AxisMonths {
		t.Errorf("%s has %d months, expected %d", name, len(got), constants.AxisMonths)
		return
	}
	for i := 0; i < constants.AxisMonths; i++ {
		want := 0.0
		if i < len(expected) {
			want = expected[i]
		}
		if !mathutil.WithinTolerance(got[i], want, constants.CurrencyTolerance) {
			label, _ := datetime.MonthLabel(i)
			t.Errorf("%s[%s] = %.4f, expected %.4f", name, label, got[i], want)
		}
	}
}
