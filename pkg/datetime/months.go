// Package datetime provides the month axis shared by every series and the
// date helpers used to gate records against it.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

const (
	// MonthLabelLayout is the layout of month keys, e.g. "Jan 2025".
	MonthLabelLayout = constants.MonthLabelLayout

	// ISODateLayout is the layout of record dates, e.g. "2025-03-15".
	ISODateLayout = constants.ISODateLayout
)

var (
	axisLabels []string
	axisIndex  map[string]int
)

func init() {
	axisLabels = make([]string, constants.AxisMonths)
	axisIndex = make(map[string]int, constants.AxisMonths)
	start := AxisStart()
	for i := range axisLabels {
		label := start.AddDate(0, i, 0).Format(MonthLabelLayout)
		axisLabels[i] = label
		axisIndex[label] = i
	}
}

// AxisStart returns the first day of the first month on the axis.
func AxisStart() time.Time {
	return time.Date(constants.AxisStartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// MonthAxis returns the 72 month labels from Jan 2025 through Dec 2030 in
// order. The returned slice is a copy and may be modified by the caller.
func MonthAxis() []string {
	labels := make([]string, len(axisLabels))
	copy(labels, axisLabels)
	return labels
}

// MonthLabel returns the label at the given axis position.
func MonthLabel(index int) (string, bool) {
	if index < 0 || index >= len(axisLabels) {
		return "", false
	}
	return axisLabels[index], true
}

// MonthIndex returns the axis position of a month label.
func MonthIndex(label string) (int, bool) {
	idx, ok := axisIndex[label]
	return idx, ok
}

// MonthStart returns the first day of the month named by label.
func MonthStart(label string) (time.Time, error) {
	t, err := time.Parse(MonthLabelLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month label %q: %w", label, err)
	}
	return t, nil
}

// MonthStartAt returns the first day of the month at the given axis position.
func MonthStartAt(index int) time.Time {
	return AxisStart().AddDate(0, index, 0)
}

// YearOf returns the calendar year of the month at the given axis position.
func YearOf(index int) int {
	return constants.AxisStartYear + index/constants.MonthsPerYear
}

// ParseISODate parses a YYYY-MM-DD record date.
func ParseISODate(date string) (time.Time, error) {
	return time.Parse(ISODateLayout, date)
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}
