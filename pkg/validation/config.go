package validation

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
)

// ValidatePercentRange warns when a percentage falls outside [0, 100]. The
// value is still used as entered.
func ValidatePercentRange(field string, month string, value float64) string {
	if value < 0 || value > 100 {
		return fmt.Sprintf("%s for %s is %.2f%%, outside 0-100; computed unclamped", field, month, value)
	}
	return ""
}

// ValidateNonNegative warns when a count or amount is negative.
func ValidateNonNegative(field string, month string, value float64) string {
	if value < 0 {
		return fmt.Sprintf("%s for %s is negative (%.2f)", field, month, value)
	}
	return ""
}

// ValidateMonthLabel warns when a label is set but not on the month axis.
func ValidateMonthLabel(field, label string) string {
	if label == "" {
		return ""
	}
	if _, ok := datetime.MonthIndex(label); !ok {
		return fmt.Sprintf("%s %q is not a month between Jan 2025 and Dec 2030", field, label)
	}
	return ""
}

// ValidateGridMonths warns about every key of a month-keyed row that is not
// on the axis; such entries are ignored by the engines.
func ValidateGridMonths(field string, row map[string]float64) []string {
	var warnings []string
	for label := range row {
		if _, ok := datetime.MonthIndex(label); !ok {
			warnings = append(warnings, fmt.Sprintf("%s has an entry for %q which is not on the month axis and is ignored", field, label))
		}
	}
	return warnings
}

// ValidateDateWindow checks a start/end pair of YYYY-MM-DD dates. Unparseable
// dates are reported because the record then falls back to its active flag.
func ValidateDateWindow(record, startField, start, endField, end string) []string {
	var warnings []string

	startT, startErr := datetime.ParseISODate(start)
	if startErr != nil {
		warnings = append(warnings, fmt.Sprintf("%s has an invalid %s %q; using its active flag", record, startField, start))
	}
	if end == "" {
		return warnings
	}
	endT, endErr := datetime.ParseISODate(end)
	if endErr != nil {
		warnings = append(warnings, fmt.Sprintf("%s has an invalid %s %q; using its active flag", record, endField, end))
		return warnings
	}
	if startErr == nil && !startT.Before(endT) {
		warnings = append(warnings, fmt.Sprintf("%s %s %s is not before %s %s", record, endField, end, startField, start))
	}
	return warnings
}
