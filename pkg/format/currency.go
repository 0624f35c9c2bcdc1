// Package format renders model values for terminal and CSV output.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if amount == 0 {
		amount = 0 // normalizes negative zero
	}
	return printer.Sprintf("%.2f", amount)
}

// Percent returns a percentage with one decimal, e.g. "70.0%".
func Percent(value float64) string {
	return printer.Sprintf("%.1f%%", value)
}

// Plain returns a separator-free two-decimal number suitable for CSV cells.
func Plain(value float64) string {
	rounded := math.Round(value*100) / 100
	if rounded == 0 {
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 2, 64)
}
