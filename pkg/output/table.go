// Package output renders report tables for the terminal, CSV and YAML.
package output

import (
	"github.com/iwvelando/finance-dashboard/pkg/format"
)

// Unit selects how a row's values are rendered.
type Unit int

const (
	UnitCurrency Unit = iota
	UnitPercent
	UnitCount
)

// Row is one labelled line of a table.
type Row struct {
	Label  string    `json:"label" yaml:"label"`
	Values []float64 `json:"values" yaml:"values"`
	Unit   Unit      `json:"-" yaml:"-"`
	// Stock marks point-in-time values such as balances that roll up by taking
	// the last period instead of summing.
	Stock bool `json:"-" yaml:"-"`
	// Total rows are emphasized in pretty output.
	Total bool `json:"total,omitempty" yaml:"total,omitempty"`
}

// Table is a titled grid of rows over a shared set of column headings.
type Table struct {
	Title   string   `json:"title" yaml:"title"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// Cell renders one value of a row.
func (r Row) Cell(i int) string {
	v := 0.0
	if i >= 0 && i < len(r.Values) {
		v = r.Values[i]
	}
	switch r.Unit {
	case UnitPercent:
		return format.Percent(v)
	case UnitCount:
		return format.NumericCurrency(v)
	default:
		return format.Currency(v)
	}
}

// KPI is a headline figure shown above or instead of the tables.
type KPI struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	// Alert marks a figure that needs attention, e.g. a negative balance.
	Alert bool `json:"alert,omitempty" yaml:"alert,omitempty"`
}
