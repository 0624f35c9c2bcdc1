package model

import (
	"sort"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
)

// Series is one value per month on the axis, indexed by axis position.
type Series []float64

// NewSeries returns a zero-filled series covering the whole axis.
func NewSeries() Series {
	return make(Series, constants.AxisMonths)
}

// At returns the value at axis position i, or 0 outside the series.
func (s Series) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// Clone returns a full-length copy of the series.
func (s Series) Clone() Series {
	out := NewSeries()
	copy(out, s)
	return out
}

// Plus returns the element-wise sum of s and other.
func (s Series) Plus(other Series) Series {
	out := NewSeries()
	for i := range out {
		out[i] = s.At(i) + other.At(i)
	}
	return out
}

// Minus returns the element-wise difference s - other.
func (s Series) Minus(other Series) Series {
	out := NewSeries()
	for i := range out {
		out[i] = s.At(i) - other.At(i)
	}
	return out
}

// Sum returns the total over all months.
func (s Series) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Last returns the value of the final month.
func (s Series) Last() float64 {
	return s.At(constants.AxisMonths - 1)
}

// ByYear totals the series per calendar year.
func (s Series) ByYear() map[int]float64 {
	totals := make(map[int]float64)
	for i := 0; i < constants.AxisMonths; i++ {
		totals[datetime.YearOf(i)] += s.At(i)
	}
	return totals
}

// YearEnd returns the December value of each calendar year, for balances and
// other stock quantities that should not be summed.
func (s Series) YearEnd() map[int]float64 {
	ends := make(map[int]float64)
	for i := constants.MonthsPerYear - 1; i < constants.AxisMonths; i += constants.MonthsPerYear {
		ends[datetime.YearOf(i)] = s.At(i)
	}
	return ends
}

// Map keys the series by month label.
func (s Series) Map() map[string]float64 {
	out := make(map[string]float64, constants.AxisMonths)
	for i, label := range datetime.MonthAxis() {
		out[label] = s.At(i)
	}
	return out
}

// SeriesFromMap reads a month-keyed map into a series. Missing months are 0
// and keys outside the axis are ignored.
func SeriesFromMap(m map[string]float64) Series {
	out := NewSeries()
	for label, v := range m {
		if idx, ok := datetime.MonthIndex(label); ok {
			out[idx] = v
		}
	}
	return out
}

// Grid is the category x month -> number table every section is built from.
type Grid map[string]map[string]float64

// Get returns the value for a category and month, or 0 when absent.
func (g Grid) Get(category, month string) float64 {
	return g[category][month]
}

// GetOr returns the value for a category and month, or def when absent.
func (g Grid) GetOr(category, month string, def float64) float64 {
	row, ok := g[category]
	if !ok {
		return def
	}
	v, ok := row[month]
	if !ok {
		return def
	}
	return v
}

// Has reports whether a value is stored for the category and month.
func (g Grid) Has(category, month string) bool {
	_, ok := g[category][month]
	return ok
}

// Set stores a value, creating the category row if needed. g must be non-nil.
func (g Grid) Set(category, month string, v float64) {
	row, ok := g[category]
	if !ok {
		row = make(map[string]float64)
		g[category] = row
	}
	row[month] = v
}

// Row returns the category as a zero-filled series.
func (g Grid) Row(category string) Series {
	return SeriesFromMap(g[category])
}

// SetRow replaces a category with the values of a series. g must be non-nil.
func (g Grid) SetRow(category string, s Series) {
	g[category] = s.Map()
}

// Categories returns the category keys in sorted order.
func (g Grid) Categories() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Delete removes a category.
func (g Grid) Delete(category string) {
	delete(g, category)
}

// GridFromRows builds a grid from named series.
func GridFromRows(rows map[string]Series) Grid {
	g := make(Grid, len(rows))
	for name, s := range rows {
		g.SetRow(name, s)
	}
	return g
}
