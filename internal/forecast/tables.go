package forecast

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/format"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/iwvelando/finance-dashboard/pkg/output"
)

// Report views.
const (
	ViewRevenue     = "revenue"
	ViewPayroll     = "payroll"
	ViewHosting     = "hosting"
	ViewGrossProfit = "gross-profit"
	ViewLiquidity   = "liquidity"
	ViewSummary     = "summary"
)

// ErrUnknownView is returned for a view name Table does not know.
var ErrUnknownView = errors.New("unknown view")

// Views lists the tabular views in display order.
func Views() []string {
	return []string{ViewRevenue, ViewPayroll, ViewHosting, ViewGrossProfit, ViewLiquidity, ViewSummary}
}

// builder adds rows over either the monthly or the annual columns.
type builder struct {
	table  output.Table
	annual bool
}

func newBuilder(title string, annual bool) *builder {
	b := &builder{annual: annual}
	b.table.Title = title
	if annual {
		b.table.Title += " (annual)"
		for i := 0; i < constants.AxisMonths/constants.MonthsPerYear; i++ {
			b.table.Columns = append(b.table.Columns, strconv.Itoa(constants.AxisStartYear+i))
		}
	} else {
		b.table.Columns = datetime.MonthAxis()
	}
	return b
}

// flows adds a row summed per year in annual mode.
func (b *builder) flows(label string, s model.Series, total bool) {
	b.add(output.Row{Label: label, Unit: output.UnitCurrency, Total: total}, s, false)
}

// stock adds a row that takes the year-end value in annual mode.
func (b *builder) stock(label string, s model.Series, unit output.Unit) {
	b.add(output.Row{Label: label, Unit: unit, Stock: true}, s, true)
}

// count adds a count row summed per year in annual mode.
func (b *builder) count(label string, s model.Series) {
	b.add(output.Row{Label: label, Unit: output.UnitCount}, s, false)
}

// ratio adds a percentage row computed from a numerator and denominator, so
// annual margins are weighted by revenue rather than averaged.
func (b *builder) ratio(label string, numerator, denominator model.Series) {
	row := output.Row{Label: label, Unit: output.UnitPercent}
	if b.annual {
		num := numerator.ByYear()
		den := denominator.ByYear()
		for _, year := range b.years() {
			row.Values = append(row.Values, mathutil.Round(mathutil.CalculatePercentage(num[year], den[year])))
		}
	} else {
		for m := 0; m < constants.AxisMonths; m++ {
			row.Values = append(row.Values, mathutil.Round(mathutil.CalculatePercentage(numerator.At(m), denominator.At(m))))
		}
	}
	b.table.Rows = append(b.table.Rows, row)
}

func (b *builder) add(row output.Row, s model.Series, stock bool) {
	if b.annual {
		values := s.ByYear()
		if stock {
			values = s.YearEnd()
		}
		for _, year := range b.years() {
			row.Values = append(row.Values, mathutil.Round(values[year]))
		}
	} else {
		row.Values = make([]float64, constants.AxisMonths)
		for m := range row.Values {
			row.Values[m] = s.At(m)
		}
	}
	b.table.Rows = append(b.table.Rows, row)
}

func (b *builder) years() []int {
	years := make([]int, 0, constants.AxisMonths/constants.MonthsPerYear)
	for i := 0; i < constants.AxisMonths; i += constants.MonthsPerYear {
		years = append(years, datetime.YearOf(i))
	}
	return years
}

// Table builds one view. Monthly tables have a column per month on the axis;
// annual tables have a column per calendar year.
func (r Results) Table(view string, annual bool) (output.Table, error) {
	switch view {
	case ViewRevenue:
		return r.revenueTable(annual), nil
	case ViewPayroll:
		return r.payrollTable(annual), nil
	case ViewHosting:
		return r.hostingTable(annual), nil
	case ViewGrossProfit:
		return r.grossProfitTable(annual), nil
	case ViewLiquidity:
		return r.liquidityTable(annual), nil
	case ViewSummary:
		return r.summaryTable(), nil
	}
	return output.Table{}, fmt.Errorf("%w: %s", ErrUnknownView, view)
}

func (r Results) revenueTable(annual bool) output.Table {
	b := newBuilder("Revenue", annual)
	for _, name := range model.RevenueStreams() {
		b.flows(name, r.Revenue.Stream(name), false)
	}
	b.flows("Total revenue", r.Revenue.Total, true)
	b.count("New customers", r.Revenue.NewCustomers)
	b.stock("Active subscribers", r.Revenue.ActiveSubscribers, output.UnitCount)
	return b.table
}

func (r Results) payrollTable(annual bool) output.Table {
	b := newBuilder("Payroll", annual)
	b.flows("Base pay", r.Payroll.BasePay, false)
	b.flows("Bonuses", r.Payroll.Bonuses, false)
	b.flows("Payroll tax", r.Payroll.Taxes, false)
	b.flows("Personnel", r.Payroll.Personnel, true)
	b.flows("Contractors", r.Payroll.Contractors, false)
	b.flows("Total payroll", r.Payroll.Total, true)
	for _, d := range r.Payroll.Departments() {
		b.flows("Base pay: "+departmentLabel(d), r.Payroll.ByDepartment[d], false)
	}
	for _, d := range r.Payroll.Departments() {
		b.flows("Contractors: "+departmentLabel(d), r.Payroll.ContractorsByDepartment[d], false)
	}
	b.stock("Headcount", r.Payroll.Headcount, output.UnitCount)
	b.stock("Contractor resources", r.Payroll.ContractorResources, output.UnitCount)
	return b.table
}

func departmentLabel(d model.Department) string {
	if d == "" {
		return "Unassigned"
	}
	return string(d)
}

func (r Results) hostingTable(annual bool) output.Table {
	b := newBuilder("Hosting", annual)
	for _, name := range sortedKeys(r.Hosting.ByCategory) {
		b.flows(name, r.Hosting.ByCategory[name], false)
	}
	b.flows("Total hosting", r.Hosting.Total, true)
	b.flows("Capitalized", r.Hosting.Capitalized, false)
	b.flows("Expensed", r.Hosting.Expensed, false)
	return b.table
}

func (r Results) grossProfitTable(annual bool) output.Table {
	b := newBuilder("Gross Profit", annual)
	for _, name := range model.RevenueStreams() {
		line := r.GrossProfit.Streams[name]
		b.flows(name+" revenue", line.Revenue, false)
		b.flows(name+" COGS", line.COGS, false)
		b.flows(name+" gross profit", line.GrossProfit, false)
		b.ratio(name+" margin", line.GrossProfit, line.Revenue)
	}
	total := r.GrossProfit.Total
	b.flows("Total revenue", total.Revenue, true)
	b.flows("Total COGS", total.COGS, true)
	b.flows("Total gross profit", total.GrossProfit, true)
	b.ratio("Gross margin", total.GrossProfit, total.Revenue)
	return b.table
}

func (r Results) liquidityTable(annual bool) output.Table {
	l := r.Liquidity
	b := newBuilder("Liquidity", annual)
	b.flows("Revenue", l.Revenue, false)
	b.flows("Other receipts", l.OtherReceipts, false)
	b.flows("Investment", l.Investment, false)
	b.flows("Total inflow", l.Inflow, true)
	for _, name := range l.Order {
		b.flows(name, l.ByCategory[name], false)
	}
	b.flows("Total outflow", l.Outflow, true)
	b.flows("Net cash flow", l.Net, true)
	b.stock("Balance", l.Balance, output.UnitCurrency)
	return b.table
}

func (r Results) summaryTable() output.Table {
	b := newBuilder("Summary", true)
	b.table.Title = "Summary"
	b.flows("Revenue", r.Revenue.Total, false)
	b.flows("Gross profit", r.GrossProfit.Total.GrossProfit, false)
	b.ratio("Gross margin", r.GrossProfit.Total.GrossProfit, r.GrossProfit.Total.Revenue)
	b.flows("Personnel", r.Payroll.Personnel, false)
	b.flows("Contractors", r.Payroll.Contractors, false)
	b.flows("Hosting", r.Hosting.Total, false)
	b.flows("Net cash flow", r.Liquidity.Net, true)
	b.stock("Ending balance", r.Liquidity.Balance, output.UnitCurrency)
	return b.table
}

// Summary returns the annual KPI table and the headline figures.
func (r Results) Summary() (output.Table, []output.KPI) {
	l := r.Liquidity
	runway := "none"
	if l.RunwayMonth != "" {
		runway = l.RunwayMonth
	}
	kpis := []output.KPI{
		{Label: "Ending balance", Value: format.Currency(l.Balance.Last()), Alert: l.Balance.Last() < 0},
		{Label: "Minimum balance", Value: fmt.Sprintf("%s (%s)", format.Currency(l.MinBalance), l.MinBalanceMonth), Alert: l.MinBalance < 0},
		{Label: "Cash runs out", Value: runway, Alert: l.RunwayMonth != ""},
		{Label: "Ending ARR", Value: format.Currency(r.Revenue.Subscription.Last() * constants.MonthsPerYear)},
		{Label: "Ending subscribers", Value: format.NumericCurrency(r.Revenue.ActiveSubscribers.Last())},
		{Label: "Ending headcount", Value: strconv.Itoa(int(r.Payroll.Headcount.Last()))},
	}
	return r.summaryTable(), kpis
}

func sortedKeys(rows map[string]model.Series) []string {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
