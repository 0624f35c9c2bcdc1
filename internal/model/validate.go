package model

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
)

// Validate returns warnings about values the engines accept but that are
// probably mistakes. It never modifies the document.
func (d *Document) Validate() []string {
	var warnings []string

	r := d.Revenue
	for _, name := range r.ChurnRate.Categories() {
		warnings = append(warnings, checkRow(fmt.Sprintf("Churn rate of %s", name), r.ChurnRate[name], validation.ValidatePercentRange)...)
	}
	for _, name := range r.NewCustomers.Categories() {
		warnings = append(warnings, checkRow(fmt.Sprintf("New customers of %s", name), r.NewCustomers[name], validation.ValidateNonNegative)...)
	}
	for _, name := range r.ReferralFee.Categories() {
		warnings = append(warnings, checkRow(fmt.Sprintf("Referral fee of %s", name), r.ReferralFee[name], validation.ValidatePercentRange)...)
	}
	for _, field := range []struct {
		label string
		grid  Grid
	}{
		{"new customers", r.NewCustomers},
		{"subscription price", r.SubscriptionPrice},
		{"churn rate", r.ChurnRate},
		{"implementation engagements", r.ImplementationCount},
		{"implementation fee", r.ImplementationFee},
		{"maintenance contracts", r.MaintenanceCount},
		{"maintenance fee", r.MaintenanceFee},
		{"transactional volume", r.TransactionalVolume},
		{"transactional price", r.TransactionalPrice},
		{"referral fee", r.ReferralFee},
		{"expenses", d.Liquidity.Expenses},
	} {
		for _, name := range field.grid.Categories() {
			warnings = append(warnings, validation.ValidateGridMonths(fmt.Sprintf("%s %s", name, field.label), field.grid[name])...)
		}
	}

	employees := make(map[string]bool, len(d.Payroll.Employees))
	for _, e := range d.Payroll.Employees {
		employees[e.Name] = true
		record := fmt.Sprintf("Employee '%s'", e.Name)
		warnings = append(warnings, validation.ValidateDateWindow(record, "hire date", e.HireDate, "termination date", e.TerminationDate)...)
		if e.Department == "" {
			warnings = append(warnings, record+" has no department")
		}
		if e.PayType == PayTypeHourly && e.WeeklyHours <= 0 {
			warnings = append(warnings, record+" is hourly with no weekly hours")
		}
	}
	for _, c := range d.Payroll.Contractors {
		record := fmt.Sprintf("Contractor '%s %s'", c.Vendor, c.Role)
		warnings = append(warnings, validation.ValidateDateWindow(record, "start date", c.StartDate, "end date", c.EndDate)...)
		if c.Department == "" {
			warnings = append(warnings, record+" has no department")
		}
	}
	for _, b := range d.Payroll.Bonuses {
		if !employees[b.EmployeeName] {
			warnings = append(warnings, fmt.Sprintf("Bonus for '%s' in %s does not match any employee", b.EmployeeName, b.Month))
		}
		if w := validation.ValidateMonthLabel("Bonus month", b.Month); w != "" {
			warnings = append(warnings, w)
		}
	}
	if rate := d.Payroll.EffectiveTaxRate(); rate < 0 || rate > 100 {
		warnings = append(warnings, fmt.Sprintf("Payroll tax rate %.2f%% is outside 0-100", rate))
	}

	if w := validation.ValidateMonthLabel("Go-live month", d.Hosting.GoLive.Month); w != "" {
		warnings = append(warnings, w)
	}
	if d.Hosting.GoLive.Capitalize && d.Hosting.GoLive.Month == "" {
		warnings = append(warnings, "Hosting costs are set to capitalize before go-live but no go-live month is set; all months are expensed")
	}
	warnings = append(warnings, validation.ValidateGridMonths("Hosting overrides", d.Hosting.MonthlyOverrides)...)

	for _, name := range d.GrossProfit.GrossMargins.Categories() {
		warnings = append(warnings, checkRow(fmt.Sprintf("Gross margin of %s", name), d.GrossProfit.GrossMargins[name], validation.ValidatePercentRange)...)
	}

	for _, c := range d.Liquidity.ExpenseCategories {
		if !c.Link.Known() {
			warnings = append(warnings, fmt.Sprintf("Expense category '%s' has unknown link %q; treated as entered values", c.Name, c.Link))
		}
	}
	s := d.Liquidity.Sensitivity
	if s.Enabled {
		if w := validation.ValidateMonthLabel("Sensitivity effective month", s.EffectiveMonth); w != "" {
			warnings = append(warnings, w)
		}
	}

	return warnings
}

// checkRow applies check to every month of a row and collapses the result to
// a single warning naming the first offending month.
func checkRow(field string, row map[string]float64, check func(string, string, float64) string) []string {
	first := ""
	count := 0
	for _, label := range datetime.MonthAxis() {
		v, ok := row[label]
		if !ok {
			continue
		}
		if w := check(field, label, v); w != "" {
			if count == 0 {
				first = w
			}
			count++
		}
	}
	switch {
	case count == 0:
		return nil
	case count == 1:
		return []string{first}
	default:
		return []string{fmt.Sprintf("%s (and %d more months)", first, count-1)}
	}
}
