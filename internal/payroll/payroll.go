// Package payroll computes monthly personnel and contractor cost from the
// employee and contractor records.
package payroll

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds every series the payroll engine produces.
type Result struct {
	BasePay     model.Series
	Bonuses     model.Series
	Taxes       model.Series
	Personnel   model.Series
	Contractors model.Series
	Total       model.Series

	// ByDepartment is employee base pay per department.
	ByDepartment map[model.Department]model.Series
	// ContractorsByDepartment is contractor cost per department.
	ContractorsByDepartment map[model.Department]model.Series

	Headcount           model.Series
	ContractorResources model.Series
}

// IsActive reports whether a record with the given start and optional end
// date is active in the month beginning at monthStart. The window is
// start <= monthStart < end. When either date cannot be parsed the stored
// active flag decides.
func IsActive(start, end string, active bool, monthStart time.Time) bool {
	startT, err := datetime.ParseISODate(start)
	if err != nil {
		return active
	}
	if startT.After(monthStart) {
		return false
	}
	if end == "" {
		return true
	}
	endT, err := datetime.ParseISODate(end)
	if err != nil {
		return active
	}
	return monthStart.Before(endT)
}

// MonthlyPay returns an employee's base pay for a month with the given number
// of pay periods.
func MonthlyPay(e model.Employee, payPeriods int) float64 {
	if e.PayType == model.PayTypeHourly {
		return e.PayAmount * e.WeeklyHours * constants.AverageWeeksPerMonth
	}
	return e.PayAmount / constants.SalaryPayPeriodsPerYear * float64(payPeriods)
}

// ContractorMonthlyCost returns resources x rate x 40 hours x 4 weeks.
func ContractorMonthlyCost(c model.Contractor) float64 {
	return c.Resources * c.HourlyRate * constants.ContractorHoursPerWeek * constants.ContractorWeeksPerMonth
}

// Compute runs the payroll engine. It never fails; records with unparseable
// dates use their active flag.
func Compute(logger *zap.Logger, in model.PayrollData) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{
		BasePay:                 model.NewSeries(),
		Bonuses:                 model.NewSeries(),
		Taxes:                   model.NewSeries(),
		Personnel:               model.NewSeries(),
		Contractors:             model.NewSeries(),
		ByDepartment:            make(map[model.Department]model.Series),
		ContractorsByDepartment: make(map[model.Department]model.Series),
		Headcount:               model.NewSeries(),
		ContractorResources:     model.NewSeries(),
	}
	for _, d := range model.Departments() {
		result.ByDepartment[d] = model.NewSeries()
		result.ContractorsByDepartment[d] = model.NewSeries()
	}

	for _, e := range in.Employees {
		if _, err := datetime.ParseISODate(e.HireDate); err != nil {
			logger.Debug(fmt.Sprintf("employee %s has an unparseable hire date; using active=%t", e.Name, e.Active),
				zap.String("op", "payroll.Compute"),
			)
		}
		dept := departmentSeries(result.ByDepartment, e.Department)
		for m, label := range datetime.MonthAxis() {
			if !IsActive(e.HireDate, e.TerminationDate, e.Active, datetime.MonthStartAt(m)) {
				continue
			}
			pay := MonthlyPay(e, in.PayPeriodsFor(label))
			result.BasePay[m] += pay
			dept[m] += pay
			result.Headcount[m]++
		}
	}

	for _, b := range in.Bonuses {
		if m, ok := datetime.MonthIndex(b.Month); ok {
			result.Bonuses[m] += b.Amount
		}
	}

	for _, c := range in.Contractors {
		dept := departmentSeries(result.ContractorsByDepartment, c.Department)
		cost := ContractorMonthlyCost(c)
		for m := 0; m < constants.AxisMonths; m++ {
			if !IsActive(c.StartDate, c.EndDate, c.Active, datetime.MonthStartAt(m)) {
				continue
			}
			result.Contractors[m] += cost
			dept[m] += cost
			result.ContractorResources[m] += c.Resources
		}
	}

	rate := in.EffectiveTaxRate()
	for m := 0; m < constants.AxisMonths; m++ {
		result.BasePay[m] = mathutil.Round(result.BasePay[m])
		result.Bonuses[m] = mathutil.Round(result.Bonuses[m])
		result.Taxes[m] = mathutil.Round(mathutil.ApplyPercentage(result.BasePay[m]+result.Bonuses[m], rate))
		result.Personnel[m] = result.BasePay[m] + result.Bonuses[m] + result.Taxes[m]
		result.Contractors[m] = mathutil.Round(result.Contractors[m])
	}
	for _, rows := range []map[model.Department]model.Series{result.ByDepartment, result.ContractorsByDepartment} {
		for _, s := range rows {
			for m := range s {
				s[m] = mathutil.Round(s[m])
			}
		}
	}
	result.Total = result.Personnel.Plus(result.Contractors)

	logger.Debug(fmt.Sprintf("computed payroll for %d employees and %d contractors", len(in.Employees), len(in.Contractors)),
		zap.String("op", "payroll.Compute"),
		zap.Float64("taxRate", rate),
	)

	return result
}

// departmentSeries returns the rollup series for a department, adding one for
// records without a department.
func departmentSeries(rows map[model.Department]model.Series, d model.Department) model.Series {
	s, ok := rows[d]
	if !ok {
		s = model.NewSeries()
		rows[d] = s
	}
	return s
}

// Departments lists the rollup keys of a result in display order, with
// records lacking a department last.
func (r Result) Departments() []model.Department {
	departments := model.Departments()
	if _, ok := r.ByDepartment[""]; ok {
		return append(departments, "")
	}
	if _, ok := r.ContractorsByDepartment[""]; ok {
		return append(departments, "")
	}
	return departments
}
