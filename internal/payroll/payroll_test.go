package payroll

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/testutil"
	"go.uber.org/zap"
)

func TestIsActive(t *testing.T) {
	march := datetime.MonthStartAt(2)

	tests := []struct {
		name     string
		start    string
		end      string
		active   bool
		expected bool
	}{
		{name: "Hired on the first", start: "2025-03-01", expected: true},
		{name: "Hired mid-month", start: "2025-03-15", expected: false},
		{name: "Hired earlier", start: "2024-06-01", expected: true},
		{name: "Terminated on the first", start: "2024-01-01", end: "2025-03-01", expected: false},
		{name: "Terminated mid-month", start: "2024-01-01", end: "2025-03-15", expected: true},
		{name: "Terminated earlier", start: "2024-01-01", end: "2025-02-28", expected: false},
		{name: "Bad start uses active flag", start: "03/01/2025", active: true, expected: true},
		{name: "Bad start inactive flag", start: "", active: false, expected: false},
		{name: "Bad end uses active flag", start: "2024-01-01", end: "soon", active: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(tt.start, tt.end, tt.active, march); got != tt.expected {
				t.Errorf("IsActive() = %t, expected %t", got, tt.expected)
			}
		})
	}
}

func TestMonthlyPay(t *testing.T) {
	tests := []struct {
		name     string
		employee model.Employee
		periods  int
		expected float64
	}{
		{
			name:     "Salary two periods",
			employee: model.Employee{PayType: model.PayTypeSalary, PayAmount: 130000},
			periods:  2,
			expected: 10000,
		},
		{
			name:     "Salary three periods",
			employee: model.Employee{PayType: model.PayTypeSalary, PayAmount: 130000},
			periods:  3,
			expected: 15000,
		},
		{
			name:     "Hourly",
			employee: model.Employee{PayType: model.PayTypeHourly, PayAmount: 50, WeeklyHours: 20},
			periods:  2,
			expected: 4330,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertClose(t, "MonthlyPay()", MonthlyPay(tt.employee, tt.periods), tt.expected)
		})
	}
}

func TestContractorMonthlyCost(t *testing.T) {
	got := ContractorMonthlyCost(model.Contractor{Resources: 2.5, HourlyRate: 60})
	if got != 24000 {
		t.Errorf("ContractorMonthlyCost() = %.2f, expected 24000", got)
	}
}

func TestCompute(t *testing.T) {
	rate := 10.0
	in := model.PayrollData{
		Employees: []model.Employee{
			{
				ID: "1", Name: "Ada", Department: model.DepartmentProductDevelopment,
				PayType: model.PayTypeSalary, PayAmount: 130000, HireDate: "2025-01-01",
				TerminationDate: "2025-03-01",
			},
			{
				ID: "2", Name: "Grace", Department: model.DepartmentSalesMarketing,
				PayType: model.PayTypeHourly, PayAmount: 50, WeeklyHours: 20, HireDate: "2025-02-01",
			},
		},
		Contractors: []model.Contractor{
			{ID: "c1", Vendor: "Acme", Department: model.DepartmentProductDevelopment, Resources: 2.5, HourlyRate: 60, StartDate: "2025-01-01", EndDate: "2025-02-01"},
		},
		Bonuses: []model.Bonus{
			{EmployeeName: "Ada", Amount: 1000, Month: "Jan 2025"},
			{EmployeeName: "Ghost", Amount: 500, Month: "Jan 2025"},
			{EmployeeName: "Ada", Amount: 700, Month: "not a month"},
		},
		PayPeriods: map[string]int{"Jan 2025": 3},
		TaxRate:    &rate,
	}

	result := Compute(zap.NewNop(), in)

	testutil.AssertClose(t, "base pay in Jan 2025", result.BasePay[0], 15000)
	testutil.AssertClose(t, "base pay in Feb 2025", result.BasePay[1], 14330)
	testutil.AssertClose(t, "base pay in Mar 2025", result.BasePay[2], 4330)
	testutil.AssertClose(t, "base pay in Dec 2030", result.BasePay.Last(), 4330)
	testutil.AssertClose(t, "bonuses in Jan 2025", result.Bonuses[0], 1500)
	testutil.AssertClose(t, "taxes in Jan 2025", result.Taxes[0], 1650)
	testutil.AssertClose(t, "personnel in Jan 2025", result.Personnel[0], 18150)
	testutil.AssertClose(t, "contractors in Jan 2025", result.Contractors[0], 24000)
	testutil.AssertClose(t, "contractors in Feb 2025", result.Contractors[1], 0)
	testutil.AssertClose(t, "total in Jan 2025", result.Total[0], 42150)

	testutil.AssertClose(t, "product development in Feb 2025", result.ByDepartment[model.DepartmentProductDevelopment][1], 10000)
	testutil.AssertClose(t, "sales and marketing in Feb 2025", result.ByDepartment[model.DepartmentSalesMarketing][1], 4330)
	testutil.AssertClose(t, "contractor product development in Jan 2025", result.ContractorsByDepartment[model.DepartmentProductDevelopment][0], 24000)

	testutil.AssertClose(t, "headcount in Feb 2025", result.Headcount[1], 2)
	testutil.AssertClose(t, "headcount in Mar 2025", result.Headcount[2], 1)
	testutil.AssertClose(t, "contractor resources in Jan 2025", result.ContractorResources[0], 2.5)

	if len(result.Departments()) != 3 {
		t.Errorf("Departments() = %v, expected the three fixed departments", result.Departments())
	}
}

func TestComputeFallsBackToActiveFlag(t *testing.T) {
	in := model.PayrollData{
		Employees: []model.Employee{
			{Name: "Flagged", PayAmount: 52000, HireDate: "unknown", Active: true},
			{Name: "Inactive", PayAmount: 52000, HireDate: "unknown", Active: false},
		},
	}

	result := Compute(nil, in)

	// Default pay periods and the default 10% tax rate apply.
	testutil.AssertClose(t, "base pay", result.BasePay[0], 4000)
	testutil.AssertClose(t, "base pay in Dec 2030", result.BasePay.Last(), 4000)
	testutil.AssertClose(t, "taxes", result.Taxes[0], 400)
	if _, ok := result.ByDepartment[""]; !ok {
		t.Errorf("employees without a department should roll up under an empty key")
	}
	if got := result.Departments(); len(got) != 4 || got[3] != "" {
		t.Errorf("Departments() = %v", got)
	}
}

func TestComputeEmpty(t *testing.T) {
	result := Compute(nil, model.PayrollData{})
	testutil.AssertSeries(t, "total", result.Total)
	testutil.AssertSeries(t, "headcount", result.Headcount)
}
