package model

import "github.com/iwvelando/finance-dashboard/pkg/constants"

// Defaults are the values Normalize fills into a document.
type Defaults struct {
	PayrollTaxRate       float64
	LegacyPayrollTaxRate float64
	PayPeriodsPerMonth   int
	GrossMarginPct       float64
}

// DefaultDefaults returns the built-in normalization defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		PayrollTaxRate:       constants.DefaultPayrollTaxRate,
		LegacyPayrollTaxRate: constants.LegacyPayrollTaxRate,
		PayPeriodsPerMonth:   constants.DefaultPayPeriodsPerMonth,
		GrossMarginPct:       constants.DefaultGrossMarginPct,
	}
}

// DefaultStakeholders are the counterparties a new model starts with.
func DefaultStakeholders() []string {
	return []string{
		"OEM",
		"Dealership",
		"Fleet Operator",
		"Insurance Carrier",
		"Lender",
		"Rental Agency",
		"Auction House",
		"Repair Shop",
		"Parts Supplier",
		"Logistics Provider",
		"Telematics Provider",
		"Charging Network",
		"Municipality",
		"Parking Operator",
		"Rideshare Platform",
		"Subscription Service",
		"Leasing Company",
		"Data Aggregator",
		"Aftermarket Retailer",
		"Consumer",
	}
}

// PayrollCategory is the expense category fed by the payroll engine. It
// cannot be edited or removed.
const PayrollCategory = "Payroll"

// DefaultExpenseCategories are the cash-flow lines a new model starts with.
func DefaultExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		{Name: PayrollCategory, Classification: ClassificationPersonnel, Link: LinkPayroll},
		{Name: "Contractors", Classification: ClassificationProductDevelopment, Link: LinkContractors},
		{Name: "Hosting", Classification: ClassificationProductDevelopment, Link: LinkHosting},
		{Name: "Software and Tools", Classification: ClassificationProductDevelopment, Editable: true},
		{Name: "Marketing", Classification: ClassificationSalesMarketing, Editable: true},
		{Name: "Travel", Classification: ClassificationSalesMarketing, Editable: true},
		{Name: "Rent", Classification: ClassificationOpex, Editable: true},
		{Name: "Professional Services", Classification: ClassificationOpex, Editable: true},
		{Name: "Insurance", Classification: ClassificationOpex, Editable: true},
	}
}

// New returns a normalized empty document.
func New(defaults Defaults) *Document {
	doc := &Document{SchemaVersion: CurrentSchemaVersion}
	doc.Normalize(defaults)
	return doc
}
