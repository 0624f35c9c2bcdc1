// Package model defines the financial model document: the assumption tables
// users edit, the derived sections the engines write back, and the
// normalization that fills defaults once at load time.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentSchemaVersion is written to every normalized document. Documents
// without a version predate the explicit payroll tax rate.
const CurrentSchemaVersion = 2

// Section names of the persisted document.
const (
	SectionRevenue                   = "revenue"
	SectionPayroll                   = "payroll_data"
	SectionLiquidity                 = "liquidity_data"
	SectionHosting                   = "hosting_costs_data"
	SectionGrossProfit               = "gross_profit_data"
	SectionSubscriptionRunningTotals = "subscription_running_totals"
)

var (
	// ErrUnknownSection is returned for a section name the document does not have.
	ErrUnknownSection = errors.New("unknown section")

	// ErrReadOnlySection is returned when writing a section only the engines produce.
	ErrReadOnlySection = errors.New("section is derived and cannot be set")
)

// Document is the whole financial model.
type Document struct {
	SchemaVersion             int             `json:"schema_version"`
	Revenue                   RevenueData     `json:"revenue"`
	Payroll                   PayrollData     `json:"payroll_data"`
	Liquidity                 LiquidityData   `json:"liquidity_data"`
	Hosting                   HostingData     `json:"hosting_costs_data"`
	GrossProfit               GrossProfitData `json:"gross_profit_data"`
	SubscriptionRunningTotals Grid            `json:"subscription_running_totals"`
}

// RevenueData holds the revenue assumptions and the derived stream totals.
type RevenueData struct {
	Stakeholders        []string `json:"stakeholders"`
	NewCustomers        Grid     `json:"subscription_new_customers"`
	SubscriptionPrice   Grid     `json:"subscription_pricing"`
	ChurnRate           Grid     `json:"subscription_churn_rates"`
	ImplementationCount Grid     `json:"implementation_engagements"`
	ImplementationFee   Grid     `json:"implementation_fees"`
	MaintenanceCount    Grid     `json:"maintenance_contracts"`
	MaintenanceFee      Grid     `json:"maintenance_fees"`

	TransactionalCategories []string `json:"transactional_categories"`
	TransactionalVolume     Grid     `json:"transactional_volume"`
	TransactionalPrice      Grid     `json:"transactional_price"`
	ReferralFee             Grid     `json:"transactional_referral_fees"`

	// Streams is written by the revenue engine: stream -> month -> revenue.
	Streams Grid `json:"streams,omitempty"`
}

// Revenue stream names.
const (
	StreamSubscription   = "Subscription"
	StreamTransactional  = "Transactional"
	StreamImplementation = "Implementation"
	StreamMaintenance    = "Maintenance"
)

// RevenueStreams lists the four streams in display order.
func RevenueStreams() []string {
	return []string{StreamSubscription, StreamTransactional, StreamImplementation, StreamMaintenance}
}

// PayrollData holds employees, contractors and payroll settings.
type PayrollData struct {
	Employees   []Employee     `json:"employees"`
	Contractors []Contractor   `json:"contractors"`
	Bonuses     []Bonus        `json:"bonuses"`
	PayPeriods  map[string]int `json:"pay_periods"`
	TaxRate     *float64       `json:"payroll_tax_rate,omitempty"`
}

// Employee is a person on payroll.
type Employee struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Title           string     `json:"title"`
	Department      Department `json:"department"`
	PayType         PayType    `json:"pay_type"`
	PayAmount       float64    `json:"pay_amount"`
	WeeklyHours     float64    `json:"weekly_hours"`
	HireDate        string     `json:"hire_date"`
	TerminationDate string     `json:"termination_date,omitempty"`
	// Active is consulted only when the dates cannot be parsed.
	Active bool `json:"active"`
}

// Contractor is an outside resource billed by the hour.
type Contractor struct {
	ID         string     `json:"id"`
	Vendor     string     `json:"vendor"`
	Role       string     `json:"role"`
	Department Department `json:"department"`
	Resources  float64    `json:"resources"`
	HourlyRate float64    `json:"hourly_rate"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date,omitempty"`
	Active     bool       `json:"active"`
}

// Bonus is a one-off payment recorded by employee name and month label.
type Bonus struct {
	EmployeeName string  `json:"employee_name"`
	Amount       float64 `json:"amount"`
	Month        string  `json:"month"`
}

// HostingData holds the infrastructure cost structure.
type HostingData struct {
	// CostStructure is category -> service -> cost.
	CostStructure    map[string]map[string]ServiceCost `json:"cost_structure"`
	MonthlyOverrides map[string]float64                `json:"monthly_overrides"`
	GoLive           GoLiveSettings                    `json:"go_live_settings"`
}

// ServiceCost is the fixed monthly cost and per-active-customer cost of one service.
type ServiceCost struct {
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
}

// GoLiveSettings mark when hosting spend stops being capitalized.
type GoLiveSettings struct {
	Month      string `json:"go_live_month"`
	Capitalize bool   `json:"capitalize_pre_go_live"`
}

// IsZero reports whether no go-live settings were entered.
func (g GoLiveSettings) IsZero() bool {
	return g.Month == "" && !g.Capitalize
}

// FixedTotal sums the fixed monthly cost of every service.
func (h HostingData) FixedTotal() float64 {
	total := 0.0
	for _, services := range h.CostStructure {
		for _, cost := range services {
			total += cost.Fixed
		}
	}
	return total
}

// VariableTotal sums the per-customer cost of every service.
func (h HostingData) VariableTotal() float64 {
	total := 0.0
	for _, services := range h.CostStructure {
		for _, cost := range services {
			total += cost.Variable
		}
	}
	return total
}

// GrossProfitData holds margin assumptions.
type GrossProfitData struct {
	// GrossMargins is stream -> month -> margin percentage.
	GrossMargins            Grid                 `json:"gross_margins"`
	SubscriptionDirectCosts map[string]float64   `json:"subscription_direct_costs"`
	SaaSHosting             SaaSHostingStructure `json:"saas_hosting_structure"`
}

// SaaSHostingStructure mirrors the hosting go-live settings for the gross
// profit view. It is rewritten from HostingData.GoLive on normalization.
type SaaSHostingStructure struct {
	GoLive GoLiveSettings `json:"go_live_settings"`
}

// LiquidityData holds cash-flow assumptions.
type LiquidityData struct {
	StartingBalance   float64            `json:"starting_balance"`
	ExpenseCategories []ExpenseCategory  `json:"expense_categories"`
	CategoryOrder     []string           `json:"category_order"`
	Expenses          Grid               `json:"expenses"`
	Investment        map[string]float64 `json:"investment"`
	OtherReceipts     map[string]float64 `json:"other_receipts"`
	Sensitivity       Sensitivity        `json:"sensitivity"`
}

// ExpenseCategory is one outflow line of the cash-flow table.
type ExpenseCategory struct {
	Name           string         `json:"name"`
	Classification Classification `json:"classification"`
	Editable       bool           `json:"editable"`
	Link           Link           `json:"link,omitempty"`
	Position       int            `json:"position"`
}

// Sensitivity scales inflows and outflows from an effective month onward.
type Sensitivity struct {
	Enabled        bool    `json:"enabled"`
	EffectiveMonth string  `json:"effective_month"`
	InflowPct      float64 `json:"inflow_adjustment_pct"`
	OutflowPct     float64 `json:"outflow_adjustment_pct"`
}

// SectionNames lists the sections exposed by Section and SetSection.
func SectionNames() []string {
	return []string{
		SectionRevenue,
		SectionPayroll,
		SectionLiquidity,
		SectionHosting,
		SectionGrossProfit,
		SectionSubscriptionRunningTotals,
	}
}

// Section returns the named section.
func (d *Document) Section(name string) (interface{}, error) {
	switch name {
	case SectionRevenue:
		return d.Revenue, nil
	case SectionPayroll:
		return d.Payroll, nil
	case SectionLiquidity:
		return d.Liquidity, nil
	case SectionHosting:
		return d.Hosting, nil
	case SectionGrossProfit:
		return d.GrossProfit, nil
	case SectionSubscriptionRunningTotals:
		return d.SubscriptionRunningTotals, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
}

// SetSection replaces the named section with the JSON-encoded value in data.
// The replacement is whole-section; fields absent from data are reset.
func (d *Document) SetSection(name string, data []byte) error {
	var err error
	switch name {
	case SectionRevenue:
		var v RevenueData
		if err = json.Unmarshal(data, &v); err == nil {
			d.Revenue = v
		}
	case SectionPayroll:
		var v PayrollData
		if err = json.Unmarshal(data, &v); err == nil {
			d.Payroll = v
		}
	case SectionLiquidity:
		var v LiquidityData
		if err = json.Unmarshal(data, &v); err == nil {
			d.Liquidity = v
		}
	case SectionHosting:
		var v HostingData
		if err = json.Unmarshal(data, &v); err == nil {
			d.Hosting = v
		}
	case SectionGrossProfit:
		var v GrossProfitData
		if err = json.Unmarshal(data, &v); err == nil {
			d.GrossProfit = v
		}
	case SectionSubscriptionRunningTotals:
		return fmt.Errorf("%w: %s", ErrReadOnlySection, name)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	if err != nil {
		return fmt.Errorf("failed to decode section %s: %w", name, err)
	}
	return nil
}

// Decode parses a JSON document. An empty input yields a new document at the
// current schema version.
func Decode(data []byte) (*Document, error) {
	if len(data) == 0 {
		return &Document{SchemaVersion: CurrentSchemaVersion}, nil
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode model document: %w", err)
	}
	return doc, nil
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to copy model document: %w", err)
	}
	return Decode(data)
}
