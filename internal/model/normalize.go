package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
)

// Normalize fills defaults and repairs drift so the engines can assume a
// complete document. It is idempotent and returns a notice for every repair
// that changed user data.
func (d *Document) Normalize(defaults Defaults) []string {
	var notices []string

	legacy := d.SchemaVersion < CurrentSchemaVersion

	d.Revenue.normalize()
	notices = append(notices, d.Payroll.normalize(defaults, legacy)...)
	notices = append(notices, d.Liquidity.normalize()...)
	d.Hosting.normalize()
	d.GrossProfit.normalize(defaults)
	notices = append(notices, d.consolidateGoLive()...)

	if d.SubscriptionRunningTotals == nil {
		d.SubscriptionRunningTotals = make(Grid)
	}
	d.SchemaVersion = CurrentSchemaVersion

	return notices
}

func (r *RevenueData) normalize() {
	for _, g := range []*Grid{
		&r.NewCustomers, &r.SubscriptionPrice, &r.ChurnRate,
		&r.ImplementationCount, &r.ImplementationFee,
		&r.MaintenanceCount, &r.MaintenanceFee,
		&r.TransactionalVolume, &r.TransactionalPrice, &r.ReferralFee,
		&r.Streams,
	} {
		if *g == nil {
			*g = make(Grid)
		}
	}

	if len(r.Stakeholders) == 0 {
		r.Stakeholders = DefaultStakeholders()
	}
	r.Stakeholders = MergeNames(r.Stakeholders,
		r.NewCustomers, r.SubscriptionPrice, r.ChurnRate,
		r.ImplementationCount, r.ImplementationFee,
		r.MaintenanceCount, r.MaintenanceFee,
	)
	r.TransactionalCategories = MergeNames(r.TransactionalCategories,
		r.TransactionalVolume, r.TransactionalPrice, r.ReferralFee,
	)
}

// MergeNames dedupes names in order and appends, sorted, any grid category
// the list is missing.
func MergeNames(names []string, grids ...Grid) []string {
	seen := make(map[string]bool, len(names))
	merged := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		merged = append(merged, name)
	}
	var extra []string
	for _, g := range grids {
		for category := range g {
			if !seen[category] {
				seen[category] = true
				extra = append(extra, category)
			}
		}
	}
	sort.Strings(extra)
	return append(merged, extra...)
}

func (p *PayrollData) normalize(defaults Defaults, legacy bool) []string {
	var notices []string

	if p.Employees == nil {
		p.Employees = []Employee{}
	}
	if p.Contractors == nil {
		p.Contractors = []Contractor{}
	}
	if p.Bonuses == nil {
		p.Bonuses = []Bonus{}
	}

	for i := range p.Employees {
		if p.Employees[i].ID == "" {
			p.Employees[i].ID = newID()
		}
		if p.Employees[i].PayType == "" {
			p.Employees[i].PayType = PayTypeSalary
		}
	}
	for i := range p.Contractors {
		if p.Contractors[i].ID == "" {
			p.Contractors[i].ID = newID()
		}
	}

	if p.PayPeriods == nil {
		p.PayPeriods = make(map[string]int)
	}
	periods := defaults.PayPeriodsPerMonth
	if periods <= 0 {
		periods = DefaultDefaults().PayPeriodsPerMonth
	}
	for _, label := range datetime.MonthAxis() {
		if _, ok := p.PayPeriods[label]; !ok {
			p.PayPeriods[label] = periods
		}
	}

	if p.TaxRate == nil {
		rate := defaults.PayrollTaxRate
		if legacy {
			rate = defaults.LegacyPayrollTaxRate
			notices = append(notices, fmt.Sprintf("payroll tax rate was not stored; applied legacy default of %.2f%%", rate))
		}
		p.TaxRate = &rate
	}

	return notices
}

// PayPeriodsFor returns the number of salary pay periods in a month.
func (p PayrollData) PayPeriodsFor(month string) int {
	if n, ok := p.PayPeriods[month]; ok {
		return n
	}
	return DefaultDefaults().PayPeriodsPerMonth
}

// EffectiveTaxRate returns the payroll tax percentage.
func (p PayrollData) EffectiveTaxRate() float64 {
	if p.TaxRate == nil {
		return DefaultDefaults().PayrollTaxRate
	}
	return *p.TaxRate
}

func (l *LiquidityData) normalize() []string {
	var notices []string

	if l.Expenses == nil {
		l.Expenses = make(Grid)
	}
	if l.Investment == nil {
		l.Investment = make(map[string]float64)
	}
	if l.OtherReceipts == nil {
		l.OtherReceipts = make(map[string]float64)
	}
	if len(l.ExpenseCategories) == 0 && len(l.CategoryOrder) == 0 {
		l.ExpenseCategories = DefaultExpenseCategories()
	}

	// Duplicate names: the first definition wins.
	seen := make(map[string]bool)
	categories := make([]ExpenseCategory, 0, len(l.ExpenseCategories))
	for _, c := range l.ExpenseCategories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		if seen[c.Name] {
			notices = append(notices, fmt.Sprintf("removed duplicate expense category %q", c.Name))
			continue
		}
		seen[c.Name] = true
		categories = append(categories, c)
	}

	if !seen[PayrollCategory] {
		categories = append([]ExpenseCategory{{Name: PayrollCategory}}, categories...)
		seen[PayrollCategory] = true
	}
	for i := range categories {
		if categories[i].Name == PayrollCategory {
			categories[i].Link = LinkPayroll
			categories[i].Classification = ClassificationPersonnel
		}
		if categories[i].Classification == "" {
			categories[i].Classification = ClassificationOpex
		}
		categories[i].Editable = categories[i].Link == LinkNone
	}

	// Order entries without a definition are restored when expenses were
	// entered for them and dropped otherwise. Categories missing from the
	// order are appended in definition order.
	byName := make(map[string]ExpenseCategory, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}
	ordered := make([]string, 0, len(categories))
	placed := make(map[string]bool)
	for _, name := range l.CategoryOrder {
		name = strings.TrimSpace(name)
		if _, ok := byName[name]; !ok {
			if _, hasData := l.Expenses[name]; !hasData {
				notices = append(notices, fmt.Sprintf("dropped unknown category %q from category order", name))
				continue
			}
			byName[name] = ExpenseCategory{Name: name, Classification: ClassificationOpex, Editable: true}
			notices = append(notices, fmt.Sprintf("restored expense category %q from category order", name))
		}
		if placed[name] {
			continue
		}
		placed[name] = true
		ordered = append(ordered, name)
	}
	for _, c := range categories {
		if !placed[c.Name] {
			placed[c.Name] = true
			ordered = append(ordered, c.Name)
		}
	}

	l.CategoryOrder = ordered
	l.ExpenseCategories = make([]ExpenseCategory, 0, len(ordered))
	for pos, name := range ordered {
		c := byName[name]
		c.Position = pos
		l.ExpenseCategories = append(l.ExpenseCategories, c)
	}

	return notices
}

// Category returns the expense category with the given name.
func (l LiquidityData) Category(name string) (ExpenseCategory, bool) {
	for _, c := range l.ExpenseCategories {
		if c.Name == name {
			return c, true
		}
	}
	return ExpenseCategory{}, false
}

func (h *HostingData) normalize() {
	if h.CostStructure == nil {
		h.CostStructure = make(map[string]map[string]ServiceCost)
	}
	for category, services := range h.CostStructure {
		if services == nil {
			h.CostStructure[category] = make(map[string]ServiceCost)
		}
	}
	if h.MonthlyOverrides == nil {
		h.MonthlyOverrides = make(map[string]float64)
	}
}

func (g *GrossProfitData) normalize(defaults Defaults) {
	if g.GrossMargins == nil {
		g.GrossMargins = make(Grid)
	}
	if g.SubscriptionDirectCosts == nil {
		g.SubscriptionDirectCosts = make(map[string]float64)
	}
	for _, stream := range RevenueStreams() {
		if stream == StreamSubscription {
			continue
		}
		for _, label := range datetime.MonthAxis() {
			if !g.GrossMargins.Has(stream, label) {
				g.GrossMargins.Set(stream, label, defaults.GrossMarginPct)
			}
		}
	}
}

// consolidateGoLive makes the hosting section the single owner of the go-live
// settings and rewrites the gross-profit copy as a mirror of it.
func (d *Document) consolidateGoLive() []string {
	var notices []string
	owner := d.Hosting.GoLive
	mirror := d.GrossProfit.SaaSHosting.GoLive

	switch {
	case owner.IsZero() && !mirror.IsZero():
		d.Hosting.GoLive = mirror
		notices = append(notices, "adopted go-live settings from gross profit data")
	case !owner.IsZero() && !mirror.IsZero() && owner != mirror:
		notices = append(notices, fmt.Sprintf(
			"go-live settings disagreed (hosting: %s capitalize=%t, gross profit: %s capitalize=%t); kept hosting settings",
			owner.Month, owner.Capitalize, mirror.Month, mirror.Capitalize))
	}

	d.GrossProfit.SaaSHosting.GoLive = d.Hosting.GoLive
	return notices
}
