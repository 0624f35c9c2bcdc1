package model

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewDocumentDefaults(t *testing.T) {
	doc := New(DefaultDefaults())

	if doc.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, expected %d", doc.SchemaVersion, CurrentSchemaVersion)
	}
	if len(doc.Revenue.Stakeholders) != 20 {
		t.Errorf("expected 20 default stakeholders, got %d", len(doc.Revenue.Stakeholders))
	}
	if doc.Revenue.Stakeholders[0] != "OEM" || doc.Revenue.Stakeholders[1] != "Dealership" {
		t.Errorf("unexpected leading stakeholders %v", doc.Revenue.Stakeholders[:2])
	}
	if doc.Payroll.EffectiveTaxRate() != 10 {
		t.Errorf("tax rate = %v, expected 10", doc.Payroll.EffectiveTaxRate())
	}
	if len(doc.Payroll.PayPeriods) != 72 || doc.Payroll.PayPeriodsFor("Jun 2027") != 2 {
		t.Errorf("pay periods not filled: %d entries", len(doc.Payroll.PayPeriods))
	}
	if doc.GrossProfit.GrossMargins.Get(StreamTransactional, "Jan 2025") != 70 {
		t.Errorf("gross margin default not filled")
	}
	if doc.GrossProfit.GrossMargins.Has(StreamSubscription, "Jan 2025") {
		t.Errorf("subscription margin should not be filled; its COGS come from hosting")
	}
	payroll, ok := doc.Liquidity.Category(PayrollCategory)
	if !ok || payroll.Editable || payroll.Link != LinkPayroll || payroll.Position != 0 {
		t.Errorf("payroll category = %+v, %v", payroll, ok)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	doc := &Document{}
	doc.Liquidity.ExpenseCategories = []ExpenseCategory{
		{Name: "Rent", Classification: ClassificationOpex},
		{Name: "Rent", Classification: ClassificationPersonnel},
	}
	doc.Liquidity.CategoryOrder = []string{"Rent", "Ghost"}
	doc.Hosting.GoLive = GoLiveSettings{Month: "Jul 2025", Capitalize: true}

	doc.Normalize(DefaultDefaults())
	first, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	notices := doc.Normalize(DefaultDefaults())
	second, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("second Normalize() changed the document")
	}
	if len(notices) != 0 {
		t.Errorf("second Normalize() reported notices: %v", notices)
	}
}

func TestNormalizeLegacyTaxRate(t *testing.T) {
	legacy := &Document{}
	notices := legacy.Normalize(DefaultDefaults())
	if legacy.Payroll.EffectiveTaxRate() != 23 {
		t.Errorf("legacy document tax rate = %v, expected 23", legacy.Payroll.EffectiveTaxRate())
	}
	if !containsNotice(notices, "legacy default") {
		t.Errorf("expected a legacy tax notice, got %v", notices)
	}

	current := &Document{SchemaVersion: CurrentSchemaVersion}
	current.Normalize(DefaultDefaults())
	if current.Payroll.EffectiveTaxRate() != 10 {
		t.Errorf("current document tax rate = %v, expected 10", current.Payroll.EffectiveTaxRate())
	}

	rate := 15.0
	explicit := &Document{}
	explicit.Payroll.TaxRate = &rate
	explicit.Normalize(DefaultDefaults())
	if explicit.Payroll.EffectiveTaxRate() != 15 {
		t.Errorf("explicit tax rate overwritten: %v", explicit.Payroll.EffectiveTaxRate())
	}

	custom := DefaultDefaults()
	custom.LegacyPayrollTaxRate = 30
	configured := &Document{}
	configured.Normalize(custom)
	if configured.Payroll.EffectiveTaxRate() != 30 {
		t.Errorf("configured legacy rate not applied: %v", configured.Payroll.EffectiveTaxRate())
	}
}

func TestNormalizeCategoryOrderSync(t *testing.T) {
	doc := &Document{SchemaVersion: CurrentSchemaVersion}
	doc.Liquidity.ExpenseCategories = []ExpenseCategory{
		{Name: "Rent", Classification: ClassificationOpex, Editable: true},
		{Name: "Marketing", Classification: ClassificationSalesMarketing, Editable: true},
		{Name: "Rent", Classification: ClassificationPersonnel},
		{Name: "Insurance"},
	}
	doc.Liquidity.CategoryOrder = []string{"Marketing", "Ghost", "Legacy Line", "Rent", "Marketing"}
	doc.Liquidity.Expenses = Grid{"Legacy Line": {"Jan 2025": 100}}

	notices := doc.Normalize(DefaultDefaults())

	expected := []string{"Marketing", "Legacy Line", "Rent", PayrollCategory, "Insurance"}
	if !reflect.DeepEqual(doc.Liquidity.CategoryOrder, expected) {
		t.Errorf("CategoryOrder = %v, expected %v", doc.Liquidity.CategoryOrder, expected)
	}
	for i, c := range doc.Liquidity.ExpenseCategories {
		if c.Name != expected[i] || c.Position != i {
			t.Errorf("category %d = %s@%d, expected %s@%d", i, c.Name, c.Position, expected[i], i)
		}
	}
	rent, _ := doc.Liquidity.Category("Rent")
	if rent.Classification != ClassificationOpex {
		t.Errorf("duplicate cleanup should keep the first Rent definition, got %s", rent.Classification)
	}
	insurance, _ := doc.Liquidity.Category("Insurance")
	if insurance.Classification != ClassificationOpex || !insurance.Editable {
		t.Errorf("unclassified category should default to editable Opex, got %+v", insurance)
	}

	for _, fragment := range []string{"duplicate expense category", "\"Ghost\"", "restored expense category \"Legacy Line\""} {
		if !containsNotice(notices, fragment) {
			t.Errorf("missing notice containing %q in %v", fragment, notices)
		}
	}
}

func TestNormalizeMergesStakeholders(t *testing.T) {
	doc := &Document{SchemaVersion: CurrentSchemaVersion}
	doc.Revenue.Stakeholders = []string{"OEM", "OEM", " ", "Dealership"}
	doc.Revenue.NewCustomers = Grid{"Zeta": {"Jan 2025": 1}, "Alpha": {"Jan 2025": 1}}
	doc.Revenue.TransactionalVolume = Grid{"Parts": {"Jan 2025": 1}}

	doc.Normalize(DefaultDefaults())

	expected := []string{"OEM", "Dealership", "Alpha", "Zeta"}
	if !reflect.DeepEqual(doc.Revenue.Stakeholders, expected) {
		t.Errorf("Stakeholders = %v, expected %v", doc.Revenue.Stakeholders, expected)
	}
	if !reflect.DeepEqual(doc.Revenue.TransactionalCategories, []string{"Parts"}) {
		t.Errorf("TransactionalCategories = %v", doc.Revenue.TransactionalCategories)
	}
}

func TestNormalizeGoLiveConsolidation(t *testing.T) {
	tests := []struct {
		name         string
		owner        GoLiveSettings
		mirror       GoLiveSettings
		expected     GoLiveSettings
		noticeSubstr string
	}{
		{
			name:     "Owner only",
			owner:    GoLiveSettings{Month: "Jul 2025", Capitalize: true},
			expected: GoLiveSettings{Month: "Jul 2025", Capitalize: true},
		},
		{
			name:         "Legacy mirror adopted",
			mirror:       GoLiveSettings{Month: "Mar 2026", Capitalize: true},
			expected:     GoLiveSettings{Month: "Mar 2026", Capitalize: true},
			noticeSubstr: "adopted go-live settings",
		},
		{
			name:         "Drift resolved in favour of owner",
			owner:        GoLiveSettings{Month: "Jul 2025", Capitalize: true},
			mirror:       GoLiveSettings{Month: "Jan 2026", Capitalize: false},
			expected:     GoLiveSettings{Month: "Jul 2025", Capitalize: true},
			noticeSubstr: "disagreed",
		},
		{
			name: "Neither set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{SchemaVersion: CurrentSchemaVersion}
			doc.Hosting.GoLive = tt.owner
			doc.GrossProfit.SaaSHosting.GoLive = tt.mirror

			notices := doc.Normalize(DefaultDefaults())

			if doc.Hosting.GoLive != tt.expected {
				t.Errorf("owner = %+v, expected %+v", doc.Hosting.GoLive, tt.expected)
			}
			if doc.GrossProfit.SaaSHosting.GoLive != tt.expected {
				t.Errorf("mirror = %+v, expected %+v", doc.GrossProfit.SaaSHosting.GoLive, tt.expected)
			}
			if tt.noticeSubstr != "" && !containsNotice(notices, tt.noticeSubstr) {
				t.Errorf("expected notice containing %q, got %v", tt.noticeSubstr, notices)
			}
			if tt.noticeSubstr == "" && len(notices) != 0 {
				t.Errorf("unexpected notices %v", notices)
			}
		})
	}
}

func TestNormalizeAssignsIDs(t *testing.T) {
	doc := &Document{SchemaVersion: CurrentSchemaVersion}
	doc.Payroll.Employees = []Employee{{Name: "Ada"}, {ID: "keep", Name: "Grace", PayType: PayTypeHourly}}
	doc.Payroll.Contractors = []Contractor{{Vendor: "Acme"}}

	doc.Normalize(DefaultDefaults())

	if doc.Payroll.Employees[0].ID == "" || doc.Payroll.Contractors[0].ID == "" {
		t.Errorf("missing ids were not assigned")
	}
	if doc.Payroll.Employees[1].ID != "keep" {
		t.Errorf("existing id replaced: %s", doc.Payroll.Employees[1].ID)
	}
	if doc.Payroll.Employees[0].PayType != PayTypeSalary || doc.Payroll.Employees[1].PayType != PayTypeHourly {
		t.Errorf("pay types = %s, %s", doc.Payroll.Employees[0].PayType, doc.Payroll.Employees[1].PayType)
	}
}

func containsNotice(notices []string, fragment string) bool {
	for _, n := range notices {
		if strings.Contains(n, fragment) {
			return true
		}
	}
	return false
}
