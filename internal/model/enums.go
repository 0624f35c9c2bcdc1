package model

import (
	"fmt"
	"strings"
)

// Department is the closed set of departments employees and contractors
// belong to.
type Department string

const (
	DepartmentProductDevelopment Department = "Product Development"
	DepartmentSalesMarketing     Department = "Sales and Marketing"
	DepartmentGeneralAdmin       Department = "General and Administrative"
)

// Departments lists every department in display order.
func Departments() []Department {
	return []Department{DepartmentProductDevelopment, DepartmentSalesMarketing, DepartmentGeneralAdmin}
}

// ParseDepartment resolves a department name, accepting the common short forms.
func ParseDepartment(s string) (Department, error) {
	switch normalizeEnum(s) {
	case "product development", "product", "engineering", "r&d":
		return DepartmentProductDevelopment, nil
	case "sales and marketing", "sales & marketing", "s&m", "sales":
		return DepartmentSalesMarketing, nil
	case "general and administrative", "general & administrative", "g&a", "admin":
		return DepartmentGeneralAdmin, nil
	}
	return "", fmt.Errorf("unknown department %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value is left unset.
func (d *Department) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDepartment(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Classification groups expense categories for reporting.
type Classification string

const (
	ClassificationPersonnel          Classification = "Personnel"
	ClassificationProductDevelopment Classification = "Product Development"
	ClassificationSalesMarketing     Classification = "Sales and Marketing"
	ClassificationOpex               Classification = "Opex"
)

// Classifications lists every classification in display order.
func Classifications() []Classification {
	return []Classification{
		ClassificationPersonnel,
		ClassificationProductDevelopment,
		ClassificationSalesMarketing,
		ClassificationOpex,
	}
}

// ParseClassification resolves a classification name.
func ParseClassification(s string) (Classification, error) {
	switch normalizeEnum(s) {
	case "personnel":
		return ClassificationPersonnel, nil
	case "product development":
		return ClassificationProductDevelopment, nil
	case "sales and marketing", "sales & marketing":
		return ClassificationSalesMarketing, nil
	case "opex", "operating expenses":
		return ClassificationOpex, nil
	}
	return "", fmt.Errorf("unknown classification %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value is left unset.
func (c *Classification) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*c = ""
		return nil
	}
	parsed, err := ParseClassification(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PayType selects how an employee's monthly pay is derived.
type PayType string

const (
	PayTypeSalary PayType = "Salary"
	PayTypeHourly PayType = "Hourly"
)

// ParsePayType resolves a pay type name.
func ParsePayType(s string) (PayType, error) {
	switch normalizeEnum(s) {
	case "salary", "salaried":
		return PayTypeSalary, nil
	case "hourly":
		return PayTypeHourly, nil
	}
	return "", fmt.Errorf("unknown pay type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value is left unset.
func (p *PayType) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*p = ""
		return nil
	}
	parsed, err := ParsePayType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Link ties an expense category to an engine output instead of entered values.
type Link string

const (
	LinkNone        Link = ""
	LinkPayroll     Link = "payroll"
	LinkContractors Link = "contractors"
	LinkHosting     Link = "hosting"
)

// Known reports whether the link names an engine output.
func (l Link) Known() bool {
	switch l {
	case LinkNone, LinkPayroll, LinkContractors, LinkHosting:
		return true
	}
	return false
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
