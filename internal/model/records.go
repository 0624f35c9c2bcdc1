package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when adding a record whose id is taken.
	ErrDuplicateID = errors.New("record id already exists")

	// ErrInvalidRecord is returned for records missing required fields.
	ErrInvalidRecord = errors.New("invalid record")
)

func newID() string {
	return uuid.New().String()
}

// AddEmployee appends an employee, assigning an id when none is set.
func (p *PayrollData) AddEmployee(e Employee) (Employee, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Employee{}, fmt.Errorf("%w: employee name is required", ErrInvalidRecord)
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if p.employeeIndex(e.ID) >= 0 {
		return Employee{}, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	if e.PayType == "" {
		e.PayType = PayTypeSalary
	}
	p.Employees = append(p.Employees, e)
	return e, nil
}

// UpdateEmployee replaces the employee with the same id.
func (p *PayrollData) UpdateEmployee(e Employee) error {
	idx := p.employeeIndex(e.ID)
	if idx < 0 {
		return fmt.Errorf("%w: employee %s", ErrNotFound, e.ID)
	}
	if e.PayType == "" {
		e.PayType = PayTypeSalary
	}
	p.Employees[idx] = e
	return nil
}

// RemoveEmployee deletes the employee with the given id.
func (p *PayrollData) RemoveEmployee(id string) error {
	idx := p.employeeIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: employee %s", ErrNotFound, id)
	}
	p.Employees = append(p.Employees[:idx], p.Employees[idx+1:]...)
	return nil
}

func (p *PayrollData) employeeIndex(id string) int {
	for i := range p.Employees {
		if p.Employees[i].ID == id {
			return i
		}
	}
	return -1
}

// AddContractor appends a contractor, assigning an id when none is set.
func (p *PayrollData) AddContractor(c Contractor) (Contractor, error) {
	if strings.TrimSpace(c.Vendor) == "" && strings.TrimSpace(c.Role) == "" {
		return Contractor{}, fmt.Errorf("%w: contractor vendor or role is required", ErrInvalidRecord)
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if p.contractorIndex(c.ID) >= 0 {
		return Contractor{}, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	p.Contractors = append(p.Contractors, c)
	return c, nil
}

// UpdateContractor replaces the contractor with the same id.
func (p *PayrollData) UpdateContractor(c Contractor) error {
	idx := p.contractorIndex(c.ID)
	if idx < 0 {
		return fmt.Errorf("%w: contractor %s", ErrNotFound, c.ID)
	}
	p.Contractors[idx] = c
	return nil
}

// RemoveContractor deletes the contractor with the given id.
func (p *PayrollData) RemoveContractor(id string) error {
	idx := p.contractorIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: contractor %s", ErrNotFound, id)
	}
	p.Contractors = append(p.Contractors[:idx], p.Contractors[idx+1:]...)
	return nil
}

func (p *PayrollData) contractorIndex(id string) int {
	for i := range p.Contractors {
		if p.Contractors[i].ID == id {
			return i
		}
	}
	return -1
}

// AddBonus records a bonus. The employee name is not checked against the
// employee list.
func (p *PayrollData) AddBonus(b Bonus) error {
	if _, ok := datetime.MonthIndex(b.Month); !ok {
		return fmt.Errorf("%w: bonus month %q is not on the month axis", ErrInvalidRecord, b.Month)
	}
	p.Bonuses = append(p.Bonuses, b)
	return nil
}
