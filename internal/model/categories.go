package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateCategory is returned when adding an expense category whose name is taken.
	ErrDuplicateCategory = errors.New("expense category already exists")

	// ErrProtectedCategory is returned when removing the payroll category.
	ErrProtectedCategory = errors.New("expense category cannot be removed")
)

// AddExpenseCategory appends a category to the end of the category order.
func (l *LiquidityData) AddExpenseCategory(c ExpenseCategory) (ExpenseCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ExpenseCategory{}, fmt.Errorf("%w: category name is required", ErrInvalidRecord)
	}
	if _, exists := l.Category(c.Name); exists {
		return ExpenseCategory{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, c.Name)
	}
	if !c.Link.Known() {
		return ExpenseCategory{}, fmt.Errorf("%w: unknown link %q", ErrInvalidRecord, c.Link)
	}
	if c.Link == LinkPayroll {
		return ExpenseCategory{}, fmt.Errorf("%w: only %s may link to payroll", ErrInvalidRecord, PayrollCategory)
	}
	if c.Classification == "" {
		c.Classification = ClassificationOpex
	}
	c.Editable = c.Link == LinkNone
	c.Position = len(l.CategoryOrder)
	l.ExpenseCategories = append(l.ExpenseCategories, c)
	l.CategoryOrder = append(l.CategoryOrder, c.Name)
	return c, nil
}

// RemoveExpenseCategory deletes a category, its order entry and its entered expenses.
func (l *LiquidityData) RemoveExpenseCategory(name string) error {
	if name == PayrollCategory {
		return fmt.Errorf("%w: %s", ErrProtectedCategory, name)
	}
	idx := -1
	for i, c := range l.ExpenseCategories {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: expense category %s", ErrNotFound, name)
	}
	l.ExpenseCategories = append(l.ExpenseCategories[:idx], l.ExpenseCategories[idx+1:]...)

	order := l.CategoryOrder[:0]
	for _, n := range l.CategoryOrder {
		if n != name {
			order = append(order, n)
		}
	}
	l.CategoryOrder = order
	l.Expenses.Delete(name)
	l.reposition()
	return nil
}

// ReorderCategories replaces the category order. order must name every
// category exactly once.
func (l *LiquidityData) ReorderCategories(order []string) error {
	if len(order) != len(l.ExpenseCategories) {
		return fmt.Errorf("%w: order lists %d categories, model has %d", ErrInvalidRecord, len(order), len(l.ExpenseCategories))
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := l.Category(name); !ok {
			return fmt.Errorf("%w: expense category %s", ErrNotFound, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidRecord, name)
		}
		seen[name] = true
	}
	l.CategoryOrder = append([]string(nil), order...)
	l.reposition()
	return nil
}

// reposition sorts the category list by the order and rewrites positions.
func (l *LiquidityData) reposition() {
	byName := make(map[string]ExpenseCategory, len(l.ExpenseCategories))
	for _, c := range l.ExpenseCategories {
		byName[c.Name] = c
	}
	categories := make([]ExpenseCategory, 0, len(l.CategoryOrder))
	for pos, name := range l.CategoryOrder {
		c, ok := byName[name]
		if !ok {
			continue
		}
		c.Position = pos
		categories = append(categories, c)
	}
	l.ExpenseCategories = categories
}
