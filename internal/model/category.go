// Package model defines the core domain models used throughout the application.
package model

import "time"

// CategoryType indicates whether a category tracks income or expenses.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// SystemOwnerID is the owner scope that shared default categories live
// under. Default categories are visible to every owner and are never
// mutated on behalf of a single owner.
const SystemOwnerID = ""

// Category represents a spending or income category. The (OwnerID, Slug)
// pair is unique; a default category and an owned category may share a
// slug because they live under different owner scopes.
type Category struct {
	CreatedAt time.Time    `json:"createdAt"`
	ID        string       `json:"id"`
	OwnerID   string       `json:"ownerId"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Type      CategoryType `json:"type"`
}

// IsDefault reports whether the category belongs to the shared system scope.
func (c *Category) IsDefault() bool {
	return c.OwnerID == SystemOwnerID
}

// VisibleTo reports whether ownerID may reference this category.
func (c *Category) VisibleTo(ownerID string) bool {
	return c.IsDefault() || c.OwnerID == ownerID
}

// DefaultCatalog is the fixed set of categories seeded for a new owner.
// Seeding is idempotent: entries whose slug already exists in the target
// scope are skipped.
var DefaultCatalog = []Category{
	{Name: "Salary", Slug: "salary", Type: CategoryTypeIncome},
	{Name: "Groceries", Slug: "groceries", Type: CategoryTypeExpense},
	{Name: "Utilities", Slug: "utilities", Type: CategoryTypeExpense},
	{Name: "Entertainment", Slug: "entertainment", Type: CategoryTypeExpense},
	{Name: "Transport", Slug: "transport", Type: CategoryTypeExpense},
	{Name: "Miscellaneous", Slug: "miscellaneous", Type: CategoryTypeExpense},
}
