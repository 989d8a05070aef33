// Package service defines the contracts between the core engine and its
// collaborators.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Category matches the category id exactly when it is a well-formed id,
// otherwise it is a case-insensitive substring match on the denormalized
// category name. DateTo is extended to end-of-day by the store.
type TransactionFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Type     model.TransactionType
	Category string
	Search   string
}

// SortOrder describes a single sort key for transaction queries.
type SortOrder struct {
	Field string
	Desc  bool
}

// ParseSortOrder parses a "field:direction" pair. Direction defaults to
// ascending unless it is "desc". An empty spec yields the default order,
// date descending.
func ParseSortOrder(spec string) SortOrder {
	if spec == "" {
		return SortOrder{Field: "date", Desc: true}
	}

	field, direction, _ := strings.Cut(spec, ":")
	return SortOrder{Field: field, Desc: direction == "desc"}
}

// Page describes a 1-indexed pagination window.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Category operations
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryBySlug(ctx context.Context, ownerID, slug string) (*model.Category, error)
	ListVisibleCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	ListCategorySlugs(ctx context.Context, ownerID string) ([]string, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id, ownerID string) (bool, error)
	SeedDefaultCategories(ctx context.Context, ownerID string) error

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id, ownerID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id, ownerID string) (bool, error)
	QueryTransactions(ctx context.Context, ownerID string, filter TransactionFilter, sort SortOrder, page Page) ([]model.Transaction, int, error)

	// Grouped-sum aggregation over a date-bounded, owner-scoped set
	SumByType(ctx context.Context, ownerID string, from, to time.Time) ([]model.TypeTotal, error)
	SumByCategory(ctx context.Context, ownerID string, from, to time.Time) ([]model.CategoryTotal, error)
	SumByDay(ctx context.Context, ownerID string, from, to time.Time) ([]model.DayBucket, error)
	SumByDayForType(ctx context.Context, ownerID string, txnType model.TransactionType, from, to time.Time) ([]model.SeriesPoint, error)

	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}
