package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/model"
)

func marchWindow() (time.Time, time.Time) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}

func seedReportData(t *testing.T, store *SQLiteStorage) {
	t.Helper()
	groceries := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	salary := mustCreateCategory(t, store, "owner1", "Salary", "salary", model.CategoryTypeIncome)

	mustCreateTransaction(t, store, "owner1", groceries, "2024-03-01", 50, "market run", model.TransactionTypeExpense)
	mustCreateTransaction(t, store, "owner1", salary, "2024-03-02", 200, "march salary", model.TransactionTypeIncome)
	mustCreateTransaction(t, store, "owner1", groceries, "2024-03-02", 30, "corner shop", model.TransactionTypeExpense)
	mustCreateTransaction(t, store, "owner2", groceries, "2024-03-02", 999, "not mine", model.TransactionTypeExpense)
}

func TestSumByType(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	from, to := marchWindow()
	totals, err := store.SumByType(ctx, "owner1", from, to)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, model.TransactionTypeExpense, totals[0].Type)
	assert.True(t, decimal.NewFromInt(80).Equal(totals[0].Total), "expense total: %s", totals[0].Total)
	assert.Equal(t, model.TransactionTypeIncome, totals[1].Type)
	assert.True(t, decimal.NewFromInt(200).Equal(totals[1].Total), "income total: %s", totals[1].Total)
}

func TestSumByCategory(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	from, to := marchWindow()
	totals, err := store.SumByCategory(ctx, "owner1", from, to)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "Groceries", totals[0].CategoryName)
	assert.Equal(t, model.TransactionTypeExpense, totals[0].Type)
	assert.True(t, decimal.NewFromInt(80).Equal(totals[0].Total))
	assert.Equal(t, "Salary", totals[1].CategoryName)
	assert.Equal(t, model.TransactionTypeIncome, totals[1].Type)
	assert.True(t, decimal.NewFromInt(200).Equal(totals[1].Total))
}

func TestSumByCategoryGroupsOnSnapshotName(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	mustCreateTransaction(t, store, "owner1", cat, "2024-03-01", 50, "before rename", model.TransactionTypeExpense)

	// Renaming the category does not rewrite the snapshot on old rows.
	cat.Name = "Food"
	cat.Slug = "food"
	require.NoError(t, store.UpdateCategory(ctx, cat))
	mustCreateTransaction(t, store, "owner1", cat, "2024-03-02", 30, "after rename", model.TransactionTypeExpense)

	from, to := marchWindow()
	totals, err := store.SumByCategory(ctx, "owner1", from, to)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Food", totals[0].CategoryName)
	assert.Equal(t, "Groceries", totals[1].CategoryName)
}

func TestSumByDay(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	from, to := marchWindow()
	buckets, err := store.SumByDay(ctx, "owner1", from, to)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-03-01", buckets[0].Date)
	assert.True(t, buckets[0].Income.IsZero())
	assert.True(t, decimal.NewFromInt(50).Equal(buckets[0].Expense))

	// A day with both income and expense carries both sub-totals.
	assert.Equal(t, "2024-03-02", buckets[1].Date)
	assert.True(t, decimal.NewFromInt(200).Equal(buckets[1].Income))
	assert.True(t, decimal.NewFromInt(30).Equal(buckets[1].Expense))
}

func TestSumByDayForType(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	from, to := marchWindow()

	income, err := store.SumByDayForType(ctx, "owner1", model.TransactionTypeIncome, from, to)
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "2024-03-02", income[0].Date)
	assert.True(t, decimal.NewFromInt(200).Equal(income[0].Total))

	expense, err := store.SumByDayForType(ctx, "owner1", model.TransactionTypeExpense, from, to)
	require.NoError(t, err)
	require.Len(t, expense, 2)
	assert.Equal(t, "2024-03-01", expense[0].Date)
	assert.Equal(t, "2024-03-02", expense[1].Date)
}

func TestTypeTotalsMatchCategoryTotals(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	from, to := marchWindow()
	byType, err := store.SumByType(ctx, "owner1", from, to)
	require.NoError(t, err)
	byCategory, err := store.SumByCategory(ctx, "owner1", from, to)
	require.NoError(t, err)

	regrouped := make(map[model.TransactionType]decimal.Decimal)
	for _, ct := range byCategory {
		regrouped[ct.Type] = regrouped[ct.Type].Add(ct.Total)
	}
	for _, tt := range byType {
		assert.True(t, tt.Total.Equal(regrouped[tt.Type]),
			"%s: byType %s != byCategory %s", tt.Type, tt.Total, regrouped[tt.Type])
	}
}

func TestReportsRejectInvertedRange(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	from, to := marchWindow()
	_, err := store.SumByType(ctx, "owner1", to, from)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestReportsExcludeOutOfRangeRows(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	mustCreateTransaction(t, store, "owner1", cat, "2024-02-29", 10, "february", model.TransactionTypeExpense)
	mustCreateTransaction(t, store, "owner1", cat, "2024-03-15", 20, "march", model.TransactionTypeExpense)
	mustCreateTransaction(t, store, "owner1", cat, "2024-04-01", 30, "april", model.TransactionTypeExpense)

	from, to := marchWindow()
	totals, err := store.SumByType(ctx, "owner1", from, to)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(totals[0].Total))
}
