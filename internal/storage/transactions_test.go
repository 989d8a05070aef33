package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)

	txn := mustCreateTransaction(t, store, "owner1", cat, "2024-03-01", 19.99, "weekly shop", model.TransactionTypeExpense)
	assert.True(t, IsWellFormedID(txn.ID))
	assert.False(t, txn.CreatedAt.IsZero())

	retrieved, err := store.GetTransactionByID(ctx, txn.ID, "owner1")
	require.NoError(t, err)
	assert.Equal(t, "weekly shop", retrieved.Description)
	assert.Equal(t, cat.ID, retrieved.CategoryID)
	assert.Equal(t, "Groceries", retrieved.CategoryName)
	assert.True(t, decimal.RequireFromString("19.99").Equal(retrieved.Amount))
}

func TestGetTransactionByIDScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	txn := mustCreateTransaction(t, store, "owner1", cat, "2024-03-01", 10, "shop", model.TransactionTypeExpense)

	_, err := store.GetTransactionByID(ctx, txn.ID, "owner2")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes updated at", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
		txn := mustCreateTransaction(t, store, "owner1", cat, "2024-03-01", 10, "shop", model.TransactionTypeExpense)

		time.Sleep(1100 * time.Millisecond)
		txn.Description = "big shop"
		txn.Amount = decimal.RequireFromString("42.50")
		require.NoError(t, store.UpdateTransaction(ctx, txn))

		retrieved, err := store.GetTransactionByID(ctx, txn.ID, "owner1")
		require.NoError(t, err)
		assert.Equal(t, "big shop", retrieved.Description)
		assert.True(t, decimal.RequireFromString("42.50").Equal(retrieved.Amount))
		assert.True(t, retrieved.UpdatedAt.After(retrieved.CreatedAt))
	})

	t.Run("not owned is not found", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
		txn := mustCreateTransaction(t, store, "owner1", cat, "2024-03-01", 10, "shop", model.TransactionTypeExpense)

		txn.OwnerID = "owner2"
		err := store.UpdateTransaction(ctx, txn)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	txn := mustCreateTransaction(t, store, "owner1", cat, "2024-03-01", 10, "shop", model.TransactionTypeExpense)

	deleted, err := store.DeleteTransaction(ctx, txn.ID, "owner2")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteTransaction(ctx, txn.ID, "owner1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestQueryTransactions(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	groceries := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	salary := mustCreateCategory(t, store, "owner1", "Salary", "salary", model.CategoryTypeIncome)

	mustCreateTransaction(t, store, "owner1", groceries, "2024-03-01", 50, "market run", model.TransactionTypeExpense)
	mustCreateTransaction(t, store, "owner1", groceries, "2024-03-05", 25, "corner shop", model.TransactionTypeExpense)
	mustCreateTransaction(t, store, "owner1", salary, "2024-03-02", 200, "march salary", model.TransactionTypeIncome)
	mustCreateTransaction(t, store, "owner2", groceries, "2024-03-03", 99, "not mine", model.TransactionTypeExpense)

	defaultSort := service.SortOrder{Field: "date", Desc: true}
	page := service.Page{Number: 1, Size: 10}

	t.Run("scoped to owner", func(t *testing.T) {
		txns, total, err := store.QueryTransactions(ctx, "owner1", service.TransactionFilter{}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, txns, 3)
	})

	t.Run("default sort is date descending", func(t *testing.T) {
		txns, _, err := store.QueryTransactions(ctx, "owner1", service.TransactionFilter{}, defaultSort, page)
		require.NoError(t, err)
		require.Len(t, txns, 3)
		assert.Equal(t, "corner shop", txns[0].Description)
		assert.Equal(t, "march salary", txns[1].Description)
		assert.Equal(t, "market run", txns[2].Description)
	})

	t.Run("filter by type", func(t *testing.T) {
		txns, total, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{Type: model.TransactionTypeIncome}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, txns, 1)
		assert.Equal(t, "march salary", txns[0].Description)
	})

	t.Run("category filter by id", func(t *testing.T) {
		txns, total, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{Category: groceries.ID}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, txns, 2)
	})

	t.Run("category filter by name substring", func(t *testing.T) {
		txns, total, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{Category: "grocer"}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, txns, 2)
	})

	t.Run("date range includes whole end day", func(t *testing.T) {
		from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		txns, total, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{DateFrom: &from, DateTo: &to}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, txns, 2)
		assert.Equal(t, "corner shop", txns[0].Description)
		assert.Equal(t, "march salary", txns[1].Description)
	})

	t.Run("description search", func(t *testing.T) {
		txns, total, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{Search: "salary"}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, txns, 1)
	})

	t.Run("search wildcards are literal", func(t *testing.T) {
		_, total, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{Search: "%"}, defaultSort, page)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("sort by amount ascending", func(t *testing.T) {
		txns, _, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{}, service.SortOrder{Field: "amount"}, page)
		require.NoError(t, err)
		require.Len(t, txns, 3)
		assert.Equal(t, "corner shop", txns[0].Description)
		assert.Equal(t, "market run", txns[1].Description)
		assert.Equal(t, "march salary", txns[2].Description)
	})

	t.Run("unknown sort field falls back to date", func(t *testing.T) {
		txns, _, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{}, service.SortOrder{Field: "evil; DROP TABLE"}, page)
		require.NoError(t, err)
		require.Len(t, txns, 3)
	})

	t.Run("invalid page is rejected", func(t *testing.T) {
		_, _, err := store.QueryTransactions(ctx, "owner1",
			service.TransactionFilter{}, defaultSort, service.Page{Number: 0, Size: 10})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})
}

func TestQueryTransactionsPagination(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat := mustCreateCategory(t, store, "owner1", "Groceries", "groceries", model.CategoryTypeExpense)
	for day := 1; day <= 7; day++ {
		date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		mustCreateTransaction(t, store, "owner1", cat, date, float64(day), "shop", model.TransactionTypeExpense)
	}

	sort := service.SortOrder{Field: "date", Desc: true}

	// Concatenating pages walks every row exactly once.
	var seen []string
	for pageNum := 1; pageNum <= 3; pageNum++ {
		txns, total, err := store.QueryTransactions(ctx, "owner1", service.TransactionFilter{}, sort,
			service.Page{Number: pageNum, Size: 3})
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		for _, txn := range txns {
			seen = append(seen, txn.ID)
		}
	}

	require.Len(t, seen, 7)
	unique := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		unique[id] = struct{}{}
	}
	assert.Len(t, unique, 7)
}
