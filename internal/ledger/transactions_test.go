package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
)

func mustRecordTransaction(t *testing.T, ldg *Ledger, ownerID string, ref CategoryRef, date string, amount float64, description string) *model.Transaction {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	txn, err := ldg.CreateTransaction(context.Background(), ownerID, TransactionInput{
		Date:        day,
		Amount:      decimal.NewFromFloat(amount),
		Description: description,
		Category:    ref,
		Type:        model.TransactionTypeExpense,
	})
	require.NoError(t, err)
	return txn
}

func TestCreateTransactionDenormalizesCategory(t *testing.T) {
	ctx := context.Background()
	ldg, _ := createTestLedger(t)

	txn, err := ldg.CreateTransaction(ctx, "owner1", TransactionInput{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(50),
		Description: "market run",
		Category:    CategoryRef{Name: "Groceries"},
		Type:        model.TransactionTypeExpense,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, txn.CategoryID)
	assert.Equal(t, "Groceries", txn.CategoryName)
	assert.Equal(t, model.PriorityMedium, txn.Priority, "priority defaults to medium")
}

func TestCreateTransactionRequiresCategory(t *testing.T) {
	ctx := context.Background()
	ldg, _ := createTestLedger(t)

	_, err := ldg.CreateTransaction(ctx, "owner1", TransactionInput{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(50),
		Description: "market run",
		Type:        model.TransactionTypeExpense,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateTransactionReusesProvisionedCategory(t *testing.T) {
	ctx := context.Background()
	ldg, store := createTestLedger(t)

	first := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "Groceries"}, "2024-03-01", 50, "market run")
	second := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "groceries!!"}, "2024-03-02", 25, "corner shop")
	assert.Equal(t, first.CategoryID, second.CategoryID)

	// Exactly one category was created for both spellings.
	slugs, err := store.ListCategorySlugs(ctx, "owner1")
	require.NoError(t, err)
	assert.Len(t, slugs, 1)
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("patches only the given fields", func(t *testing.T) {
		ldg, _ := createTestLedger(t)

		txn := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "Groceries"}, "2024-03-01", 50, "market run")

		amount := decimal.RequireFromString("42.50")
		updated, err := ldg.UpdateTransaction(ctx, "owner1", txn.ID, TransactionPatch{Amount: &amount})
		require.NoError(t, err)

		assert.True(t, amount.Equal(updated.Amount))
		assert.Equal(t, "market run", updated.Description)
		assert.Equal(t, txn.CategoryID, updated.CategoryID)
	})

	t.Run("rebinding the category refreshes the snapshot", func(t *testing.T) {
		ldg, _ := createTestLedger(t)

		txn := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "Groceries"}, "2024-03-01", 50, "market run")

		updated, err := ldg.UpdateTransaction(ctx, "owner1", txn.ID, TransactionPatch{
			Category: CategoryRef{Name: "Dining Out"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, txn.CategoryID, updated.CategoryID)
		assert.Equal(t, "Dining Out", updated.CategoryName)
	})

	t.Run("provisioning uses the patched type", func(t *testing.T) {
		ldg, _ := createTestLedger(t)

		txn := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "Groceries"}, "2024-03-01", 50, "refund")

		income := model.TransactionTypeIncome
		updated, err := ldg.UpdateTransaction(ctx, "owner1", txn.ID, TransactionPatch{
			Type:     &income,
			Category: CategoryRef{Name: "Refunds"},
		})
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeIncome, updated.Type)

		cat, err := ldg.store.GetCategoryByID(ctx, updated.CategoryID)
		require.NoError(t, err)
		assert.Equal(t, model.CategoryTypeIncome, cat.Type)
	})

	t.Run("not owned is not found", func(t *testing.T) {
		ldg, _ := createTestLedger(t)

		txn := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "Groceries"}, "2024-03-01", 50, "market run")

		desc := "hijacked"
		_, err := ldg.UpdateTransaction(ctx, "owner2", txn.ID, TransactionPatch{Description: &desc})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteTransactionScopedToOwner(t *testing.T) {
	ctx := context.Background()
	ldg, _ := createTestLedger(t)

	txn := mustRecordTransaction(t, ldg, "owner1", CategoryRef{Name: "Groceries"}, "2024-03-01", 50, "market run")

	deleted, err := ldg.DeleteTransaction(ctx, "owner2", txn.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = ldg.DeleteTransaction(ctx, "owner1", txn.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
