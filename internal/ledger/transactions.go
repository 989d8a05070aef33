package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

// TransactionInput carries the validated fields of a transaction create
// request. Category is resolved through provisioning before the write.
type TransactionInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Category    CategoryRef
	Type        model.TransactionType
	Priority    model.Priority
}

// TransactionPatch carries the fields of a transaction update request.
// Nil pointers and zero refs leave the existing values untouched.
type TransactionPatch struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
	Type        *model.TransactionType
	Priority    *model.Priority
	Category    CategoryRef
}

// CreateTransaction resolves the category reference and records a new
// transaction, denormalizing the category name at write time.
func (l *Ledger) CreateTransaction(ctx context.Context, ownerID string, in TransactionInput) (*model.Transaction, error) {
	cat, err := l.ProvisionCategory(ctx, ownerID, in.Type, in.Category)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	txn := &model.Transaction{
		OwnerID:      ownerID,
		Type:         in.Type,
		Amount:       in.Amount,
		Description:  in.Description,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Date:         in.Date,
		Priority:     priority,
	}
	if err := l.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetTransaction returns an owned transaction by id.
func (l *Ledger) GetTransaction(ctx context.Context, ownerID, id string) (*model.Transaction, error) {
	return l.store.GetTransactionByID(ctx, id, ownerID)
}

// UpdateTransaction applies a patch to an owned transaction. When the
// patch touches the category reference, provisioning re-runs with the
// effective type (the patched type if present, else the existing one) and
// the denormalized category name is refreshed.
func (l *Ledger) UpdateTransaction(ctx context.Context, ownerID, id string, patch TransactionPatch) (*model.Transaction, error) {
	txn, err := l.store.GetTransactionByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		txn.Type = *patch.Type
	}

	if !patch.Category.IsZero() {
		cat, provErr := l.ProvisionCategory(ctx, ownerID, txn.Type, patch.Category)
		if provErr != nil {
			return nil, provErr
		}
		txn.CategoryID = cat.ID
		txn.CategoryName = cat.Name
	}

	if patch.Amount != nil {
		txn.Amount = *patch.Amount
	}
	if patch.Description != nil {
		txn.Description = *patch.Description
	}
	if patch.Date != nil {
		txn.Date = *patch.Date
	}
	if patch.Priority != nil {
		txn.Priority = *patch.Priority
	}

	if err := l.store.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes an owned transaction, returning false when no
// transaction with the id belongs to the owner.
func (l *Ledger) DeleteTransaction(ctx context.Context, ownerID, id string) (bool, error) {
	return l.store.DeleteTransaction(ctx, id, ownerID)
}

// ListTransactions returns one page of the owner's transactions along
// with the total match count.
func (l *Ledger) ListTransactions(ctx context.Context, ownerID string, filter service.TransactionFilter, sort service.SortOrder, page service.Page) ([]model.Transaction, int, error) {
	return l.store.QueryTransactions(ctx, ownerID, filter, sort, page)
}
