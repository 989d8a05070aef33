// Package storage provides the data persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/centsible/centsible/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidPage        = errors.New("invalid page")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategory validates a category prior to insert or update.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(cat.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if strings.TrimSpace(cat.Slug) == "" {
		return fmt.Errorf("%w: missing slug", ErrInvalidCategory)
	}
	switch cat.Type {
	case model.CategoryTypeIncome, model.CategoryTypeExpense:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, cat.Type)
	}
	return nil
}

// validateTransaction validates a transaction prior to insert or update.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.OwnerID == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidTransaction)
	}
	switch txn.Type {
	case model.TransactionTypeIncome, model.TransactionTypeExpense:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	if txn.CategoryID == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	switch txn.Priority {
	case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTransaction, txn.Priority)
	}
	return nil
}

// validateUser validates a user prior to insert.
func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidUser)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: missing password hash", ErrInvalidUser)
	}
	return nil
}
