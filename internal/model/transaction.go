package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is income or an expense.
type TransactionType string

const (
	// TransactionTypeIncome represents money coming in.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense represents money going out.
	TransactionTypeExpense TransactionType = "expense"
)

// Priority ranks how important a transaction is to the owner.
type Priority string

// Transaction priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Transaction represents a single financial transaction recorded against a
// category. CategoryName is a write-time snapshot of the bound category's
// name; renaming the category later does not back-fill it.
type Transaction struct {
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Amount       decimal.Decimal `json:"amount"`
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Type         TransactionType `json:"type"`
	Priority     Priority        `json:"priority"`
}
