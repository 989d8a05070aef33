package model

import "github.com/shopspring/decimal"

// TypeTotal is the sum of transaction amounts for one transaction type.
type TypeTotal struct {
	Total decimal.Decimal `json:"total"`
	Type  TransactionType `json:"type"`
}

// CategoryTotal is the sum of transaction amounts for one
// (type, categoryName) pair. Grouping uses the denormalized category name,
// so two categories sharing a name aggregate together.
type CategoryTotal struct {
	Total        decimal.Decimal `json:"total"`
	CategoryName string          `json:"categoryName"`
	Type         TransactionType `json:"type"`
}

// DayBucket carries per-type sub-totals for a single calendar day.
type DayBucket struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Date    string          `json:"date"`
}

// SeriesPoint is a single day's total within a type-filtered series.
type SeriesPoint struct {
	Total decimal.Decimal `json:"total"`
	Date  string          `json:"date"`
}

// Summary is the three-shaped report returned for a date window.
type Summary struct {
	Totals     []TypeTotal     `json:"totals"`
	ByCategory []CategoryTotal `json:"byCategory"`
	TimeSeries []DayBucket     `json:"timeSeries"`
}

// BalanceReport carries independent day-bucketed income and expense
// series; consumers derive net balance as income - expense per day.
type BalanceReport struct {
	IncomeSeries  []SeriesPoint `json:"incomeSeries"`
	ExpenseSeries []SeriesPoint `json:"expenseSeries"`
}
