package ledger

import (
	"context"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// Summarize computes the owner's totals by type, by category, and by day
// over [from, to]. Omitted bounds default to the current calendar month
// in server local time. Aggregation is read-only.
func (l *Ledger) Summarize(ctx context.Context, ownerID string, from, to *time.Time) (*model.Summary, error) {
	start, end := reportWindow(from, to, time.Now())

	totals, err := l.store.SumByType(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	byCategory, err := l.store.SumByCategory(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	timeSeries, err := l.store.SumByDay(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	return &model.Summary{
		Totals:     emptyIfNil(totals),
		ByCategory: emptyIfNil(byCategory),
		TimeSeries: emptyIfNil(timeSeries),
	}, nil
}

// BalanceSeries computes two independent day-bucketed series, one for
// income and one for expenses, over [from, to]. Consumers derive the net
// balance per day as income - expense.
func (l *Ledger) BalanceSeries(ctx context.Context, ownerID string, from, to *time.Time) (*model.BalanceReport, error) {
	start, end := reportWindow(from, to, time.Now())

	income, err := l.store.SumByDayForType(ctx, ownerID, model.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expense, err := l.store.SumByDayForType(ctx, ownerID, model.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	return &model.BalanceReport{
		IncomeSeries:  emptyIfNil(income),
		ExpenseSeries: emptyIfNil(expense),
	}, nil
}

// reportWindow resolves the effective date window. Missing bounds fall
// back to the first and last calendar day of now's month; the end bound
// is extended to end-of-day so the range is inclusive.
func reportWindow(from, to *time.Time, now time.Time) (time.Time, time.Time) {
	var start time.Time
	if from != nil {
		start = *from
	} else {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}

	var end time.Time
	if to != nil {
		end = *to
	} else {
		// Day 0 of the next month is the last day of this one.
		end = time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	return start, end
}

// emptyIfNil keeps report fields serializing as [] rather than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
