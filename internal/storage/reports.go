package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// SumByType returns amount sums grouped by transaction type over the
// owner's transactions dated within [from, to].
func (s *SQLiteStorage) SumByType(ctx context.Context, ownerID string, from, to time.Time) ([]model.TypeTotal, error) {
	if err := validateReportArgs(ctx, ownerID, from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, SUM(amount_cents)
		FROM transactions
		WHERE owner_id = ? AND date >= ? AND date <= ?
		GROUP BY type
		ORDER BY type`, ownerID, normalizeTime(from), normalizeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query type totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []model.TypeTotal
	for rows.Next() {
		var txnType string
		var cents int64
		if err := rows.Scan(&txnType, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan type total: %w", err)
		}
		totals = append(totals, model.TypeTotal{
			Type:  model.TransactionType(txnType),
			Total: amountOf(cents),
		})
	}
	return totals, rows.Err()
}

// SumByCategory returns amount sums grouped by (type, categoryName). The
// grouping key is the denormalized name, so two categories sharing a name
// aggregate together.
func (s *SQLiteStorage) SumByCategory(ctx context.Context, ownerID string, from, to time.Time) ([]model.CategoryTotal, error) {
	if err := validateReportArgs(ctx, ownerID, from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, category_name, SUM(amount_cents)
		FROM transactions
		WHERE owner_id = ? AND date >= ? AND date <= ?
		GROUP BY type, category_name
		ORDER BY type, category_name`, ownerID, normalizeTime(from), normalizeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []model.CategoryTotal
	for rows.Next() {
		var txnType, categoryName string
		var cents int64
		if err := rows.Scan(&txnType, &categoryName, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, model.CategoryTotal{
			Type:         model.TransactionType(txnType),
			CategoryName: categoryName,
			Total:        amountOf(cents),
		})
	}
	return totals, rows.Err()
}

// SumByDay returns per-calendar-day income and expense sub-totals, sorted
// ascending by day. Days with mixed activity carry both sub-totals rather
// than a single ambiguous type.
func (s *SQLiteStorage) SumByDay(ctx context.Context, ownerID string, from, to time.Time) ([]model.DayBucket, error) {
	if err := validateReportArgs(ctx, ownerID, from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', date) AS day,
		       SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END),
		       SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END)
		FROM transactions
		WHERE owner_id = ? AND date >= ? AND date <= ?
		GROUP BY day
		ORDER BY day`, ownerID, normalizeTime(from), normalizeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query day buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []model.DayBucket
	for rows.Next() {
		var day string
		var incomeCents, expenseCents int64
		if err := rows.Scan(&day, &incomeCents, &expenseCents); err != nil {
			return nil, fmt.Errorf("failed to scan day bucket: %w", err)
		}
		buckets = append(buckets, model.DayBucket{
			Date:    day,
			Income:  amountOf(incomeCents),
			Expense: amountOf(expenseCents),
		})
	}
	return buckets, rows.Err()
}

// SumByDayForType returns a single type's per-day totals, sorted ascending
// by day.
func (s *SQLiteStorage) SumByDayForType(ctx context.Context, ownerID string, txnType model.TransactionType, from, to time.Time) ([]model.SeriesPoint, error) {
	if err := validateReportArgs(ctx, ownerID, from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', date) AS day, SUM(amount_cents)
		FROM transactions
		WHERE owner_id = ? AND type = ? AND date >= ? AND date <= ?
		GROUP BY day
		ORDER BY day`, ownerID, string(txnType), normalizeTime(from), normalizeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query day series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var series []model.SeriesPoint
	for rows.Next() {
		var day string
		var cents int64
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		series = append(series, model.SeriesPoint{Date: day, Total: amountOf(cents)})
	}
	return series, rows.Err()
}

func validateReportArgs(ctx context.Context, ownerID string, from, to time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("%w: %v is after %v", ErrInvalidDateRange, from, to)
	}
	return nil
}
