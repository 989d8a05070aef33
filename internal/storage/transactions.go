package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

const transactionColumns = `id, owner_id, type, amount_cents, description,
	category_id, category_name, date, priority, created_at, updated_at`

// sortColumns whitelists the sortable query fields and maps them to their
// backing columns.
var sortColumns = map[string]string{
	"date":         "date",
	"amount":       "amount_cents",
	"description":  "description",
	"type":         "type",
	"priority":     "priority",
	"categoryName": "category_name",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// CreateTransaction inserts a new transaction, assigning its id and
// timestamps. The caller must already have resolved the category and
// denormalized its name onto the record.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	now := normalizeTime(time.Now())
	txn.ID = newID()
	txn.Date = normalizeTime(txn.Date)
	txn.CreatedAt = now
	txn.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.OwnerID, string(txn.Type), centsOf(txn.Amount), txn.Description,
		txn.CategoryID, txn.CategoryName, txn.Date, string(txn.Priority),
		txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	slog.Debug("created transaction", "id", txn.ID, "owner", txn.OwnerID, "category", txn.CategoryName)
	return nil
}

// GetTransactionByID retrieves a transaction scoped to its owner. A miss
// and a not-owned record both return common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id, ownerID string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ? AND owner_id = ?`, id, ownerID)

	txn, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err, "transaction "+id)
	}
	return txn, nil
}

// UpdateTransaction replaces the mutable fields of an owned transaction
// and refreshes updated_at. It returns common.ErrNotFound when no
// transaction with the given id belongs to the owner.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	if err := validateString(txn.ID, "id"); err != nil {
		return err
	}

	txn.Date = normalizeTime(txn.Date)
	txn.UpdatedAt = normalizeTime(time.Now())

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount_cents = ?, description = ?, category_id = ?,
		    category_name = ?, date = ?, priority = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		string(txn.Type), centsOf(txn.Amount), txn.Description, txn.CategoryID,
		txn.CategoryName, txn.Date, string(txn.Priority), txn.UpdatedAt,
		txn.ID, txn.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.NotFoundf("transaction %s", txn.ID)
	}
	return nil
}

// DeleteTransaction removes a transaction only when it is owned by
// ownerID, returning false on a miss.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id, ownerID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// QueryTransactions returns one page of the owner's transactions matching
// the filter, plus the total match count across all pages.
func (s *SQLiteStorage) QueryTransactions(ctx context.Context, ownerID string, filter service.TransactionFilter, sort service.SortOrder, page service.Page) ([]model.Transaction, int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, 0, err
	}
	if page.Number < 1 || page.Size < 1 {
		return nil, 0, fmt.Errorf("%w: page %d size %d", ErrInvalidPage, page.Number, page.Size)
	}

	where, args := buildTransactionFilter(ownerID, filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM transactions WHERE " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "date"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	// The id tiebreak keeps pagination stable across pages.
	query := fmt.Sprintf(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT ? OFFSET ?`, where, column, direction, direction)
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, total, nil
}

// buildTransactionFilter translates a filter into a WHERE clause and its
// arguments.
func buildTransactionFilter(ownerID string, filter service.TransactionFilter) (string, []any) {
	clauses := []string{"owner_id = ?"}
	args := []any{ownerID}

	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}

	if filter.Category != "" {
		if IsWellFormedID(filter.Category) {
			clauses = append(clauses, "category_id = ?")
			args = append(args, filter.Category)
		} else {
			clauses = append(clauses, `category_name LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(filter.Category)+"%")
		}
	}

	if filter.DateFrom != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, normalizeTime(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, endOfDay(*filter.DateTo))
	}

	if filter.Search != "" {
		clauses = append(clauses, `description LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	return strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards in user-supplied match values.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var txnType, priority string
	var cents int64

	err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&txnType,
		&cents,
		&txn.Description,
		&txn.CategoryID,
		&txn.CategoryName,
		&txn.Date,
		&priority,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Type = model.TransactionType(txnType)
	txn.Priority = model.Priority(priority)
	txn.Amount = amountOf(cents)
	return &txn, nil
}
