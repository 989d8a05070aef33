package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/common"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// newID returns a fresh ULID for a new row.
func newID() string {
	return ulid.Make().String()
}

// IsWellFormedID reports whether value parses as a canonical record id.
func IsWellFormedID(value string) bool {
	_, err := ulid.ParseStrict(value)
	return err == nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// centsOf converts a decimal amount to integer cents, rounding half-up on
// the third decimal place. Amounts are persisted as cents so SQL grouped
// sums stay exact.
func centsOf(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// amountOf converts integer cents back to a decimal amount.
func amountOf(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// normalizeTime stores instants in UTC at second precision so SQLite's
// date functions can bucket and compare them.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// endOfDay extends an instant to the last representable second of its
// calendar day.
func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// notFound converts sql.ErrNoRows into the shared sentinel.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.NotFoundf("%s", what)
	}
	return err
}
