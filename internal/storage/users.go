package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
)

// CreateUser inserts a new user, assigning its id and creation time.
// A duplicate email surfaces as common.ErrConflict.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	user.ID = newID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = normalizeTime(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Conflictf("user %s already exists", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("created user", "id", user.ID, "email", user.Email)
	return nil
}

// GetUserByEmail returns a user by email, or common.ErrNotFound.
func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))

	var user model.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUserByID returns a user by id, or common.ErrNotFound.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = ?`, id)

	var user model.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, notFound(err, "user "+id)
	}
	return &user, nil
}

// UpdateUserPassword replaces a user's password hash.
func (s *SQLiteStorage) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(passwordHash, "passwordHash"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.NotFoundf("user %s", id)
	}
	return nil
}
