package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

// Service registers users, verifies credentials, and issues tokens.
type Service struct {
	store    service.Storage
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates an auth service signing tokens with secret.
func NewService(store service.Storage, secret string, tokenTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: auth.jwt_secret", common.ErrMissingConfig)
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{store: store, secret: []byte(secret), tokenTTL: tokenTTL}, nil
}

// Register creates a new user, seeds their default category catalog, and
// issues a token. A duplicate email surfaces as common.ErrConflict.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	// A seeding failure after the user row exists is tolerable: seeding is
	// idempotent and re-runs on demand, so log and continue.
	if err := s.store.SeedDefaultCategories(ctx, user.ID); err != nil {
		slog.Warn("failed to seed default categories", "user", user.ID, "error", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
		}
		return nil, "", err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser returns the user for an authenticated id.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(current, user.PasswordHash) {
		return common.Validationf("incorrect current password")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.store.UpdateUserPassword(ctx, userID, hash)
}
