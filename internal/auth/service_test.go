package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/storage"
)

func createTestService(t *testing.T) (*Service, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	svc, err := NewService(store, "test-secret", time.Hour)
	require.NoError(t, err)
	return svc, store
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(nil, "", time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and seeds categories", func(t *testing.T) {
		svc, store := createTestService(t)

		user, token, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, token)
		assert.NotEqual(t, "hunter22", user.PasswordHash)

		slugs, err := store.ListCategorySlugs(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, slugs, len(model.DefaultCatalog))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "Ada Again", "ada@example.com", "hunter22")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		svc, _ := createTestService(t)

		registered, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
		require.NoError(t, err)

		user, token, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		subject, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, subject)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
		require.NoError(t, err)

		_, _, badPassword := svc.Login(ctx, "ada@example.com", "wrong")
		require.Error(t, badPassword)
		assert.ErrorIs(t, badPassword, common.ErrUnauthorized)

		_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "hunter22")
		require.Error(t, unknownEmail)
		assert.ErrorIs(t, unknownEmail, common.ErrUnauthorized)
		assert.Equal(t, badPassword.Error(), unknownEmail.Error())
	})
}

func TestVerifyToken(t *testing.T) {
	t.Run("rejects a token from another secret", func(t *testing.T) {
		svc, store := createTestService(t)

		other, err := NewService(store, "different-secret", time.Hour)
		require.NoError(t, err)

		token, err := other.IssueToken("user1")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, err := svc.VerifyToken("not.a.token")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		_, store := createTestService(t)

		shortLived, err := NewService(store, "test-secret", time.Nanosecond)
		require.NoError(t, err)

		token, err := shortLived.IssueToken("user1")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = shortLived.VerifyToken(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	user, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "newpassword")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "hunter22", "newpassword"))

	_, _, err = svc.Login(ctx, "ada@example.com", "newpassword")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "ada@example.com", "hunter22")
	require.Error(t, err)
}
