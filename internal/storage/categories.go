package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
)

const categoryColumns = "id, owner_id, name, slug, type, created_at"

// GetCategoryByID returns a category by its id, or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = ?`, id)

	cat, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err, "category "+id)
	}
	return cat, nil
}

// GetCategoryBySlug returns the category stored under (ownerID, slug), or
// nil when no such category exists.
func (s *SQLiteStorage) GetCategoryBySlug(ctx context.Context, ownerID, slug string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(slug, "slug"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE owner_id = ? AND slug = ?`, ownerID, slug)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// ListVisibleCategories returns the shared default categories unioned with
// the owner's own, defaults first. A default and an owned category may
// share a slug; no dedup happens across the two groups.
func (s *SQLiteStorage) ListVisibleCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE owner_id = '' OR owner_id = ?
		ORDER BY CASE WHEN owner_id = '' THEN 0 ELSE 1 END, created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "owner", ownerID, "count", len(categories))
	return categories, nil
}

// ListCategorySlugs returns the slugs stored under the given owner scope.
func (s *SQLiteStorage) ListCategorySlugs(ctx context.Context, ownerID string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT slug FROM categories WHERE owner_id = ? ORDER BY slug`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category slugs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// CreateCategory inserts a new category, assigning its id and creation
// time. The unique index on (owner_id, slug) is the authority on slug
// collisions; a violation surfaces as common.ErrConflict.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(cat); err != nil {
		return err
	}

	cat.ID = newID()
	cat.CreatedAt = normalizeTime(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, slug, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.OwnerID, cat.Name, cat.Slug, string(cat.Type), cat.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Conflictf("category slug %q already exists", cat.Slug)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "id", cat.ID, "owner", cat.OwnerID, "slug", cat.Slug)
	return nil
}

// UpdateCategory persists name, slug, and type changes for an owned
// category. It returns common.ErrNotFound when no category with the given
// id belongs to the owner, and common.ErrConflict when the new slug
// collides within the owner scope.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(cat); err != nil {
		return err
	}
	if err := validateString(cat.ID, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, slug = ?, type = ?
		WHERE id = ? AND owner_id = ?`,
		cat.Name, cat.Slug, string(cat.Type), cat.ID, cat.OwnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Conflictf("category slug %q already exists", cat.Slug)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.NotFoundf("category %s", cat.ID)
	}
	return nil
}

// DeleteCategory removes a category only when it is owned by ownerID. It
// returns false on a miss; deleting a category does not cascade to the
// transactions referencing it.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id, ownerID string) (bool, error) {
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
		DELETE FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// SeedDefaultCategories creates the default catalog in the given owner
// scope. Seeding is idempotent: entries whose slug already exists in the
// scope are skipped, so re-entrant seeding is harmless.
func (s *SQLiteStorage) SeedDefaultCategories(ctx context.Context, ownerID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := normalizeTime(time.Now())
	seeded := 0
	for _, def := range model.DefaultCatalog {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM categories WHERE owner_id = ? AND slug = ?)`,
			ownerID, def.Slug).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check existing category: %w", err)
		}
		if exists {
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (id, owner_id, name, slug, type, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), ownerID, def.Name, def.Slug, string(def.Type), now)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", def.Slug, err)
		}
		seeded++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seeding: %w", err)
	}

	slog.Info("seeded default categories", "owner", ownerID, "created", seeded)
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*model.Category, error) {
	var cat model.Category
	var catType string
	if err := row.Scan(&cat.ID, &cat.OwnerID, &cat.Name, &cat.Slug, &catType, &cat.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.Type = model.CategoryType(catType)
	return &cat, nil
}
