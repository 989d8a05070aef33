package ledger

import (
	"context"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/slug"
)

// ListCategories returns the categories visible to the owner: shared
// defaults first, then the owner's own.
func (l *Ledger) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	return l.store.ListVisibleCategories(ctx, ownerID)
}

// CreateCategory creates an owned category under the name's normalized
// slug. Unlike provisioning, an explicit create does not reuse an
// existing category; a taken slug is a conflict.
func (l *Ledger) CreateCategory(ctx context.Context, ownerID, name string, catType model.CategoryType) (*model.Category, error) {
	cat := &model.Category{
		OwnerID: ownerID,
		Name:    name,
		Slug:    slug.Make(name),
		Type:    catType,
	}
	if err := l.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// UpdateCategory renames an owned category and optionally changes its
// type. Renaming recomputes the slug against the owner's other slugs and
// fails with a conflict when the new slug is taken. Existing transactions
// keep their denormalized snapshot of the old name.
func (l *Ledger) UpdateCategory(ctx context.Context, ownerID, id, newName string, newType model.CategoryType) (*model.Category, error) {
	cat, err := l.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Defaults are shared read-only; treat them like another owner's rows.
	if cat.OwnerID != ownerID {
		return nil, common.NotFoundf("category %s", id)
	}

	if newName != "" && newName != cat.Name {
		newSlug := slug.Make(newName)
		if newSlug != cat.Slug {
			other, lookupErr := l.store.GetCategoryBySlug(ctx, ownerID, newSlug)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if other != nil {
				return nil, common.Conflictf("category slug %q already exists", newSlug)
			}
		}
		cat.Name = newName
		cat.Slug = newSlug
	}

	if newType != "" {
		cat.Type = newType
	}

	if err := l.store.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes an owned category, returning false on a miss.
// Transactions referencing the category are left untouched; they keep
// their denormalized category name.
func (l *Ledger) DeleteCategory(ctx context.Context, ownerID, id string) (bool, error) {
	return l.store.DeleteCategory(ctx, id, ownerID)
}

// SeedDefaults idempotently creates the default catalog in the given
// owner scope. Pass model.SystemOwnerID to seed the shared scope.
func (l *Ledger) SeedDefaults(ctx context.Context, ownerID string) error {
	return l.store.SeedDefaultCategories(ctx, ownerID)
}
