package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/slug"
)

// maxProvisionAttempts bounds the create-retry loop under concurrent slug
// contention. The store's unique index is the authority; this loop only
// re-resolves and reuses after losing a race.
const maxProvisionAttempts = 5

// CategoryRef identifies a category either by id or by display name.
// Exactly one field is expected to be set; ID wins when both are.
type CategoryRef struct {
	ID   string
	Name string
}

// IsZero reports whether the reference carries neither an id nor a name.
func (r CategoryRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// ProvisionCategory resolves the category a transaction write should bind
// to, creating one on demand when only a display name is given. It never
// creates a transaction; it is a pure resolution step invoked before a
// transaction write.
func (l *Ledger) ProvisionCategory(ctx context.Context, ownerID string, txnType model.TransactionType, ref CategoryRef) (*model.Category, error) {
	switch {
	case ref.ID != "":
		cat, err := l.store.GetCategoryByID(ctx, ref.ID)
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Validationf("category required")
		}
		if err != nil {
			return nil, err
		}
		// A category is only referenceable when owned or a shared default.
		if !cat.VisibleTo(ownerID) {
			return nil, common.Validationf("category required")
		}
		return cat, nil

	case ref.Name != "":
		return l.provisionByName(ctx, ownerID, txnType, ref.Name)

	default:
		return nil, common.Validationf("category required")
	}
}

// provisionByName resolves a category by display name: a category already
// stored under the name's normalized slug is reused, otherwise a new one
// is created under a collision-free slug. Resolution is idempotent per
// (owner, name).
func (l *Ledger) provisionByName(ctx context.Context, ownerID string, txnType model.TransactionType, name string) (*model.Category, error) {
	base := slug.Make(name)

	for attempt := 1; attempt <= maxProvisionAttempts; attempt++ {
		existing, err := l.store.GetCategoryBySlug(ctx, ownerID, base)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		slugs, err := l.store.ListCategorySlugs(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		taken := make(map[string]struct{}, len(slugs))
		for _, s := range slugs {
			taken[s] = struct{}{}
		}

		cat := &model.Category{
			OwnerID: ownerID,
			Name:    name,
			Slug:    slug.Resolve(name, taken),
			Type:    model.CategoryType(txnType),
		}

		err = l.store.CreateCategory(ctx, cat)
		if err == nil {
			return cat, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, err
		}

		// Lost a create race; re-query and reuse the winner's row.
		slog.Debug("category slug conflict, re-resolving",
			"owner", ownerID, "slug", cat.Slug, "attempt", attempt)
	}

	return nil, common.Conflictf("could not provision category %q after %d attempts", name, maxProvisionAttempts)
}
