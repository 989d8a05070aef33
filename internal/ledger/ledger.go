// Package ledger implements category provisioning, transaction workflows,
// and report aggregation on top of the persistence layer.
package ledger

import (
	"github.com/centsible/centsible/internal/service"
)

// Ledger coordinates categories, transactions, and reports for
// authenticated owners. It trusts the ownerID it is handed and only
// scopes by it; authentication happens upstream.
type Ledger struct {
	store service.Storage
}

// New creates a Ledger backed by the given store.
func New(store service.Storage) *Ledger {
	return &Ledger{store: store}
}
