package repository

import (
	"context"

	"github.com/mkrelic/casevault/internal/domain"
)

// Inventory defines the interface for ownership persistence.
//
// Ownership is a set: at most one relation per (user, item) pair, enforced by
// the storage layer, not by callers.
type Inventory interface {
	// Grant records ownership. It reports false without error when the user
	// already owns the item.
	Grant(ctx context.Context, userID, itemID string) (inserted bool, err error)

	// Revoke removes ownership. Returns domain.ErrItemNotOwned when the
	// relation does not exist.
	Revoke(ctx context.Context, userID, itemID string) error

	// ListUserItems returns the items owned by a user with OwnerCount
	// populated.
	ListUserItems(ctx context.Context, userID string) ([]domain.Item, error)
}
