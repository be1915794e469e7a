package repository

import (
	"context"

	"github.com/mkrelic/casevault/internal/domain"
)

// Economy defines the interface for the case-opening transaction.
type Economy interface {
	BeginOpen(ctx context.Context) (OpenTx, error)
}

// OpenTx is the transaction backing a single case opening. The balance debit
// and the ownership grant commit as one unit; rolling back undoes both.
type OpenTx interface {
	Tx

	// UserForUpdate row-locks the user so concurrent opens for the same user
	// serialize instead of both passing the balance check.
	UserForUpdate(ctx context.Context, userID string) (*domain.User, error)

	UpdateBalance(ctx context.Context, userID string, newBalance int) error

	// GrantItem reports false without error when the user already owns the
	// item (grant is idempotent).
	GrantItem(ctx context.Context, userID, itemID string) (inserted bool, err error)

	// GetItem returns the item with OwnerCount as visible inside this
	// transaction. Returns domain.ErrItemNotFound on a missing id.
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
}
