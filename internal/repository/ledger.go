package repository

import (
	"context"
	"time"

	"github.com/mkrelic/casevault/internal/domain"
)

// Ledger defines the interface for balance and daily-claim persistence
type Ledger interface {
	// GetOrCreateUser finds a user or atomically creates one with the default
	// starting balance and a zero cooldown.
	GetOrCreateUser(ctx context.Context, userID string) (*domain.User, error)

	// GetUser returns domain.ErrUserNotFound when the user does not exist.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// BeginClaim opens a transaction serialized per user for a daily claim.
	BeginClaim(ctx context.Context, userID string) (ClaimTx, error)
}

// ClaimTx is a transaction scoped to a single daily claim. Balance and
// LastDailyClaim are committed together or not at all.
type ClaimTx interface {
	Tx
	UserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	OwnedItems(ctx context.Context, userID string) ([]domain.Item, error)
	ApplyClaim(ctx context.Context, userID string, newBalance int, claimedAt time.Time) error
}
