package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/repository"
)

// EconomyRepository implements the case-opening transaction for PostgreSQL
type EconomyRepository struct {
	db *pgxpool.Pool
}

// NewEconomyRepository creates a new EconomyRepository
func NewEconomyRepository(db *pgxpool.Pool) *EconomyRepository {
	return &EconomyRepository{db: db}
}

// BeginOpen starts the transaction backing one case opening
func (r *EconomyRepository) BeginOpen(ctx context.Context) (repository.OpenTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &openTx{tx: tx}, nil
}

type openTx struct {
	tx pgx.Tx
}

func (t *openTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *openTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// UserForUpdate row-locks the user for the duration of the transaction.
// Concurrent opens for the same user queue here instead of both reading a
// stale balance.
func (t *openTx) UserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(t.tx.QueryRow(ctx,
		`SELECT user_id, balance, last_daily_claim FROM users WHERE user_id = $1 FOR UPDATE`, userID))
}

// UpdateBalance writes the debited balance
func (t *openTx) UpdateBalance(ctx context.Context, userID string, newBalance int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE users SET balance = $2, updated_at = NOW() WHERE user_id = $1`, userID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

// GrantItem inserts the ownership relation; reports false when already owned
func (t *openTx) GrantItem(ctx context.Context, userID, itemID string) (bool, error) {
	query := `
		INSERT INTO user_items (user_id, item_id, granted_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, item_id) DO NOTHING
	`
	tag, err := t.tx.Exec(ctx, query, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to grant item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetItem returns the item with the owner count visible inside this transaction
func (t *openTx) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.item_id = $1`
	item, err := scanItem(t.tx.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}
