package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/repository"
)

const (
	// sqlAdvisoryLock acquires a PostgreSQL advisory transaction lock
	sqlAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	// claimLockAction namespaces the advisory lock key for daily claims
	claimLockAction = "daily_claim"

	// hashMaskPositiveInt64 masks the MSB so advisory lock keys stay positive
	hashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
)

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetOrCreateUser finds a user or atomically creates one with the default
// starting balance. The insert-then-select pattern is race-safe under
// concurrent first interactions.
func (r *LedgerRepository) GetOrCreateUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		INSERT INTO users (user_id, balance, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, domain.DefaultStartingBalance); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetUser(ctx, userID)
}

// GetUser retrieves a user by id
func (r *LedgerRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT user_id, balance, last_daily_claim FROM users WHERE user_id = $1`, userID))
}

// BeginClaim opens a transaction holding a per-user advisory lock, so two
// concurrent claims for the same user serialize instead of both passing the
// cooldown check.
func (r *LedgerRepository) BeginClaim(ctx context.Context, userID string) (repository.ClaimTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, sqlAdvisoryLock, hashUserAction(userID, claimLockAction)); err != nil {
		SafeRollback(ctx, tx)
		return nil, fmt.Errorf("failed to acquire advisory lock: %w", err)
	}

	return &claimTx{tx: tx}, nil
}

type claimTx struct {
	tx pgx.Tx
}

func (t *claimTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *claimTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// UserForUpdate row-locks and returns the user inside the claim transaction
func (t *claimTx) UserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(t.tx.QueryRow(ctx,
		`SELECT user_id, balance, last_daily_claim FROM users WHERE user_id = $1 FOR UPDATE`, userID))
}

// OwnedItems returns the user's items as visible inside the claim transaction
func (t *claimTx) OwnedItems(ctx context.Context, userID string) ([]domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN user_items owned ON owned.item_id = i.item_id
		WHERE owned.user_id = $1
	`
	rows, err := t.tx.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned items: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan owned items: %w", err)
	}
	return items, nil
}

// ApplyClaim writes the new balance and claim timestamp as one statement
func (t *claimTx) ApplyClaim(ctx context.Context, userID string, newBalance int, claimedAt time.Time) error {
	query := `
		UPDATE users
		SET balance = $2, last_daily_claim = $3, updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := t.tx.Exec(ctx, query, userID, newBalance, claimedAt)
	if err != nil {
		return fmt.Errorf("failed to apply claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.UserID, &user.Balance, &user.LastDailyClaim)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// hashUserAction creates a consistent int64 hash from userID + action for advisory locking
func hashUserAction(userID, action string) int64 {
	h := sha256.Sum256([]byte(userID + ":" + action))
	return int64(binary.BigEndian.Uint64(h[:8]) & hashMaskPositiveInt64)
}
