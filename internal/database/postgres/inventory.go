package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrelic/casevault/internal/domain"
)

// InventoryRepository implements the inventory repository for PostgreSQL.
// The (user_id, item_id) primary key makes the relation a set; ON CONFLICT
// DO NOTHING turns a duplicate grant into a reported no-op.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Grant records ownership of an item. Reports false when already owned.
func (r *InventoryRepository) Grant(ctx context.Context, userID, itemID string) (bool, error) {
	query := `
		INSERT INTO user_items (user_id, item_id, granted_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, item_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to grant item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Revoke removes ownership of an item
func (r *InventoryRepository) Revoke(ctx context.Context, userID, itemID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_items WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to revoke item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s item %s", domain.ErrItemNotOwned, userID, itemID)
	}
	return nil
}

// ListUserItems returns the items a user owns, with owner counts
func (r *InventoryRepository) ListUserItems(ctx context.Context, userID string) ([]domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN user_items owned ON owned.item_id = i.item_id
		WHERE owned.user_id = $1
		ORDER BY owned.granted_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user items: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user items: %w", err)
	}
	return items, nil
}
