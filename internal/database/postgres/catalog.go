package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrelic/casevault/internal/domain"
)

// CatalogRepository implements the catalog repository for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// InsertItem inserts a new catalog item
func (r *CatalogRepository) InsertItem(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (item_id, item_name, image_ref, base_value, rap, rarity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		item.ItemID, item.Name, item.ImageRef, item.BaseValue, item.RAP, item.Rarity)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrItemExists, item.ItemID)
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// UpdateItem applies a partial update and returns the updated row
func (r *CatalogRepository) UpdateItem(ctx context.Context, itemID string, upd domain.ItemUpdate) (*domain.Item, error) {
	query := `
		UPDATE items SET
			item_name  = COALESCE($2, item_name),
			image_ref  = COALESCE($3, image_ref),
			base_value = COALESCE($4, base_value),
			rap        = COALESCE($5, rap),
			rarity     = COALESCE($6, rarity),
			updated_at = NOW()
		WHERE item_id = $1
	`
	tag, err := r.db.Exec(ctx, query, itemID, upd.Name, upd.ImageRef, upd.BaseValue, upd.RAP, upd.Rarity)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return r.GetItem(ctx, itemID)
}

// GetItem retrieves an item with its owner count
func (r *CatalogRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.item_id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems retrieves all items with their owner counts
func (r *CatalogRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i ORDER BY i.item_id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}
	return items, nil
}

// InsertCase inserts a case and its ordered drop list in one transaction
func (r *CatalogRepository) InsertCase(ctx context.Context, c *domain.Case) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO cases (case_id, case_name, image_ref, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query, c.CaseID, c.Name, c.ImageRef, c.Price); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrCaseExists, c.CaseID)
		}
		return fmt.Errorf("failed to insert case: %w", err)
	}

	if err := replaceCaseItems(ctx, tx, c.CaseID, c.PossibleItemIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateCase applies a partial update; a non-nil item list replaces the drop
// list wholesale, preserving order and duplicates.
func (r *CatalogRepository) UpdateCase(ctx context.Context, caseID string, upd domain.CaseUpdate) (*domain.Case, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		UPDATE cases SET
			case_name  = COALESCE($2, case_name),
			image_ref  = COALESCE($3, image_ref),
			price      = COALESCE($4, price),
			updated_at = NOW()
		WHERE case_id = $1
	`
	tag, err := tx.Exec(ctx, query, caseID, upd.Name, upd.ImageRef, upd.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}

	if upd.PossibleItemIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM case_items WHERE case_id = $1`, caseID); err != nil {
			return nil, fmt.Errorf("failed to clear case items: %w", err)
		}
		if err := replaceCaseItems(ctx, tx, caseID, upd.PossibleItemIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit case update: %w", err)
	}
	return r.GetCase(ctx, caseID)
}

// GetCase retrieves a case including its ordered drop list
func (r *CatalogRepository) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	var c domain.Case
	query := `SELECT case_id, case_name, image_ref, price FROM cases WHERE case_id = $1`
	err := r.db.QueryRow(ctx, query, caseID).Scan(&c.CaseID, &c.Name, &c.ImageRef, &c.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	itemIDs, err := r.caseItemIDs(ctx, caseID)
	if err != nil {
		return nil, err
	}
	c.PossibleItemIDs = itemIDs
	return &c, nil
}

// ListCases retrieves all cases with their drop lists
func (r *CatalogRepository) ListCases(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.db.Query(ctx, `SELECT case_id, case_name, image_ref, price FROM cases ORDER BY case_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(&c.CaseID, &c.Name, &c.ImageRef, &c.Price); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}

	for i := range cases {
		itemIDs, err := r.caseItemIDs(ctx, cases[i].CaseID)
		if err != nil {
			return nil, err
		}
		cases[i].PossibleItemIDs = itemIDs
	}
	return cases, nil
}

func (r *CatalogRepository) caseItemIDs(ctx context.Context, caseID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT item_id FROM case_items WHERE case_id = $1 ORDER BY slot`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan case item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceCaseItems(ctx context.Context, tx pgx.Tx, caseID string, itemIDs []string) error {
	for slot, itemID := range itemIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO case_items (case_id, slot, item_id) VALUES ($1, $2, $3)`,
			caseID, slot, itemID)
		if err != nil {
			return fmt.Errorf("failed to insert case item: %w", err)
		}
	}
	return nil
}
