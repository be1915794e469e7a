package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// pgUniqueViolation is the SQLSTATE for unique constraint violations
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// itemColumns is the shared select list for item rows. owner_count is always
// computed from the ownership relation, never read from a stored value.
const itemColumns = `
	i.item_id, i.item_name, i.image_ref, i.base_value, i.rap, i.rarity,
	(SELECT COUNT(*) FROM user_items ui WHERE ui.item_id = i.item_id) AS owner_count
`

// scanItem scans one row produced with itemColumns
func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ItemID,
		&item.Name,
		&item.ImageRef,
		&item.BaseValue,
		&item.RAP,
		&item.Rarity,
		&item.OwnerCount,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// collectItems drains rows produced with itemColumns
func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
