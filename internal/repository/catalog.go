package repository

import (
	"context"

	"github.com/mkrelic/casevault/internal/domain"
)

// Catalog defines the interface for item and case definition persistence.
//
// Reads populate OwnerCount on returned items but never CurrentValue; that is
// derived by the caller through the valuation package.
type Catalog interface {
	InsertItem(ctx context.Context, item *domain.Item) error
	UpdateItem(ctx context.Context, itemID string, upd domain.ItemUpdate) (*domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)

	InsertCase(ctx context.Context, c *domain.Case) error
	UpdateCase(ctx context.Context, caseID string, upd domain.CaseUpdate) (*domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
}
