// Package inventory is the sole writer of the ownership relation. Grants and
// revocations go through here so the affected item's value is recomputed at
// exactly one place.
package inventory

import (
	"context"
	"errors"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/metrics"
	"github.com/mkrelic/casevault/internal/repository"
	"github.com/mkrelic/casevault/internal/valuation"
)

// Service defines the interface for inventory operations
type Service interface {
	// Grant gives an item to a user. Granting an already-owned item is a
	// no-op that returns the current snapshot unchanged.
	Grant(ctx context.Context, userID, itemID string) (*domain.Item, error)

	// Revoke removes an item from a user. Fails with domain.ErrItemNotOwned
	// when the user does not own it.
	Revoke(ctx context.Context, userID, itemID string) (*domain.Item, error)

	GetUserInventory(ctx context.Context, userID string) ([]domain.Item, error)
	CalculateInventoryValue(ctx context.Context, userID string) (int, error)
	CalculateInventoryRAP(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo    repository.Inventory
	catalog repository.Catalog
	ledger  repository.Ledger
}

// NewService creates a new inventory service
func NewService(repo repository.Inventory, catalog repository.Catalog, ledger repository.Ledger) Service {
	return &service{repo: repo, catalog: catalog, ledger: ledger}
}

func (s *service) Grant(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	log := logger.FromContext(ctx)

	// Item must exist before touching the relation
	if _, err := s.catalog.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	// Users are created lazily on first interaction
	if _, err := s.ledger.GetOrCreateUser(ctx, userID); err != nil {
		return nil, err
	}

	inserted, err := s.repo.Grant(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if inserted {
		metrics.ItemsGranted.Inc()
		log.Info("Item granted", "user", userID, "item", itemID)
	} else {
		log.Debug("Grant was a no-op, item already owned", "user", userID, "item", itemID)
	}

	return s.itemSnapshot(ctx, itemID)
}

func (s *service) Revoke(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	log := logger.FromContext(ctx)

	if err := s.repo.Revoke(ctx, userID, itemID); err != nil {
		if errors.Is(err, domain.ErrItemNotOwned) {
			log.Warn("Revoke of unowned item", "user", userID, "item", itemID)
		}
		return nil, err
	}

	metrics.ItemsRevoked.Inc()
	log.Info("Item revoked", "user", userID, "item", itemID)
	return s.itemSnapshot(ctx, itemID)
}

func (s *service) GetUserInventory(ctx context.Context, userID string) ([]domain.Item, error) {
	items, err := s.repo.ListUserItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		valuation.Apply(&items[i])
	}
	return items, nil
}

func (s *service) CalculateInventoryValue(ctx context.Context, userID string) (int, error) {
	items, err := s.GetUserInventory(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, item := range items {
		total += item.CurrentValue
	}
	return total, nil
}

func (s *service) CalculateInventoryRAP(ctx context.Context, userID string) (int, error) {
	items, err := s.repo.ListUserItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, item := range items {
		total += item.RAP
	}
	return total, nil
}

// itemSnapshot re-reads the item so the returned state reflects the mutated
// owner count, with the value derived from it.
func (s *service) itemSnapshot(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	valuation.Apply(item)
	return item, nil
}
