// Package caseopen orchestrates a purchase-and-draw: it debits the case
// price and grants the drawn item as one transaction. Either both happen or
// neither does.
package caseopen

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/metrics"
	"github.com/mkrelic/casevault/internal/repository"
	"github.com/mkrelic/casevault/internal/utils"
	"github.com/mkrelic/casevault/internal/valuation"
)

// Failure reasons for metrics accounting
const (
	reasonCaseNotFound      = "case_not_found"
	reasonUserNotFound      = "user_not_found"
	reasonInsufficientFunds = "insufficient_funds"
	reasonDataIntegrity     = "data_integrity"
	reasonPersistence       = "persistence"
)

// OpenResult is the post-commit snapshot of a successful opening
type OpenResult struct {
	CaseID       string      `json:"case_id"`
	CaseName     string      `json:"case_name"`
	PricePaid    int         `json:"price_paid"`
	NewBalance   int         `json:"new_balance"`
	Item         domain.Item `json:"item"`
	AlreadyOwned bool        `json:"already_owned"`
}

// Service defines the interface for case opening
type Service interface {
	OpenCase(ctx context.Context, userID, caseID string) (*OpenResult, error)
}

type service struct {
	catalog repository.Catalog
	repo    repository.Economy

	// randIndex draws a uniform index over the drop list; injectable for
	// deterministic tests
	randIndex func(n int) int
}

// NewService creates a new case-opening service
func NewService(catalog repository.Catalog, repo repository.Economy) Service {
	return &service{
		catalog:   catalog,
		repo:      repo,
		randIndex: utils.RandomIndex,
	}
}

func (s *service) OpenCase(ctx context.Context, userID, caseID string) (*OpenResult, error) {
	log := logger.FromContext(ctx).With("user", userID, "case", caseID)

	// Validating: the case definition is catalog data and safe to read
	// outside the money transaction.
	log.Debug("Opening case", "state", StateValidating)
	c, err := s.catalog.GetCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			metrics.CaseOpenFailures.WithLabelValues(reasonCaseNotFound).Inc()
		}
		return nil, err
	}
	if len(c.PossibleItemIDs) == 0 {
		// Unreachable through the catalog service, which rejects empty drop
		// lists, but a direct write could get here.
		metrics.CaseOpenFailures.WithLabelValues(reasonDataIntegrity).Inc()
		return nil, fmt.Errorf("%w: case %s has no items", domain.ErrValidation, caseID)
	}

	tx, err := s.repo.BeginOpen(ctx)
	if err != nil {
		metrics.CaseOpenFailures.WithLabelValues(reasonPersistence).Inc()
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	user, err := tx.UserForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.CaseOpenFailures.WithLabelValues(reasonUserNotFound).Inc()
			log.Debug("Case opening rejected", "state", StateRejected, "reason", reasonUserNotFound)
		}
		return nil, err
	}

	// Reserving: reject before any mutation
	log.Debug("Opening case", "state", StateReserving, "balance", user.Balance, "price", c.Price)
	if user.Balance < c.Price {
		metrics.CaseOpenFailures.WithLabelValues(reasonInsufficientFunds).Inc()
		log.Debug("Case opening rejected", "state", StateRejected, "reason", reasonInsufficientFunds)
		return nil, fmt.Errorf("%w: balance %d, price %d", domain.ErrInsufficientFunds, user.Balance, c.Price)
	}

	// Drawing: uniform index over the drop list; repeated ids raise an
	// item's effective probability
	drawnID := c.PossibleItemIDs[s.randIndex(len(c.PossibleItemIDs))]
	log.Debug("Opening case", "state", StateDrawing, "item", drawnID)

	// The drawn id must resolve before any money moves: user_items carries a
	// foreign key on item_id, so granting first would surface a dangling
	// drop-list entry as a constraint violation instead of corrupted catalog
	// data.
	item, err := tx.GetItem(ctx, drawnID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			// A case referencing a missing item is corrupted catalog data,
			// not a user error. Roll back and alert.
			metrics.CaseOpenFailures.WithLabelValues(reasonDataIntegrity).Inc()
			integrityErr := &domain.DataIntegrityError{CaseID: caseID, ItemID: drawnID}
			log.Error("Case opening aborted", "state", StateAborted, "error", integrityErr)
			return nil, integrityErr
		}
		metrics.CaseOpenFailures.WithLabelValues(reasonPersistence).Inc()
		log.Error("Case opening aborted", "state", StateAborted, "error", err)
		return nil, err
	}

	// Granting: debit and grant commit together or not at all
	log.Debug("Opening case", "state", StateGranting)
	if err := tx.UpdateBalance(ctx, userID, user.Balance-c.Price); err != nil {
		metrics.CaseOpenFailures.WithLabelValues(reasonPersistence).Inc()
		log.Error("Case opening aborted", "state", StateAborted, "error", err)
		return nil, err
	}

	inserted, err := tx.GrantItem(ctx, userID, drawnID)
	if err != nil {
		metrics.CaseOpenFailures.WithLabelValues(reasonPersistence).Inc()
		log.Error("Case opening aborted", "state", StateAborted, "error", err)
		return nil, err
	}

	if inserted {
		item.OwnerCount++
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.CaseOpenFailures.WithLabelValues(reasonPersistence).Inc()
		log.Error("Case opening aborted", "state", StateAborted, "error", err)
		return nil, fmt.Errorf("failed to commit case opening: %w", err)
	}

	valuation.Apply(item)
	metrics.CasesOpened.WithLabelValues(caseID).Inc()
	log.Info("Case opened",
		"state", StateCommitted, "item", item.ItemID, "value", item.CurrentValue, "already_owned", !inserted)

	return &OpenResult{
		CaseID:       c.CaseID,
		CaseName:     c.Name,
		PricePaid:    c.Price,
		NewBalance:   user.Balance - c.Price,
		Item:         *item,
		AlreadyOwned: !inserted,
	}, nil
}
