// Package ledger owns user balances and the daily compounding reward. The
// claim cooldown is measured against the durable last_daily_claim column so
// it survives restarts.
package ledger

import (
	"context"
	"math"
	"time"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/metrics"
	"github.com/mkrelic/casevault/internal/repository"
	"github.com/mkrelic/casevault/internal/valuation"
)

const (
	// CooldownWindow is the minimum time between daily claims
	CooldownWindow = 24 * time.Hour

	// BaseReward is granted on every claim regardless of inventory
	BaseReward = 1000

	// BonusRate is the inventory-value fraction added on top of the base
	BonusRate = 0.01

	// BonusCap limits the inventory bonus per claim
	BonusCap = 10000
)

// ClaimResult describes a successful daily claim
type ClaimResult struct {
	Reward         int       `json:"reward"`
	BaseReward     int       `json:"base_reward"`
	Bonus          int       `json:"bonus"`
	InventoryValue int       `json:"inventory_value"`
	NewBalance     int       `json:"new_balance"`
	ClaimedAt      time.Time `json:"claimed_at"`
}

// Service defines the interface for ledger operations
type Service interface {
	// GetUser finds a user, creating one lazily with the default balance.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// ClaimDaily grants the daily reward, or fails with ErrOnCooldown.
	ClaimDaily(ctx context.Context, userID string) (*ClaimResult, error)
}

type service struct {
	repo repository.Ledger
	now  func() time.Time
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetOrCreateUser(ctx, userID)
}

func (s *service) ClaimDaily(ctx context.Context, userID string) (*ClaimResult, error) {
	log := logger.FromContext(ctx)

	// Lazy user creation happens outside the claim transaction so the
	// advisory-locked section stays short.
	if _, err := s.repo.GetOrCreateUser(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginClaim(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	user, err := tx.UserForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if user.LastDailyClaim != nil {
		elapsed := now.Sub(*user.LastDailyClaim)
		if elapsed < CooldownWindow {
			remaining := CooldownWindow - elapsed
			log.Debug("Daily claim rejected, on cooldown", "user", userID, "remaining", remaining)
			return nil, ErrOnCooldown{Remaining: remaining}
		}
	}

	items, err := tx.OwnedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	inventoryValue := 0
	for _, item := range items {
		inventoryValue += valuation.Value(item.BaseValue, item.Rarity, item.OwnerCount)
	}

	bonus := math.Min(float64(inventoryValue)*BonusRate, BonusCap)
	reward := int(math.Round(BaseReward + bonus))
	newBalance := user.Balance + reward

	if err := tx.ApplyClaim(ctx, userID, newBalance, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.DailyRewardsClaimed.Inc()
	metrics.DailyRewardAmount.Observe(float64(reward))

	log.Info("Daily reward claimed",
		"user", userID, "reward", reward, "inventory_value", inventoryValue, "new_balance", newBalance)

	return &ClaimResult{
		Reward:         reward,
		BaseReward:     BaseReward,
		Bonus:          int(math.Round(bonus)),
		InventoryValue: inventoryValue,
		NewBalance:     newBalance,
		ClaimedAt:      now,
	}, nil
}
