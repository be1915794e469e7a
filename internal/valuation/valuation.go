// Package valuation computes the current market value of an item from its
// base value, rarity and owner count. It is pure: no I/O, no caching. Callers
// re-run it after every ownership mutation.
package valuation

import (
	"math"

	"github.com/mkrelic/casevault/internal/domain"
)

const (
	// LegendaryBase is the starting multiplier for legendary items.
	LegendaryBase = 1.5

	// UnobtainableBase is the starting multiplier for unobtainable items.
	UnobtainableBase = 2.0

	// OwnerPenalty is subtracted from the multiplier per current owner.
	OwnerPenalty = 0.01
)

// Value returns the current value of an item.
//
// For legendary and unobtainable items the multiplier starts at the rarity
// base and shrinks by OwnerPenalty per owner, floored at 1 so the value never
// drops below the base value. Every other rarity is ownership-independent.
func Value(baseValue int, rarity domain.Rarity, ownerCount int) int {
	rarityBase, scarce := rarityBaseMultiplier(rarity)
	if !scarce {
		return baseValue
	}

	multiplier := rarityBase - OwnerPenalty*float64(ownerCount)
	if multiplier < 1 {
		multiplier = 1
	}
	return int(math.Round(float64(baseValue) * multiplier))
}

// Apply recomputes and sets item.CurrentValue from its own fields.
func Apply(item *domain.Item) {
	item.CurrentValue = Value(item.BaseValue, item.Rarity, item.OwnerCount)
}

func rarityBaseMultiplier(rarity domain.Rarity) (float64, bool) {
	switch rarity {
	case domain.RarityLegendary:
		return LegendaryBase, true
	case domain.RarityUnobtainable:
		return UnobtainableBase, true
	default:
		return 0, false
	}
}
