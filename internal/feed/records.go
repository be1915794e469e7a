package feed

import "github.com/mkrelic/casevault/internal/domain"

// ItemRecord is one item as reported by the upstream market feed, already
// normalized into catalog-shaped fields.
type ItemRecord struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	ImageRef string `json:"image_ref"`
	Value    int    `json:"value"`
	RAP      int    `json:"rap"`
}

// rarityThreshold maps an upper RAP bound (inclusive) to a rarity. Checked in
// order; anything above the last bound is unobtainable.
type rarityThreshold struct {
	maxRAP int
	rarity domain.Rarity
}

var rarityThresholds = []rarityThreshold{
	{25_000, domain.RarityCommon},
	{74_999, domain.RarityUncommon},
	{145_000, domain.RarityRare},
	{350_000, domain.RarityUltraRare},
	{950_000, domain.RarityLegendary},
	{7_500_000, domain.RarityMythic},
}

// DetermineRarity classifies an item by its recent average price.
func DetermineRarity(rap int) domain.Rarity {
	for _, t := range rarityThresholds {
		if rap <= t.maxRAP {
			return t.rarity
		}
	}
	return domain.RarityUnobtainable
}

// CasePrices gives the price of the auto-generated case per rarity bucket.
var CasePrices = map[domain.Rarity]int{
	domain.RarityCommon:       1_000,
	domain.RarityUncommon:     2_500,
	domain.RarityRare:         5_000,
	domain.RarityUltraRare:    10_000,
	domain.RarityLegendary:    25_000,
	domain.RarityMythic:       50_000,
	domain.RarityUnobtainable: 100_000,
}
