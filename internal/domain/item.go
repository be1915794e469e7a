package domain

// Rarity classifies an item for display and for scarcity pricing.
// Only RarityLegendary and RarityUnobtainable carry a scarcity multiplier.
type Rarity string

const (
	RarityCommon       Rarity = "common"
	RarityUncommon     Rarity = "uncommon"
	RarityRare         Rarity = "rare"
	RarityUltraRare    Rarity = "ultraRare"
	RarityEpic         Rarity = "epic"
	RarityLegendary    Rarity = "legendary"
	RarityMythic       Rarity = "mythic"
	RarityUnobtainable Rarity = "unobtainable"
)

// Rarities lists every valid rarity value, in ascending order of prestige.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityUltraRare,
	RarityEpic,
	RarityLegendary,
	RarityMythic,
	RarityUnobtainable,
}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	for _, known := range Rarities {
		if r == known {
			return true
		}
	}
	return false
}

// Item represents a collectible item.
//
// BaseValue is the admin-assigned nominal value and is immutable with respect
// to ownership changes. CurrentValue is derived from BaseValue, Rarity and
// OwnerCount by the valuation package and is never stored as independent
// truth.
type Item struct {
	ItemID       string `json:"item_id" db:"item_id"`
	Name         string `json:"name" db:"item_name"`
	ImageRef     string `json:"image_ref" db:"image_ref"`
	BaseValue    int    `json:"base_value" db:"base_value"`
	RAP          int    `json:"rap" db:"rap"` // recent average price, informational only
	Rarity       Rarity `json:"rarity" db:"rarity"`
	OwnerCount   int    `json:"owner_count"`
	CurrentValue int    `json:"current_value"`
}

// ItemUpdate carries a partial item update. Nil fields are left untouched.
// ItemID itself is immutable and is addressed, not carried.
type ItemUpdate struct {
	Name      *string `json:"name,omitempty"`
	ImageRef  *string `json:"image_ref,omitempty"`
	BaseValue *int    `json:"base_value,omitempty"`
	RAP       *int    `json:"rap,omitempty"`
	Rarity    *Rarity `json:"rarity,omitempty"`
}
