package domain

import "time"

// DefaultStartingBalance is granted when a user record is lazily created on
// first interaction.
const DefaultStartingBalance = 1000

// User represents an economy participant.
//
// LastDailyClaim is durable state: the daily-reward cooldown must survive
// process restarts, so it is read and written through persistence, never
// cached in process memory.
type User struct {
	UserID         string     `json:"user_id" db:"user_id"`
	Balance        int        `json:"balance" db:"balance"`
	LastDailyClaim *time.Time `json:"last_daily_claim,omitempty" db:"last_daily_claim"`
}
