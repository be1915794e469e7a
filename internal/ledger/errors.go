package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/mkrelic/casevault/internal/domain"
)

// ErrOnCooldown is returned when the daily reward is still on cooldown.
// No mutation has taken place when this is returned.
type ErrOnCooldown struct {
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	return fmt.Sprintf("daily reward on cooldown: %d hours remaining", e.HoursRemaining())
}

// HoursRemaining reports the remaining cooldown rounded up to whole hours,
// so 59 minutes left reads as 1 hour.
func (e ErrOnCooldown) HoursRemaining() int {
	return int(math.Ceil(e.Remaining.Hours()))
}

// Is allows errors.Is() to match both the typed error and the
// domain.ErrOnCooldown sentinel.
func (e ErrOnCooldown) Is(target error) bool {
	if _, ok := target.(ErrOnCooldown); ok {
		return true
	}
	return target == domain.ErrOnCooldown
}
