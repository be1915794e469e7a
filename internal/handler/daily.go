package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/ledger"
	"github.com/mkrelic/casevault/internal/logger"
)

// HandleClaimDaily grants the daily reward. While the 24-hour cooldown is
// active the response is 429 with the remaining hours in the message.
// @Summary Claim daily reward
// @Tags ledger
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} ledger.ClaimResult
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID}/daily [post]
func HandleClaimDaily(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		result, err := svc.ClaimDaily(r.Context(), userID)
		if err != nil {
			log.Warn("Daily claim rejected", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Daily reward claimed",
			"user_id", userID,
			"reward", result.Reward,
			"new_balance", result.NewBalance)

		respondJSON(w, http.StatusOK, result)
	}
}
