package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/ledger"
	"github.com/mkrelic/casevault/internal/logger"
)

// HandleGetUser returns a user's balance and last daily claim, creating the
// user with the starting balance on first sight.
// @Summary Get user
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.User
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID} [get]
func HandleGetUser(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			log.Error("Failed to get user", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}
