package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/caseopen"
	"github.com/mkrelic/casevault/internal/logger"
)

// OpenCaseRequest identifies the case a user wants to open
type OpenCaseRequest struct {
	CaseID string `json:"case_id" validate:"required"`
}

// HandleOpenCase debits the case price and grants one random item from the
// case's drop list in a single transaction.
// @Summary Open a case
// @Tags cases
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body OpenCaseRequest true "Case to open"
// @Success 200 {object} caseopen.OpenResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID}/open [post]
func HandleOpenCase(svc caseopen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		var req OpenCaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open case"); err != nil {
			return
		}

		result, err := svc.OpenCase(r.Context(), userID, req.CaseID)
		if err != nil {
			log.Error("Failed to open case", "error", err, "user_id", userID, "case_id", req.CaseID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Case opened",
			"user_id", userID,
			"case_id", result.CaseID,
			"item_id", result.Item.ItemID,
			"already_owned", result.AlreadyOwned)

		respondJSON(w, http.StatusOK, result)
	}
}
