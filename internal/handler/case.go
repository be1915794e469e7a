package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/catalog"
	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
)

// HandleCreateCase registers a new case with its drop list.
// @Summary Create case
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body catalog.CreateCaseInput true "Case definition"
// @Success 201 {object} domain.Case
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cases [post]
func HandleCreateCase(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req catalog.CreateCaseInput
		if err := DecodeAndValidateRequest(r, w, &req, "Create case"); err != nil {
			return
		}

		c, err := svc.CreateCase(r.Context(), req)
		if err != nil {
			log.Error("Failed to create case", "error", err, "case_id", req.CaseID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Case created", "case_id", c.CaseID, "price", c.Price, "drop_list_size", len(c.PossibleItemIDs))
		respondJSON(w, http.StatusCreated, c)
	}
}

// HandleUpdateCase applies a partial update to an existing case. A non-empty
// possible_item_ids list replaces the whole drop list.
// @Summary Update case
// @Tags catalog
// @Accept json
// @Produce json
// @Param caseID path string true "Case ID"
// @Param request body domain.CaseUpdate true "Fields to update"
// @Success 200 {object} domain.Case
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /cases/{caseID} [patch]
func HandleUpdateCase(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		caseID, ok := GetPathParam(r, w, "caseID")
		if !ok {
			return
		}

		var upd domain.CaseUpdate
		if err := DecodeAndValidateRequest(r, w, &upd, "Update case"); err != nil {
			return
		}

		c, err := svc.UpdateCase(r.Context(), caseID, upd)
		if err != nil {
			log.Error("Failed to update case", "error", err, "case_id", caseID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Case updated", "case_id", caseID)
		respondJSON(w, http.StatusOK, c)
	}
}

// HandleGetCase returns a single case definition.
// @Summary Get case
// @Tags catalog
// @Produce json
// @Param caseID path string true "Case ID"
// @Success 200 {object} domain.Case
// @Failure 404 {object} ErrorResponse
// @Router /cases/{caseID} [get]
func HandleGetCase(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		caseID, ok := GetPathParam(r, w, "caseID")
		if !ok {
			return
		}

		c, err := svc.GetCase(r.Context(), caseID)
		if err != nil {
			log.Error("Failed to get case", "error", err, "case_id", caseID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, c)
	}
}

// HandleListCases returns every registered case.
// @Summary List cases
// @Tags catalog
// @Produce json
// @Success 200 {object} DataResponse
// @Router /cases [get]
func HandleListCases(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		cases, err := svc.ListCases(r.Context())
		if err != nil {
			log.Error("Failed to list cases", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: cases})
	}
}
