package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/catalog"
	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
)

// HandleCreateItem registers a new catalog item.
// @Summary Create item
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body catalog.CreateItemInput true "Item definition"
// @Success 201 {object} domain.Item
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /items [post]
func HandleCreateItem(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req catalog.CreateItemInput
		if err := DecodeAndValidateRequest(r, w, &req, "Create item"); err != nil {
			return
		}

		item, err := svc.CreateItem(r.Context(), req)
		if err != nil {
			log.Error("Failed to create item", "error", err, "item_id", req.ItemID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item created", "item_id", item.ItemID, "rarity", item.Rarity)
		respondJSON(w, http.StatusCreated, item)
	}
}

// HandleUpdateItem applies a partial update to an existing item.
// @Summary Update item
// @Tags catalog
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param request body domain.ItemUpdate true "Fields to update"
// @Success 200 {object} domain.Item
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /items/{itemID} [patch]
func HandleUpdateItem(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		itemID, ok := GetPathParam(r, w, "itemID")
		if !ok {
			return
		}

		var upd domain.ItemUpdate
		if err := DecodeAndValidateRequest(r, w, &upd, "Update item"); err != nil {
			return
		}

		item, err := svc.UpdateItem(r.Context(), itemID, upd)
		if err != nil {
			log.Error("Failed to update item", "error", err, "item_id", itemID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item updated", "item_id", itemID)
		respondJSON(w, http.StatusOK, item)
	}
}

// HandleGetItem returns a single item with its scarcity-adjusted value.
// @Summary Get item
// @Tags catalog
// @Produce json
// @Param itemID path string true "Item ID"
// @Success 200 {object} domain.Item
// @Failure 404 {object} ErrorResponse
// @Router /items/{itemID} [get]
func HandleGetItem(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		itemID, ok := GetPathParam(r, w, "itemID")
		if !ok {
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			log.Error("Failed to get item", "error", err, "item_id", itemID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, item)
	}
}

// HandleListItems returns the full catalog with current values.
// @Summary List items
// @Tags catalog
// @Produce json
// @Success 200 {object} DataResponse
// @Router /items [get]
func HandleListItems(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		items, err := svc.ListItems(r.Context())
		if err != nil {
			log.Error("Failed to list items", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: items})
	}
}
