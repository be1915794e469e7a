package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/inventory"
	"github.com/mkrelic/casevault/internal/logger"
)

// GrantItemRequest identifies an item to grant or revoke
type GrantItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// InventoryValueResponse carries an aggregate over a user's inventory
type InventoryValueResponse struct {
	UserID string `json:"user_id"`
	Value  int    `json:"value"`
}

// HandleGetInventory returns the set of items a user owns, each with its
// scarcity-adjusted current value.
// @Summary Get inventory
// @Tags inventory
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} DataResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID}/inventory [get]
func HandleGetInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		items, err := svc.GetUserInventory(r.Context(), userID)
		if err != nil {
			log.Error("Failed to get inventory", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: items})
	}
}

// HandleGetInventoryValue returns the summed current value of a user's items.
// @Summary Get inventory value
// @Tags inventory
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} InventoryValueResponse
// @Router /users/{userID}/inventory/value [get]
func HandleGetInventoryValue(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		value, err := svc.CalculateInventoryValue(r.Context(), userID)
		if err != nil {
			log.Error("Failed to calculate inventory value", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, InventoryValueResponse{UserID: userID, Value: value})
	}
}

// HandleGetInventoryRAP returns the summed recent average price of a user's
// items. RAP ignores scarcity adjustment entirely.
// @Summary Get inventory RAP
// @Tags inventory
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} InventoryValueResponse
// @Router /users/{userID}/inventory/rap [get]
func HandleGetInventoryRAP(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		rap, err := svc.CalculateInventoryRAP(r.Context(), userID)
		if err != nil {
			log.Error("Failed to calculate inventory RAP", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, InventoryValueResponse{UserID: userID, Value: rap})
	}
}

// HandleGrantItem gives an item to a user (admin/system action). Granting an
// already-owned item is a no-op and still returns 200.
// @Summary Grant item
// @Tags inventory
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body GrantItemRequest true "Item to grant"
// @Success 200 {object} domain.Item
// @Failure 404 {object} ErrorResponse
// @Router /users/{userID}/inventory [post]
func HandleGrantItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}

		var req GrantItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Grant item"); err != nil {
			return
		}

		item, err := svc.Grant(r.Context(), userID, req.ItemID)
		if err != nil {
			log.Error("Failed to grant item", "error", err, "user_id", userID, "item_id", req.ItemID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item granted", "user_id", userID, "item_id", req.ItemID)
		respondJSON(w, http.StatusOK, item)
	}
}

// HandleRevokeItem removes an item from a user (admin/system action).
// @Summary Revoke item
// @Tags inventory
// @Produce json
// @Param userID path string true "User ID"
// @Param itemID path string true "Item ID"
// @Success 200 {object} domain.Item
// @Failure 404 {object} ErrorResponse
// @Router /users/{userID}/inventory/{itemID} [delete]
func HandleRevokeItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := GetPathParam(r, w, "userID")
		if !ok {
			return
		}
		itemID, ok := GetPathParam(r, w, "itemID")
		if !ok {
			return
		}

		item, err := svc.Revoke(r.Context(), userID, itemID)
		if err != nil {
			log.Error("Failed to revoke item", "error", err, "user_id", userID, "item_id", itemID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Info("Item revoked", "user_id", userID, "item_id", itemID)
		respondJSON(w, http.StatusOK, item)
	}
}
