package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/ledger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first so an encoding failure never produces a
	// half-written body
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgItemNotFoundError   = "Item not found"
	ErrMsgCaseNotFoundError   = "Case not found"
	ErrMsgItemExistsError     = "Item already exists"
	ErrMsgCaseExistsError     = "Case already exists"
	ErrMsgItemNotOwnedError   = "You don't own that item"
	ErrMsgNotEnoughMoneyError = "Not enough money"
	ErrMsgValidationError     = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// user-facing messages. Internal failures collapse to a generic 500 so
// database details never leak to clients.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var cooldownErr ledger.ErrOnCooldown
	if errors.As(err, &cooldownErr) {
		return http.StatusTooManyRequests, cooldownErr.Error()
	}

	var integrityErr *domain.DataIntegrityError
	if errors.As(err, &integrityErr) {
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound, ErrMsgCaseNotFoundError
	case errors.Is(err, domain.ErrItemNotOwned):
		return http.StatusNotFound, ErrMsgItemNotOwnedError
	case errors.Is(err, domain.ErrItemExists):
		return http.StatusConflict, ErrMsgItemExistsError
	case errors.Is(err, domain.ErrCaseExists):
		return http.StatusConflict, ErrMsgCaseExistsError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrMsgValidationError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
