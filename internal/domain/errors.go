package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Catalog errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgCaseNotFound = "case not found"
	ErrMsgItemExists   = "item already exists"
	ErrMsgCaseExists   = "case already exists"

	// Inventory errors
	ErrMsgItemNotOwned = "item not owned"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgOnCooldown        = "daily reward on cooldown"

	// Validation errors (used for partial matches)
	ErrMsgValidation = "validation failed"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Catalog errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrCaseNotFound = errors.New(ErrMsgCaseNotFound)
	ErrItemExists   = errors.New(ErrMsgItemExists)
	ErrCaseExists   = errors.New(ErrMsgCaseExists)

	// Inventory errors
	ErrItemNotOwned = errors.New(ErrMsgItemNotOwned)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrOnCooldown        = errors.New(ErrMsgOnCooldown)

	// Validation errors
	ErrValidation = errors.New(ErrMsgValidation)
)

// DataIntegrityError reports a dangling item reference inside a case's drop
// list. It is fatal for the affected operation and should be alerted on, never
// silently defaulted.
type DataIntegrityError struct {
	CaseID string
	ItemID string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: case %q references missing item %q", e.CaseID, e.ItemID)
}

// Is allows errors.Is() matching against a bare *DataIntegrityError target
func (e *DataIntegrityError) Is(target error) bool {
	_, ok := target.(*DataIntegrityError)
	return ok
}
