package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query/path parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgMissingPathParam  = "Missing %s path parameter"

	// Catalog operation error messages
	ErrMsgCreateItemFailed = "Failed to create item"
	ErrMsgUpdateItemFailed = "Failed to update item"
	ErrMsgGetItemFailed    = "Failed to get item"
	ErrMsgListItemsFailed  = "Failed to list items"
	ErrMsgCreateCaseFailed = "Failed to create case"
	ErrMsgUpdateCaseFailed = "Failed to update case"
	ErrMsgGetCaseFailed    = "Failed to get case"
	ErrMsgListCasesFailed  = "Failed to list cases"

	// Inventory operation error messages
	ErrMsgGrantItemFailed    = "Failed to grant item"
	ErrMsgRevokeItemFailed   = "Failed to revoke item"
	ErrMsgGetInventoryFailed = "Failed to get inventory"

	// Ledger operation error messages
	ErrMsgGetUserFailed    = "Failed to get user"
	ErrMsgClaimDailyFailed = "Failed to claim daily reward"

	// Case opening error messages
	ErrMsgOpenCaseFailed = "Failed to open case"

	// Feed operation error messages
	ErrMsgSearchFailed = "Failed to perform search"
	ErrMsgImportFailed = "Failed to import items"
)
