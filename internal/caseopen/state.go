package caseopen

// State tracks where a case-opening request is in its lifecycle. Used for
// structured logging and failure accounting; every request ends in
// StateCommitted, StateRejected or StateAborted.
type State string

const (
	// StateValidating checks that the case and user exist.
	StateValidating State = "validating"

	// StateReserving checks the balance covers the price.
	StateReserving State = "reserving"

	// StateDrawing selects the item.
	StateDrawing State = "drawing"

	// StateGranting debits the balance and grants the item as one unit.
	StateGranting State = "granting"

	// StateCommitted is the successful terminal state.
	StateCommitted State = "committed"

	// StateRejected is the terminal state for business-rule failures;
	// nothing was mutated.
	StateRejected State = "rejected"

	// StateAborted is the terminal state for failures after mutation began;
	// everything has been rolled back.
	StateAborted State = "aborted"
)
