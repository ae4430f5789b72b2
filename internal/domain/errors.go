package domain

import "errors"

var (
	// Validation errors, rejected before any mutation.
	ErrInvalidInterval  = errors.New("interval end must be after start")
	ErrInvalidRate      = errors.New("rate must not be negative")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidReference = errors.New("ledger reference must not be empty")

	// Clock state-machine violations, user-correctable.
	ErrNoAssignment        = errors.New("worker has no active fixed assignment")
	ErrDuplicateAssignment = errors.New("worker already has an active assignment for this store")
	ErrNoOpenEntry         = errors.New("no open time entry for worker")
	ErrDuplicateClockIn    = errors.New("clock-in already recorded within the duplicate window")
	ErrDuplicateClockOut   = errors.New("clock-out already recorded within the duplicate window")
	ErrInvalidTransition   = errors.New("invalid time entry transition")

	// Ledger errors.
	ErrAlreadySettled         = errors.New("reference already settled")
	ErrEntryNotFound          = errors.New("ledger entry not found")
	ErrReconciliationMismatch = errors.New("account balance does not match ledger history")
	ErrAccountWritesBlocked   = errors.New("ledger writes blocked pending reconciliation")
	ErrAccountDisabled        = errors.New("account is disabled")

	// Lookup errors.
	ErrAccountNotFound    = errors.New("account not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAssignmentNotFound = errors.New("fixed assignment not found")
	ErrTimeEntryNotFound  = errors.New("time entry not found")
	ErrUserNotFound       = errors.New("user not found")

	// Transient upstream failure, retryable by the caller.
	ErrUpstreamUnavailable = errors.New("payment provider unavailable")

	// Permanent provider-side rejection of a checkout session.
	ErrPaymentNotVerified = errors.New("payment session not verified")

	// Booking lifecycle errors.
	ErrBookingDeleted      = errors.New("booking has been removed")
	ErrBookingNotAssigned  = errors.New("booking has no assigned worker")
	ErrBookingNotSettlable = errors.New("booking is not in a settlable state")
)
