package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested account, rule or entry is not found
	// or does not belong to the caller.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
)

// Ledger errors. Every one of them guarantees that no balance or log mutation happened.
var (
	// ErrInvalidAmount is returned when an amount fails its domain constraints
	// (non-positive, below a minimum, above a maximum).
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds is returned when the cash balance cannot cover a withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientGold is returned when the gold balance cannot cover a sale.
	ErrInsufficientGold = errors.New("insufficient gold")
	// ErrPriceUnavailable is returned when the price oracle fails, times out or
	// reports a non-positive price. Callers may retry after a backoff.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrPersistenceConflict is returned when a concurrent write changed the account
	// between read and write and the bounded retries were exhausted.
	ErrPersistenceConflict = errors.New("persistence conflict")
	// ErrPersistenceFailure wraps storage layer errors.
	ErrPersistenceFailure = errors.New("persistence failure")
	// ErrInvalidTransition is returned when a transaction entry status change is not
	// allowed (only pending entries may change, and only once).
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidFrequency is returned for an unknown recurring payment frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrInvalidDestination is returned when withdrawal destination details are missing.
	ErrInvalidDestination = errors.New("invalid withdrawal destination")
)
