package domain

import "errors"

// Typed failures surfaced by the core operations. Presentation layers map
// these onto user-facing messages and status codes; the core only wraps
// them with context via fmt.Errorf("...: %w", err).
var (
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidReturnDate      = errors.New("invalid return date")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrDuplicate surfaces a unique-constraint violation, e.g. two
	// transactions racing to create the same borrower's draft. The losing
	// caller can retry in a fresh transaction and find the winner's row.
	ErrDuplicate = errors.New("duplicate record")

	// ErrDataIntegrity marks a caller bug rather than a concurrency race
	// (e.g. releasing more stock than was ever rented). Operations log it
	// and continue with a clamped value instead of aborting.
	ErrDataIntegrity = errors.New("data integrity fault")
)
