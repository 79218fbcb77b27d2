package entity

import "errors"

// Domain errors returned by repositories and services. Handlers map these to
// HTTP responses with errors.Is; everything else is a 500.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotBookable    = errors.New("event not open for booking")
	ErrInsufficientSeats   = errors.New("insufficient seats")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrForbidden           = errors.New("holder does not own this record")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrInvalidQuantity     = errors.New("invalid ticket quantity")
	ErrSeatsExhausted      = errors.New("seat adjustment below booked count")

	// ErrSettlementConflict: a success settlement raced a cancellation.
	// The payment is parked for manual reconciliation instead of completing.
	ErrSettlementConflict = errors.New("settlement conflicts with cancelled reservation")

	// ErrStoreConflict is transient; callers retry a bounded number of times.
	ErrStoreConflict = errors.New("store conflict")

	// ErrCompensationFailed means a seat release could not be applied after a
	// cancellation was recorded. Seats may be stuck reserved; this always goes
	// to the operational log, never silently swallowed.
	ErrCompensationFailed = errors.New("seat release compensation failed")
)
