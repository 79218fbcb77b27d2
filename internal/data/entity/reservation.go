package entity

import (
	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "reserved"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a holder's claim on seats. Seats stay counted against the
// event inventory while status is reserved or completed; a cancelled
// reservation never holds seats.
type Reservation struct {
	BaseSimple
	EventID        uuid.UUID         `db:"event_id"`
	HolderID       uuid.UUID         `db:"holder_id"`
	TicketQuantity int               `db:"ticket_quantity"`
	TotalPrice     float64           `db:"total_price"`
	Status         ReservationStatus `db:"status"`
	PaymentID      *uuid.UUID        `db:"payment_id"`
}

// HoldsSeats reports whether the reservation currently counts against
// available seats.
func (r *Reservation) HoldsSeats() bool {
	return r.Status == ReservationStatusReserved || r.Status == ReservationStatusCompleted
}

// Terminal reports whether the reservation reached a final state.
// completed and cancelled are terminal; neither may be left again.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationStatusCompleted || r.Status == ReservationStatusCancelled
}
