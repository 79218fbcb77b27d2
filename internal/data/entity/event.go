package entity

import (
	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

// Event carries the bookable seat inventory. AvailableSeats is mutated only
// through the inventory repository's atomic Reserve/Release statements.
type Event struct {
	Base
	OrganizerID    uuid.UUID   `db:"organizer_id"`
	Title          string      `db:"title"`
	Price          float64     `db:"price"`
	TotalSeats     int         `db:"total_seats"`
	AvailableSeats int         `db:"available_seats"`
	Status         EventStatus `db:"status"`
}

// Bookable reports whether the event accepts new reservations.
func (e *Event) Bookable() bool {
	return e.Status == EventStatusApproved
}
