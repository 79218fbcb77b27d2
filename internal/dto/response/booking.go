package response

import (
	"time"

	"event-marketplace/internal/data/entity"
)

type ReservationResponse struct {
	ID             string                   `json:"id"`
	EventID        string                   `json:"event_id"`
	HolderID       string                   `json:"holder_id"`
	TicketQuantity int                      `json:"ticket_quantity"`
	TotalPrice     float64                  `json:"total_price"`
	Status         entity.ReservationStatus `json:"status"`
	PaymentID      *string                  `json:"payment_id,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

func ReservationToResponse(reservation *entity.Reservation) ReservationResponse {
	var paymentID *string
	if reservation.PaymentID != nil {
		id := reservation.PaymentID.String()
		paymentID = &id
	}

	return ReservationResponse{
		ID:             reservation.ID.String(),
		EventID:        reservation.EventID.String(),
		HolderID:       reservation.HolderID.String(),
		TicketQuantity: reservation.TicketQuantity,
		TotalPrice:     reservation.TotalPrice,
		Status:         reservation.Status,
		PaymentID:      paymentID,
		CreatedAt:      reservation.CreatedAt,
	}
}

// CancelEventResponse reports the result of an event-level cascade
// cancellation. Failures lists reservations that could not be cancelled or
// whose seats could not be released; the event itself is rejected regardless.
type CancelEventResponse struct {
	EventID        string                `json:"event_id"`
	CancelledCount int                   `json:"cancelled_count"`
	Failures       []CancelFailureDetail `json:"failures,omitempty"`
}

type CancelFailureDetail struct {
	ReservationID string `json:"reservation_id"`
	Reason        string `json:"reason"`
}

type ExpireReservationsResponse struct {
	ReleasedCount int                   `json:"released_count"`
	Failures      []CancelFailureDetail `json:"failures,omitempty"`
}
