package response

import (
	"time"

	"event-marketplace/internal/data/entity"
)

type EventResponse struct {
	ID             string             `json:"id"`
	OrganizerID    string             `json:"organizer_id"`
	Title          string             `json:"title"`
	Price          float64            `json:"price"`
	TotalSeats     int                `json:"total_seats"`
	AvailableSeats int                `json:"available_seats"`
	Status         entity.EventStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}

func EventToResponse(event *entity.Event) EventResponse {
	return EventResponse{
		ID:             event.ID.String(),
		OrganizerID:    event.OrganizerID.String(),
		Title:          event.Title,
		Price:          event.Price,
		TotalSeats:     event.TotalSeats,
		AvailableSeats: event.AvailableSeats,
		Status:         event.Status,
		CreatedAt:      event.CreatedAt,
	}
}
