package request

type CreateBookingRequest struct {
	EventID        string `json:"event_id" validate:"required,uuid4"`
	TicketQuantity int    `json:"ticket_quantity" validate:"required,min=1"`
}

type ExpireReservationsRequest struct {
	// MaxAgeHours overrides the configured sweep age; 0 means use the default.
	MaxAgeHours int `json:"max_age_hours" validate:"min=0"`
}
