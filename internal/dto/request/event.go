package request

type CreateEventRequest struct {
	Title      string  `json:"title" validate:"required,min=3,max=200"`
	Price      float64 `json:"price" validate:"gte=0"`
	TotalSeats int     `json:"total_seats" validate:"gte=0"`
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type AdjustSeatsRequest struct {
	// Delta is added to both total and available seats; negative shrinks
	// capacity but never below the seats already held.
	Delta int `json:"delta" validate:"required"`
}
