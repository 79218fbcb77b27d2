package request

type InitiatePaymentRequest struct {
	ReservationID string `json:"reservation_id" validate:"required,uuid4"`
	Method        string `json:"method" validate:"required,oneof=stripe paypal local"`
}

type SettlePaymentRequest struct {
	PaymentID     string  `json:"payment_id" validate:"required,uuid4"`
	Outcome       string  `json:"outcome" validate:"required,oneof=success failure"`
	TransactionID *string `json:"transaction_id,omitempty"`
}
