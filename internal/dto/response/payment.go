package response

import (
	"time"

	"event-marketplace/internal/data/entity"
)

type PaymentResponse struct {
	ID                  string               `json:"id"`
	ReservationID       string               `json:"reservation_id"`
	EventID             string               `json:"event_id"`
	Amount              float64              `json:"amount"`
	Method              entity.PaymentMethod `json:"method"`
	TransactionID       *string              `json:"transaction_id,omitempty"`
	Status              entity.PaymentStatus `json:"status"`
	NeedsReconciliation bool                 `json:"needs_reconciliation,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                  payment.ID.String(),
		ReservationID:       payment.ReservationID.String(),
		EventID:             payment.EventID.String(),
		Amount:              payment.Amount,
		Method:              payment.Method,
		TransactionID:       payment.TransactionID,
		Status:              payment.Status,
		NeedsReconciliation: payment.NeedsReconciliation,
		CreatedAt:           payment.CreatedAt,
	}
}
