package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodLocal  PaymentMethod = "local"
)

// Payment links a reservation to a gateway transaction. Amount always equals
// the reservation's snapshotted total price. NeedsReconciliation marks a
// settlement that arrived after the reservation was cancelled; such payments
// are never finalized automatically.
type Payment struct {
	BaseSimple
	ReservationID       uuid.UUID     `db:"reservation_id"`
	HolderID            uuid.UUID     `db:"holder_id"`
	EventID             uuid.UUID     `db:"event_id"`
	Amount              float64       `db:"amount"`
	Method              PaymentMethod `db:"method"`
	TransactionID       *string       `db:"transaction_id"`
	Status              PaymentStatus `db:"status"`
	NeedsReconciliation bool          `db:"needs_reconciliation"`
}

// Settled reports whether the payment already reached a final outcome.
func (p *Payment) Settled() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
