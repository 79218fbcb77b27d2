package repository

import (
	"context"

	"event-marketplace/pkg/database"

	"go.uber.org/zap"
)

// TxRunner runs a function inside one store transaction. Repositories called
// with the resulting context join that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repository struct {
	Event       EventInventoryRepository
	Reservation ReservationRepository
	Payment     PaymentRepository
	Tx          TxRunner
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Event:       NewEventInventoryRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
		Tx:          db,
	}
}
