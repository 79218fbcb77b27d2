package repository

import (
	"context"
	"fmt"

	"event-marketplace/internal/data/entity"
	"event-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByHolderID(ctx context.Context, holderID uuid.UUID) ([]*entity.Payment, error)
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Payment, error)

	// MarkCompleted applies pending -> completed; false when the payment was
	// already settled.
	MarkCompleted(ctx context.Context, id uuid.UUID, transactionID *string) (bool, error)
	// MarkFailed applies pending -> failed; false when already settled.
	MarkFailed(ctx context.Context, id uuid.UUID) (bool, error)
	// FlagReconciliation parks a payment for manual reconciliation after a
	// settlement raced a cancelled reservation.
	FlagReconciliation(ctx context.Context, id uuid.UUID) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, reservation_id, holder_id, event_id, amount, method, transaction_id, status, needs_reconciliation, created_at`

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, reservation_id, holder_id, event_id, amount, method, transaction_id, status, needs_reconciliation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.ReservationID,
		payment.HolderID,
		payment.EventID,
		payment.Amount,
		payment.Method,
		payment.TransactionID,
		payment.Status,
		payment.NeedsReconciliation,
		payment.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
			zap.String("reservation_id", payment.ReservationID.String()),
		)
		return fmt.Errorf("create payment %s: %w", payment.ID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment entity.Payment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.ReservationID,
		&payment.HolderID,
		&payment.EventID,
		&payment.Amount,
		&payment.Method,
		&payment.TransactionID,
		&payment.Status,
		&payment.NeedsReconciliation,
		&payment.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return &payment, nil
}

func (r *paymentRepository) FindByHolderID(ctx context.Context, holderID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE holder_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, holderID)
	if err != nil {
		r.log.Error("Failed to find payments by holder ID",
			zap.Error(err),
			zap.String("holder_id", holderID.String()),
		)
		return nil, fmt.Errorf("find payments by holder ID %s: %w", holderID.String(), err)
	}
	defer rows.Close()

	return scanPayments(rows, r.log)
}

func (r *paymentRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE reservation_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		r.log.Error("Failed to find payments by reservation ID",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find payments by reservation ID %s: %w", reservationID.String(), err)
	}
	defer rows.Close()

	return scanPayments(rows, r.log)
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, transactionID *string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'completed', transaction_id = COALESCE($2, transaction_id)
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, transactionID)
	if err != nil {
		r.log.Error("Failed to mark payment completed",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return false, fmt.Errorf("mark payment %s completed: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE payments SET status = 'failed' WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark payment failed",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return false, fmt.Errorf("mark payment %s failed: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *paymentRepository) FlagReconciliation(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE payments SET needs_reconciliation = TRUE WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to flag payment for reconciliation",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("flag payment %s for reconciliation: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrPaymentNotFound
	}

	return nil
}

func scanPayments(rows pgx.Rows, log *zap.Logger) ([]*entity.Payment, error) {
	var payments []*entity.Payment
	for rows.Next() {
		var payment entity.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.ReservationID,
			&payment.HolderID,
			&payment.EventID,
			&payment.Amount,
			&payment.Method,
			&payment.TransactionID,
			&payment.Status,
			&payment.NeedsReconciliation,
			&payment.CreatedAt,
		)
		if err != nil {
			log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, &payment)
	}

	return payments, nil
}
