package repository

import (
	"context"
	"fmt"
	"time"

	"event-marketplace/internal/data/entity"
	"event-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReservationRepository is pure bookkeeping for reservation records. State
// transitions are conditional updates guarded on the current status; the
// returned bool reports whether the transition actually applied, which is how
// the service layer distinguishes a no-op retry from an invalid transition.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByHolderID(ctx context.Context, holderID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByHolderID(ctx context.Context, holderID uuid.UUID) (int64, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Reservation, error)
	FindReservedByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Reservation, error)
	FindStaleReserved(ctx context.Context, cutoff time.Time) ([]*entity.Reservation, error)

	// MarkCancelled applies reserved -> cancelled; false when the row was not
	// in reserved state.
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkCompleted applies reserved -> completed; false when the row was not
	// in reserved state.
	MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error)
	SetPaymentID(ctx context.Context, id, paymentID uuid.UUID) error
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, event_id, holder_id, ticket_quantity, total_price, status, payment_id, created_at`

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, event_id, holder_id, ticket_quantity, total_price, status, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.EventID,
		reservation.HolderID,
		reservation.TicketQuantity,
		reservation.TotalPrice,
		reservation.Status,
		reservation.PaymentID,
		reservation.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("event_id", reservation.EventID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.EventID,
		&reservation.HolderID,
		&reservation.TicketQuantity,
		&reservation.TotalPrice,
		&reservation.Status,
		&reservation.PaymentID,
		&reservation.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return &reservation, nil
}

func (r *reservationRepository) FindByHolderID(ctx context.Context, holderID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE holder_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, holderID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by holder ID",
			zap.Error(err),
			zap.String("holder_id", holderID.String()),
		)
		return nil, fmt.Errorf("find reservations by holder ID %s: %w", holderID.String(), err)
	}
	defer rows.Close()

	return scanReservations(rows, r.log)
}

func (r *reservationRepository) CountByHolderID(ctx context.Context, holderID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE holder_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, holderID).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by holder ID",
			zap.Error(err),
			zap.String("holder_id", holderID.String()),
		)
		return 0, fmt.Errorf("count reservations by holder ID %s: %w", holderID.String(), err)
	}

	return count, nil
}

func (r *reservationRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE event_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find reservations by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find reservations by event ID %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return scanReservations(rows, r.log)
}

func (r *reservationRepository) FindReservedByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE event_id = $1 AND status = 'reserved'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find reserved reservations by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find reserved reservations by event ID %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return scanReservations(rows, r.log)
}

func (r *reservationRepository) FindStaleReserved(ctx context.Context, cutoff time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'reserved' AND created_at < $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to find stale reservations",
			zap.Error(err),
			zap.Time("cutoff", cutoff),
		)
		return nil, fmt.Errorf("find stale reservations before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return scanReservations(rows, r.log)
}

func (r *reservationRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE reservations SET status = 'cancelled' WHERE id = $1 AND status = 'reserved'`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark reservation cancelled",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("mark reservation %s cancelled: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *reservationRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE reservations SET status = 'completed' WHERE id = $1 AND status = 'reserved'`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark reservation completed",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("mark reservation %s completed: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *reservationRepository) SetPaymentID(ctx context.Context, id, paymentID uuid.UUID) error {
	query := `UPDATE reservations SET payment_id = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, paymentID)
	if err != nil {
		r.log.Error("Failed to set reservation payment ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("payment_id", paymentID.String()),
		)
		return fmt.Errorf("set payment ID on reservation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrReservationNotFound
	}

	return nil
}

func scanReservations(rows pgx.Rows, log *zap.Logger) ([]*entity.Reservation, error) {
	var reservations []*entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.EventID,
			&reservation.HolderID,
			&reservation.TicketQuantity,
			&reservation.TotalPrice,
			&reservation.Status,
			&reservation.PaymentID,
			&reservation.CreatedAt,
		)
		if err != nil {
			log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, &reservation)
	}

	return reservations, nil
}
