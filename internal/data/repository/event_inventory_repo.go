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

// EventInventoryRepository owns the per-event seat counters. Reserve and
// Release are the only two writers of available_seats in the whole codebase;
// both are single conditional statements, never read-then-write.
type EventInventoryRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindApproved(ctx context.Context, limit, offset int) ([]*entity.Event, error)
	CountApproved(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error
	AdjustTotalSeats(ctx context.Context, id uuid.UUID, delta int) (*entity.Event, error)

	// Reserve atomically decrements available_seats when the event is
	// approved and has capacity, returning the current unit price as the
	// booking's price snapshot.
	Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (float64, error)
	// Release atomically returns seats, clamped at total_seats.
	Release(ctx context.Context, eventID uuid.UUID, quantity int) error
}

type eventInventoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventInventoryRepository(db database.PgxIface, log *zap.Logger) EventInventoryRepository {
	return &eventInventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "event_inventory")),
	}
}

func (r *eventInventoryRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, organizer_id, title, price, total_seats, available_seats, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.OrganizerID,
		event.Title,
		event.Price,
		event.TotalSeats,
		event.AvailableSeats,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return fmt.Errorf("create event %s: %w", event.ID.String(), err)
	}

	return nil
}

func (r *eventInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, organizer_id, title, price, total_seats, available_seats, status, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event entity.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Price,
		&event.TotalSeats,
		&event.AvailableSeats,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *eventInventoryRepository) FindApproved(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	query := `
		SELECT id, organizer_id, title, price, total_seats, available_seats, status, created_at, updated_at
		FROM events
		WHERE status = 'approved'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find approved events", zap.Error(err))
		return nil, fmt.Errorf("find approved events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		err := rows.Scan(
			&event.ID,
			&event.OrganizerID,
			&event.Title,
			&event.Price,
			&event.TotalSeats,
			&event.AvailableSeats,
			&event.Status,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *eventInventoryRepository) CountApproved(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM events WHERE status = 'approved'`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count approved events", zap.Error(err))
		return 0, fmt.Errorf("count approved events: %w", err)
	}

	return count, nil
}

func (r *eventInventoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update event status",
			zap.Error(err),
			zap.String("event_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update event %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

// AdjustTotalSeats applies the same delta to total and available seats in one
// statement. A shrink is refused when it would cut into already-sold seats.
func (r *eventInventoryRepository) AdjustTotalSeats(ctx context.Context, id uuid.UUID, delta int) (*entity.Event, error) {
	query := `
		UPDATE events
		SET total_seats = total_seats + $2,
		    available_seats = available_seats + $2,
		    updated_at = NOW()
		WHERE id = $1 AND total_seats + $2 >= 0 AND available_seats + $2 >= 0
		RETURNING id, organizer_id, title, price, total_seats, available_seats, status, created_at, updated_at
	`

	var event entity.Event
	err := r.db.QueryRow(ctx, query, id, delta).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Price,
		&event.TotalSeats,
		&event.AvailableSeats,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		existing, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, entity.ErrEventNotFound
		}
		return nil, entity.ErrSeatsExhausted
	}
	if err != nil {
		r.log.Error("Failed to adjust total seats",
			zap.Error(err),
			zap.String("event_id", id.String()),
			zap.Int("delta", delta),
		)
		return nil, fmt.Errorf("adjust total seats for event %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *eventInventoryRepository) Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (float64, error) {
	// Single conditional decrement. The WHERE clause is the whole oversell
	// defence: the row only changes when the event is approved and still has
	// the requested capacity.
	query := `
		UPDATE events
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND status = 'approved' AND available_seats >= $2
		RETURNING price
	`

	var price float64
	err := r.db.QueryRow(ctx, query, eventID, quantity).Scan(&price)
	if err == pgx.ErrNoRows {
		return 0, r.classifyReserveFailure(ctx, eventID, quantity)
	}
	if err != nil {
		r.log.Error("Failed to reserve seats",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.Int("quantity", quantity),
		)
		return 0, fmt.Errorf("reserve %d seats for event %s: %w", quantity, eventID.String(), err)
	}

	return price, nil
}

// classifyReserveFailure turns a refused decrement into the specific domain
// error. The follow-up read is advisory only; the decrement itself already
// failed atomically.
func (r *eventInventoryRepository) classifyReserveFailure(ctx context.Context, eventID uuid.UUID, quantity int) error {
	event, err := r.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return entity.ErrEventNotFound
	}
	if !event.Bookable() {
		return entity.ErrEventNotBookable
	}

	r.log.Info("Reservation refused, insufficient seats",
		zap.String("event_id", eventID.String()),
		zap.Int("requested", quantity),
		zap.Int("available", event.AvailableSeats),
	)
	return entity.ErrInsufficientSeats
}

func (r *eventInventoryRepository) Release(ctx context.Context, eventID uuid.UUID, quantity int) error {
	// The CTE pins the pre-release value so a clamp at total_seats can be
	// detected. Exceeding the cap means a caller released seats it never
	// reserved; the counter is capped and the anomaly logged.
	query := `
		WITH prev AS (
			SELECT available_seats, total_seats FROM events WHERE id = $1 FOR UPDATE
		)
		UPDATE events
		SET available_seats = LEAST(events.available_seats + $2, events.total_seats),
		    updated_at = NOW()
		FROM prev
		WHERE events.id = $1
		RETURNING prev.available_seats, events.available_seats, events.total_seats
	`

	var before, after, total int
	err := r.db.QueryRow(ctx, query, eventID, quantity).Scan(&before, &after, &total)
	if err == pgx.ErrNoRows {
		return entity.ErrEventNotFound
	}
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.Int("quantity", quantity),
		)
		return fmt.Errorf("release %d seats for event %s: %w", quantity, eventID.String(), err)
	}

	if before+quantity > total {
		r.log.Error("Seat release clamped at total capacity, caller released unheld seats",
			zap.String("event_id", eventID.String()),
			zap.Int("quantity", quantity),
			zap.Int("before", before),
			zap.Int("after", after),
			zap.Int("total_seats", total),
		)
	}

	return nil
}
