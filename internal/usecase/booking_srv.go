package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-marketplace/internal/data/entity"
	"event-marketplace/internal/data/repository"
	"event-marketplace/internal/dto/request"
	"event-marketplace/internal/dto/response"
	"event-marketplace/pkg/database"
	"event-marketplace/pkg/notify"
	"event-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Booking flow (butuh holder identity)
	CreateBooking(ctx context.Context, holderID string, req *request.CreateBookingRequest) (*response.ReservationResponse, error)
	CancelBooking(ctx context.Context, holderID string, reservationID string) error
	GetHolderReservations(ctx context.Context, holderID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)

	// Collaborator projections / hooks
	GetEventReservations(ctx context.Context, eventID string) ([]response.ReservationResponse, error)
	ExpireStaleReservations(ctx context.Context, maxAge time.Duration) (*response.ExpireReservationsResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	config   *utils.Config
	notifier notify.Notifier
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, config *utils.Config, notifier notify.Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		config:   config,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

// CreateBooking turns a request for N tickets into a reservation. The seat
// decrement and the reservation insert commit as one transaction, so a failed
// insert rolls the decrement back; there is no window where seats are taken
// without a reservation recording them.
func (s *bookingService) CreateBooking(ctx context.Context, holderID string, req *request.CreateBookingRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}

	if req.TicketQuantity < 1 {
		return nil, entity.ErrInvalidQuantity
	}

	var reservation *entity.Reservation

	err = database.WithRetry(ctx, s.log, s.config.Booking.RetryAttempts, func(ctx context.Context) error {
		return s.repo.Tx.WithTx(ctx, func(txCtx context.Context) error {
			// Atomic conditional decrement; also snapshots the unit price so
			// later price edits never change what this booking owes.
			unitPrice, err := s.repo.Event.Reserve(txCtx, eventID, req.TicketQuantity)
			if err != nil {
				return err
			}

			reservation = &entity.Reservation{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: time.Now(),
				},
				EventID:        eventID,
				HolderID:       holderUUID,
				TicketQuantity: req.TicketQuantity,
				TotalPrice:     unitPrice * float64(req.TicketQuantity),
				Status:         entity.ReservationStatusReserved,
			}

			return s.repo.Reservation.Create(txCtx, reservation)
		})
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("holder_id", holderID),
			zap.String("event_id", req.EventID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("event_id", req.EventID),
		zap.String("holder_id", holderID),
		zap.Int("quantity", req.TicketQuantity),
		zap.Float64("total_price", reservation.TotalPrice),
	)

	// Fire-and-forget; a failed notification never rolls back the booking.
	go s.notifier.BookingConfirmed(context.WithoutCancel(ctx), notify.BookingNotice{
		ReservationID: reservation.ID.String(),
		EventID:       reservation.EventID.String(),
		HolderID:      reservation.HolderID.String(),
		Quantity:      reservation.TicketQuantity,
		TotalPrice:    reservation.TotalPrice,
	})

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// CancelBooking records the cancellation and returns the held seats. An
// already-cancelled reservation is success, not an error, so retries and
// double-clicks stay harmless. A completed (paid) reservation is never
// cancelled here; refunds are a separate product concern.
func (s *bookingService) CancelBooking(ctx context.Context, holderID string, reservationID string) error {
	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	id, err := uuid.Parse(reservationID)
	if err != nil {
		return fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", reservationID, err)
	}
	if reservation == nil {
		return entity.ErrReservationNotFound
	}
	if reservation.HolderID != holderUUID {
		return entity.ErrForbidden
	}

	if reservation.Status == entity.ReservationStatusCancelled {
		return nil
	}
	if reservation.Status == entity.ReservationStatusCompleted {
		return entity.ErrInvalidTransition
	}

	if err := cancelReservedReservation(ctx, s.repo, s.config, s.log, reservation); err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("reservation_id", reservationID),
		zap.String("event_id", reservation.EventID.String()),
		zap.Int("quantity", reservation.TicketQuantity),
	)

	go s.notifier.BookingCancelled(context.WithoutCancel(ctx), notify.BookingNotice{
		ReservationID: reservation.ID.String(),
		EventID:       reservation.EventID.String(),
		HolderID:      reservation.HolderID.String(),
		Quantity:      reservation.TicketQuantity,
	})

	return nil
}

func (s *bookingService) GetHolderReservations(ctx context.Context, holderID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	reservations, err := s.repo.Reservation.FindByHolderID(ctx, holderUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get holder reservations",
			zap.Error(err),
			zap.String("holder_id", holderID),
		)
		return nil, fmt.Errorf("get holder reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByHolderID(ctx, holderUUID)
	if err != nil {
		s.log.Error("Failed to count holder reservations", zap.Error(err))
		return nil, fmt.Errorf("count holder reservations: %w", err)
	}

	reservationResponses := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		reservationResponses[i] = response.ReservationToResponse(reservation)
	}

	return response.NewPaginatedResponse(reservationResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetEventReservations(ctx context.Context, eventID string) ([]response.ReservationResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	reservations, err := s.repo.Reservation.FindByEventID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get event reservations",
			zap.Error(err),
			zap.String("event_id", eventID),
		)
		return nil, fmt.Errorf("get event reservations: %w", err)
	}

	reservationResponses := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		reservationResponses[i] = response.ReservationToResponse(reservation)
	}

	return reservationResponses, nil
}

// ExpireStaleReservations is the hook for an external scheduler: every
// reservation still reserved after maxAge is funnelled through the normal
// cancel path, seats included. Failures are reported, not fatal; the next
// sweep picks the stragglers up again.
func (s *bookingService) ExpireStaleReservations(ctx context.Context, maxAge time.Duration) (*response.ExpireReservationsResponse, error) {
	if maxAge <= 0 {
		maxAge = time.Duration(s.config.Booking.StaleAgeHours) * time.Hour
	}
	cutoff := time.Now().Add(-maxAge)

	stale, err := s.repo.Reservation.FindStaleReserved(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find stale reservations: %w", err)
	}

	result := &response.ExpireReservationsResponse{}
	for _, reservation := range stale {
		if err := cancelReservedReservation(ctx, s.repo, s.config, s.log, reservation); err != nil {
			result.Failures = append(result.Failures, response.CancelFailureDetail{
				ReservationID: reservation.ID.String(),
				Reason:        err.Error(),
			})
			continue
		}
		result.ReleasedCount++
	}

	s.log.Info("Stale reservations expired",
		zap.Duration("max_age", maxAge),
		zap.Int("released", result.ReleasedCount),
		zap.Int("failed", len(result.Failures)),
	)

	return result, nil
}

// cancelReservedReservation applies reserved -> cancelled and releases the
// seats as one transaction, retried on transient conflicts. Shared by the
// holder cancel path, the event cascade, and the expiry sweep so every
// cancellation follows the same seat-release discipline.
//
// When the cancellation committed but the release could not be applied inside
// the same transaction (seat row missing), the error is escalated as a
// compensation failure: seats may be stuck reserved and an operator has to
// look at it, so it is logged at error level and never swallowed.
func cancelReservedReservation(
	ctx context.Context,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
	reservation *entity.Reservation,
) error {
	err := database.WithRetry(ctx, log, config.Booking.RetryAttempts, func(ctx context.Context) error {
		return repo.Tx.WithTx(ctx, func(txCtx context.Context) error {
			applied, err := repo.Reservation.MarkCancelled(txCtx, reservation.ID)
			if err != nil {
				return err
			}
			if !applied {
				// Lost a race: someone else moved the reservation first.
				current, err := repo.Reservation.FindByID(txCtx, reservation.ID)
				if err != nil {
					return err
				}
				if current == nil {
					return entity.ErrReservationNotFound
				}
				if current.Status == entity.ReservationStatusCancelled {
					return nil
				}
				return entity.ErrInvalidTransition
			}

			if err := repo.Event.Release(txCtx, reservation.EventID, reservation.TicketQuantity); err != nil {
				if errors.Is(err, entity.ErrEventNotFound) {
					return fmt.Errorf("%w: reservation %s holds %d seats of missing event %s",
						entity.ErrCompensationFailed,
						reservation.ID.String(),
						reservation.TicketQuantity,
						reservation.EventID.String(),
					)
				}
				return err
			}

			reservation.Status = entity.ReservationStatusCancelled
			return nil
		})
	})

	if errors.Is(err, entity.ErrCompensationFailed) {
		log.Error("Seat release compensation failed, manual reconciliation required",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("event_id", reservation.EventID.String()),
			zap.Int("quantity", reservation.TicketQuantity),
		)
	}

	return err
}

// isDomainError reports whether err is an expected, recoverable outcome that
// should reach the caller untouched instead of being wrapped as a fault.
func isDomainError(err error) bool {
	return errors.Is(err, entity.ErrEventNotFound) ||
		errors.Is(err, entity.ErrEventNotBookable) ||
		errors.Is(err, entity.ErrInsufficientSeats) ||
		errors.Is(err, entity.ErrReservationNotFound) ||
		errors.Is(err, entity.ErrPaymentNotFound) ||
		errors.Is(err, entity.ErrForbidden) ||
		errors.Is(err, entity.ErrInvalidTransition) ||
		errors.Is(err, entity.ErrInvalidQuantity) ||
		errors.Is(err, entity.ErrSeatsExhausted)
}
