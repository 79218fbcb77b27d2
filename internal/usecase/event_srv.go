package usecase

import (
	"context"
	"fmt"
	"time"

	"event-marketplace/internal/data/entity"
	"event-marketplace/internal/data/repository"
	"event-marketplace/internal/dto/request"
	"event-marketplace/internal/dto/response"
	"event-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	CreateEvent(ctx context.Context, organizerID string, req *request.CreateEventRequest) (*response.EventResponse, error)
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
	ListApprovedEvents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error)
	UpdateEventStatus(ctx context.Context, eventID string, req *request.UpdateEventStatusRequest) (*response.EventResponse, error)
	AdjustSeats(ctx context.Context, organizerID, eventID string, req *request.AdjustSeatsRequest) (*response.EventResponse, error)

	// CancelEvent rejects the event and cascades cancellation over its
	// reserved (unpaid) reservations.
	CancelEvent(ctx context.Context, eventID string) (*response.CancelEventResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewEventService(repo *repository.Repository, config *utils.Config, log *zap.Logger) EventService {
	return &eventService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "event")),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, organizerID string, req *request.CreateEventRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create event validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	organizerUUID, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, fmt.Errorf("invalid organizer ID format %s: %w", organizerID, err)
	}

	now := time.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrganizerID:    organizerUUID,
		Title:          req.Title,
		Price:          req.Price,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         entity.EventStatusPending,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("organizer_id", organizerID),
		zap.Int("total_seats", event.TotalSeats),
	)

	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, entity.ErrEventNotFound
	}

	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) ListApprovedEvents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error) {
	events, err := s.repo.Event.FindApproved(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list approved events: %w", err)
	}

	total, err := s.repo.Event.CountApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("count approved events: %w", err)
	}

	eventResponses := make([]response.EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = response.EventToResponse(event)
	}

	return response.NewPaginatedResponse(eventResponses, req.Page, req.PerPage, total), nil
}

// UpdateEventStatus is the plain moderation path (approve/reject a pending
// event) without cascading; cancelling a live event goes through CancelEvent.
func (s *eventService) UpdateEventStatus(ctx context.Context, eventID string, req *request.UpdateEventStatusRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update event status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	if err := s.repo.Event.UpdateStatus(ctx, id, entity.EventStatus(req.Status)); err != nil {
		return nil, err
	}

	s.log.Info("Event status updated",
		zap.String("event_id", eventID),
		zap.String("status", req.Status),
	)

	return s.GetEvent(ctx, eventID)
}

func (s *eventService) AdjustSeats(ctx context.Context, organizerID, eventID string, req *request.AdjustSeatsRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Adjust seats validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	organizerUUID, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, fmt.Errorf("invalid organizer ID format %s: %w", organizerID, err)
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("adjust seats for event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, entity.ErrEventNotFound
	}
	if event.OrganizerID != organizerUUID {
		return nil, entity.ErrForbidden
	}

	adjusted, err := s.repo.Event.AdjustTotalSeats(ctx, id, req.Delta)
	if err != nil {
		return nil, err
	}

	s.log.Info("Event capacity adjusted",
		zap.String("event_id", eventID),
		zap.Int("delta", req.Delta),
		zap.Int("total_seats", adjusted.TotalSeats),
		zap.Int("available_seats", adjusted.AvailableSeats),
	)

	resp := response.EventToResponse(adjusted)
	return &resp, nil
}

// CancelEvent rejects the event, freezing new bookings, then fans
// cancellation out over every reservation still in reserved state. Completed
// (paid) bookings are left alone; refunds are a separate process. The fan-out
// is best-effort: one stuck record does not abort the rest, and the event
// ends up rejected regardless.
func (s *eventService) CancelEvent(ctx context.Context, eventID string) (*response.CancelEventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, entity.ErrEventNotFound
	}

	// Already-rejected is success; the cascade below still sweeps any
	// reserved stragglers from a previously interrupted cancellation.
	if event.Status != entity.EventStatusRejected {
		if err := s.repo.Event.UpdateStatus(ctx, id, entity.EventStatusRejected); err != nil {
			return nil, fmt.Errorf("reject event %s: %w", eventID, err)
		}
	}

	reserved, err := s.repo.Reservation.FindReservedByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reserved reservations for event %s: %w", eventID, err)
	}

	result := &response.CancelEventResponse{EventID: eventID}
	for _, reservation := range reserved {
		if err := cancelReservedReservation(ctx, s.repo, s.config, s.log, reservation); err != nil {
			s.log.Warn("Cascade cancellation failed for reservation",
				zap.Error(err),
				zap.String("event_id", eventID),
				zap.String("reservation_id", reservation.ID.String()),
			)
			result.Failures = append(result.Failures, response.CancelFailureDetail{
				ReservationID: reservation.ID.String(),
				Reason:        err.Error(),
			})
			continue
		}
		result.CancelledCount++
	}

	s.log.Info("Event cancelled",
		zap.String("event_id", eventID),
		zap.Int("cancelled", result.CancelledCount),
		zap.Int("failed", len(result.Failures)),
	)

	return result, nil
}
