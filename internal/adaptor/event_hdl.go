package adaptor

import (
	"encoding/json"
	"net/http"

	"event-marketplace/internal/dto/request"
	"event-marketplace/internal/usecase"
	"event-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// CreateEvent handles POST /api/events (organizer)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), organizerID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// GetEvent handles GET /api/events/{id} (public)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, h.log, err, "get event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// ListApprovedEvents handles GET /api/events (public)
func (h *EventHandler) ListApprovedEvents(w http.ResponseWriter, r *http.Request) {
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
		PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 20),
	}

	events, err := h.service.ListApprovedEvents(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list approved events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// UpdateEventStatus handles PATCH /api/admin/events/{id}/status (admin)
func (h *EventHandler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	var req request.UpdateEventStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.UpdateEventStatus(r.Context(), eventID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update event status")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// AdjustSeats handles PATCH /api/events/{id}/seats (organizer)
func (h *EventHandler) AdjustSeats(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	var req request.AdjustSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.AdjustSeats(r.Context(), organizerID.String(), eventID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "adjust seats")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// CancelEvent handles PUT /api/admin/events/{id}/cancel (admin).
// Rejects the event and cascades cancellation across its unpaid reservations.
func (h *EventHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	result, err := h.service.CancelEvent(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel event")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
