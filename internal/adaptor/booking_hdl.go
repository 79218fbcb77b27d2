package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"event-marketplace/internal/dto/request"
	"event-marketplace/internal/usecase"
	"event-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/reservations (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	holderID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.CreateBooking(r.Context(), holderID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// CancelBooking handles PUT /api/reservations/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	holderID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	reservationID := chi.URLParam(r, "id")
	if reservationID == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	if err := h.service.CancelBooking(r.Context(), holderID.String(), reservationID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetHolderReservations handles GET /api/user/reservations (protected)
func (h *BookingHandler) GetHolderReservations(w http.ResponseWriter, r *http.Request) {
	holderID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
		PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 10),
	}

	reservations, err := h.service.GetHolderReservations(r.Context(), holderID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get holder reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetEventReservations handles GET /api/admin/events/{id}/reservations (admin)
func (h *BookingHandler) GetEventReservations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	reservations, err := h.service.GetEventReservations(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, h.log, err, "get event reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// ExpireStaleReservations handles POST /api/admin/reservations/expire.
// Hook for an external scheduler; the request may override the sweep age.
func (h *BookingHandler) ExpireStaleReservations(w http.ResponseWriter, r *http.Request) {
	var req request.ExpireReservationsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	maxAge := time.Duration(req.MaxAgeHours) * time.Hour

	result, err := h.service.ExpireStaleReservations(r.Context(), maxAge)
	if err != nil {
		handleServiceError(w, h.log, err, "expire stale reservations")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
