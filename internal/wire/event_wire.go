package wire

import (
	"event-marketplace/internal/adaptor"
	"event-marketplace/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	bookingHandler *adaptor.BookingHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/events - List approved events (public)
	r.Get("/api/events", eventHandler.ListApprovedEvents)

	// GET /api/events/{id} - Event details with live seat availability (public)
	r.Get("/api/events/{id}", eventHandler.GetEvent)

	// ==================== ORGANIZER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.HolderIdentity(log))

		// POST /api/events - Create event inventory (pending approval)
		r.Post("/api/events", eventHandler.CreateEvent)

		// PATCH /api/events/{id}/seats - Adjust seat capacity (owner only)
		r.Patch("/api/events/{id}/seats", eventHandler.AdjustSeats)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/events", func(r chi.Router) {
		r.Use(middleware.HolderIdentity(log))

		// PATCH /api/admin/events/{id}/status - Approve/reject event
		r.Patch("/{id}/status", eventHandler.UpdateEventStatus)

		// PUT /api/admin/events/{id}/cancel - Cancel event, cascade reservations
		r.Put("/{id}/cancel", eventHandler.CancelEvent)

		// GET /api/admin/events/{id}/reservations - All reservations of an event
		r.Get("/{id}/reservations", bookingHandler.GetEventReservations)
	})
}
