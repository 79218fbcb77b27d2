package wire

import (
	"event-marketplace/internal/adaptor"
	"event-marketplace/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (holder identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.HolderIdentity(log))

		// POST /api/reservations - Book N tickets for an event
		r.Post("/api/reservations", bookingHandler.CreateBooking)

		// PUT /api/reservations/{id}/cancel - Cancel own reservation (idempotent)
		r.Put("/api/reservations/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/reservations - Holder's booking history
		r.Get("/api/user/reservations", bookingHandler.GetHolderReservations)
	})

	// ==================== SCHEDULER / ADMIN ROUTES ====================
	r.Route("/api/admin/reservations", func(r chi.Router) {
		r.Use(middleware.HolderIdentity(log))

		// POST /api/admin/reservations/expire - Sweep stale unpaid reservations
		r.Post("/expire", bookingHandler.ExpireStaleReservations)
	})
}
