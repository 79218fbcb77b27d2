package wire

import (
	"event-marketplace/internal/adaptor"
	"event-marketplace/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.HolderIdentity(log))

		// POST /api/pay - Open a pending payment for a reservation
		r.Post("/api/pay", paymentHandler.InitiatePayment)

		// POST /api/pay/verify - Settle a payment outcome (idempotent)
		r.Post("/api/pay/verify", paymentHandler.SettlePayment)

		// GET /api/user/payments - Holder's payment history
		r.Get("/api/user/payments", paymentHandler.GetHolderPayments)
	})
}
