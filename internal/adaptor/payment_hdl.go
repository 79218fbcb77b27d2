package adaptor

import (
	"encoding/json"
	"net/http"

	"event-marketplace/internal/dto/request"
	"event-marketplace/internal/usecase"
	"event-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/pay (protected)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	holderID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	var req request.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.InitiatePayment(r.Context(), holderID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "initiate payment")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// SettlePayment handles POST /api/pay/verify (protected). This is the
// verification surface the gateway callback or the client hits once the
// external payment attempt finished.
func (h *PaymentHandler) SettlePayment(w http.ResponseWriter, r *http.Request) {
	holderID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	var req request.SettlePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.SettlePayment(r.Context(), holderID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "settle payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetHolderPayments handles GET /api/user/payments (protected)
func (h *PaymentHandler) GetHolderPayments(w http.ResponseWriter, r *http.Request) {
	holderID, ok := utils.GetHolderIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Holder identity required")
		return
	}

	payments, err := h.service.GetHolderPayments(r.Context(), holderID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get holder payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}
