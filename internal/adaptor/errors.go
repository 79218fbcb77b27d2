package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"event-marketplace/internal/data/entity"
	"event-marketplace/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps domain errors to HTTP responses. Expected outcomes
// (no seats, event closed) are 400-class conditions, not faults; anything
// unrecognized is a 500 and logged as such.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrReservationNotFound),
		errors.Is(err, entity.ErrPaymentNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, entity.ErrInsufficientSeats),
		errors.Is(err, entity.ErrEventNotBookable),
		errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrSeatsExhausted),
		errors.Is(err, entity.ErrInvalidTransition):
		log.Warn(operation+" failed - rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrSettlementConflict):
		log.Warn(operation+" failed - settlement conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
