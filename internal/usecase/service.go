package usecase

import (
	"event-marketplace/internal/data/repository"
	"event-marketplace/pkg/notify"
	"event-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Payment PaymentService
	Event   EventService
}

func NewService(repo *repository.Repository, config *utils.Config, notifier notify.Notifier, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, config, notifier, log),
		Payment: NewPaymentService(repo, config, log),
		Event:   NewEventService(repo, config, log),
	}
}
