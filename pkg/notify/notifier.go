package notify

import (
	"context"

	"go.uber.org/zap"
)

// BookingNotice carries the details of a booking-related event pushed to the
// notification collaborator. Delivery is fire-and-forget: failures are logged
// and never roll back the booking that produced them.
type BookingNotice struct {
	ReservationID string
	EventID       string
	HolderID      string
	Quantity      int
	TotalPrice    float64
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, notice BookingNotice)
	BookingCancelled(ctx context.Context, notice BookingNotice)
}

// LogNotifier is the default sink. Real delivery (email, push) hangs off the
// same interface in the excluded notification service.
type LogNotifier struct {
	log     *zap.Logger
	enabled bool
}

func NewLogNotifier(log *zap.Logger, enabled bool) *LogNotifier {
	return &LogNotifier{
		log:     log.With(zap.String("component", "notifier")),
		enabled: enabled,
	}
}

func (n *LogNotifier) BookingConfirmed(_ context.Context, notice BookingNotice) {
	if !n.enabled {
		return
	}
	n.log.Info("Booking confirmed notification",
		zap.String("reservation_id", notice.ReservationID),
		zap.String("event_id", notice.EventID),
		zap.String("holder_id", notice.HolderID),
		zap.Int("quantity", notice.Quantity),
		zap.Float64("total_price", notice.TotalPrice),
	)
}

func (n *LogNotifier) BookingCancelled(_ context.Context, notice BookingNotice) {
	if !n.enabled {
		return
	}
	n.log.Info("Booking cancelled notification",
		zap.String("reservation_id", notice.ReservationID),
		zap.String("event_id", notice.EventID),
		zap.String("holder_id", notice.HolderID),
		zap.Int("quantity", notice.Quantity),
	)
}
