package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-marketplace/internal/data/entity"
	"event-marketplace/internal/data/repository"
	"event-marketplace/internal/dto/request"
	"event-marketplace/internal/dto/response"
	"event-marketplace/pkg/database"
	"event-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SettlementOutcomeSuccess = "success"
	SettlementOutcomeFailure = "failure"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, holderID string, req *request.InitiatePaymentRequest) (*response.PaymentResponse, error)
	SettlePayment(ctx context.Context, holderID string, req *request.SettlePaymentRequest) (*response.PaymentResponse, error)
	GetHolderPayments(ctx context.Context, holderID string) ([]response.PaymentResponse, error)
}

type paymentService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewPaymentService(repo *repository.Repository, config *utils.Config, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "payment")),
	}
}

// InitiatePayment opens a pending payment for a reserved reservation. The
// amount is always the reservation's snapshotted total price; the caller does
// not get to pick it.
func (s *paymentService) InitiatePayment(ctx context.Context, holderID string, req *request.InitiatePaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initiate payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", req.ReservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("initiate payment for reservation %s: %w", req.ReservationID, err)
	}
	if reservation == nil {
		return nil, entity.ErrReservationNotFound
	}
	if reservation.HolderID != holderUUID {
		return nil, entity.ErrForbidden
	}
	if reservation.Status != entity.ReservationStatusReserved {
		return nil, entity.ErrInvalidTransition
	}

	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ReservationID: reservation.ID,
		HolderID:      reservation.HolderID,
		EventID:       reservation.EventID,
		Amount:        reservation.TotalPrice,
		Method:        entity.PaymentMethod(req.Method),
		Status:        entity.PaymentStatusPending,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("reservation_id", req.ReservationID),
		)
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("Payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reservation_id", req.ReservationID),
		zap.String("method", req.Method),
		zap.Float64("amount", payment.Amount),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// SettlePayment finalizes a payment's outcome as reported by the gateway.
// Success promotes the reservation to completed in the same transaction. A
// success that races a concurrent cancellation is NOT finalized: the payment
// is parked for manual reconciliation so money and seats can be reconciled by
// an operator instead of being silently mismatched.
func (s *paymentService) SettlePayment(ctx context.Context, holderID string, req *request.SettlePaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Settle payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", req.PaymentID, err)
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("settle payment %s: %w", req.PaymentID, err)
	}
	if payment == nil {
		return nil, entity.ErrPaymentNotFound
	}
	if payment.HolderID != holderUUID {
		return nil, entity.ErrForbidden
	}

	if payment.Settled() {
		// Re-verification with the same outcome is a no-op; a conflicting
		// outcome after settlement is rejected.
		if sameOutcome(payment.Status, req.Outcome) {
			resp := response.PaymentToResponse(payment)
			return &resp, nil
		}
		return nil, entity.ErrInvalidTransition
	}

	switch req.Outcome {
	case SettlementOutcomeSuccess:
		return s.settleSuccess(ctx, payment, req.TransactionID)
	case SettlementOutcomeFailure:
		return s.settleFailure(ctx, payment)
	default:
		return nil, fmt.Errorf("invalid settlement outcome %q", req.Outcome)
	}
}

func (s *paymentService) settleSuccess(ctx context.Context, payment *entity.Payment, transactionID *string) (*response.PaymentResponse, error) {
	err := database.WithRetry(ctx, s.log, s.config.Booking.RetryAttempts, func(ctx context.Context) error {
		return s.repo.Tx.WithTx(ctx, func(txCtx context.Context) error {
			promoted, err := s.repo.Reservation.MarkCompleted(txCtx, payment.ReservationID)
			if err != nil {
				return err
			}
			if !promoted {
				current, err := s.repo.Reservation.FindByID(txCtx, payment.ReservationID)
				if err != nil {
					return err
				}
				if current == nil {
					return entity.ErrReservationNotFound
				}
				if current.Status == entity.ReservationStatusCancelled {
					// The genuine race: holder cancelled between checkout and
					// settlement. Abort promotion entirely.
					return entity.ErrSettlementConflict
				}
				// Already completed by an earlier settlement; fall through and
				// settle the payment record itself.
			}

			completed, err := s.repo.Payment.MarkCompleted(txCtx, payment.ID, transactionID)
			if err != nil {
				return err
			}
			if !completed {
				return entity.ErrInvalidTransition
			}

			return s.repo.Reservation.SetPaymentID(txCtx, payment.ReservationID, payment.ID)
		})
	})

	if errors.Is(err, entity.ErrSettlementConflict) {
		s.log.Error("Settlement raced a cancelled reservation, parking payment for reconciliation",
			zap.String("payment_id", payment.ID.String()),
			zap.String("reservation_id", payment.ReservationID.String()),
			zap.Float64("amount", payment.Amount),
		)
		if flagErr := s.repo.Payment.FlagReconciliation(ctx, payment.ID); flagErr != nil {
			s.log.Error("Failed to flag payment for reconciliation",
				zap.Error(flagErr),
				zap.String("payment_id", payment.ID.String()),
			)
		}
		return nil, entity.ErrSettlementConflict
	}
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to settle payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return nil, fmt.Errorf("settle payment %s: %w", payment.ID.String(), err)
	}

	settled, err := s.repo.Payment.FindByID(ctx, payment.ID)
	if err != nil || settled == nil {
		return nil, fmt.Errorf("reload settled payment %s: %w", payment.ID.String(), err)
	}

	s.log.Info("Payment settled",
		zap.String("payment_id", settled.ID.String()),
		zap.String("reservation_id", settled.ReservationID.String()),
		zap.String("status", string(settled.Status)),
		zap.Float64("amount", settled.Amount),
	)

	resp := response.PaymentToResponse(settled)
	return &resp, nil
}

// settleFailure records the failed attempt; the reservation stays reserved
// with its seats held so the holder can retry payment. Deliberate policy:
// held seats protect the shopper during retries at the cost of temporary
// inventory lock-up, bounded by the expiry sweep.
func (s *paymentService) settleFailure(ctx context.Context, payment *entity.Payment) (*response.PaymentResponse, error) {
	failed, err := s.repo.Payment.MarkFailed(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("settle payment %s: %w", payment.ID.String(), err)
	}
	if !failed {
		return nil, entity.ErrInvalidTransition
	}

	payment.Status = entity.PaymentStatusFailed

	s.log.Info("Payment failed, reservation keeps its seats",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reservation_id", payment.ReservationID.String()),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetHolderPayments(ctx context.Context, holderID string) ([]response.PaymentResponse, error) {
	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	payments, err := s.repo.Payment.FindByHolderID(ctx, holderUUID)
	if err != nil {
		s.log.Error("Failed to get holder payments",
			zap.Error(err),
			zap.String("holder_id", holderID),
		)
		return nil, fmt.Errorf("get holder payments: %w", err)
	}

	paymentResponses := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		paymentResponses[i] = response.PaymentToResponse(payment)
	}

	return paymentResponses, nil
}

func sameOutcome(status entity.PaymentStatus, outcome string) bool {
	switch outcome {
	case SettlementOutcomeSuccess:
		return status == entity.PaymentStatusCompleted
	case SettlementOutcomeFailure:
		return status == entity.PaymentStatusFailed
	default:
		return false
	}
}
