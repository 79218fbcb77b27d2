package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"event-marketplace/internal/data/entity"
	"event-marketplace/internal/dto/request"

	"github.com/google/uuid"
)

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	holderID := uuid.New().String()

	t.Run("creates reservation and decrements seats", func(t *testing.T) {
		event := approvedEvent(10, 50.0)
		env := newTestEnv([]*entity.Event{event}, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		resp, err := svc.CreateBooking(ctx, holderID, &request.CreateBookingRequest{
			EventID:        event.ID.String(),
			TicketQuantity: 3,
		})
		if err != nil {
			t.Fatalf("CreateBooking returned error: %v", err)
		}

		if resp.Status != entity.ReservationStatusReserved {
			t.Errorf("status = %s, want reserved", resp.Status)
		}
		if resp.TotalPrice != 150.0 {
			t.Errorf("total price = %.2f, want 150.00", resp.TotalPrice)
		}
		if got := env.inventory.available(event.ID); got != 7 {
			t.Errorf("available seats = %d, want 7", got)
		}
	})

	t.Run("price snapshot survives later price change", func(t *testing.T) {
		event := approvedEvent(10, 50.0)
		env := newTestEnv([]*entity.Event{event}, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		resp, err := svc.CreateBooking(ctx, holderID, &request.CreateBookingRequest{
			EventID:        event.ID.String(),
			TicketQuantity: 2,
		})
		if err != nil {
			t.Fatalf("CreateBooking returned error: %v", err)
		}

		env.inventory.mu.Lock()
		env.inventory.events[event.ID].Price = 99.0
		env.inventory.mu.Unlock()

		stored := env.reservations.get(uuid.MustParse(resp.ID))
		if stored.TotalPrice != 100.0 {
			t.Errorf("stored total price = %.2f, want snapshot 100.00", stored.TotalPrice)
		}
	})

	t.Run("rejects when seats are insufficient", func(t *testing.T) {
		event := approvedEvent(2, 50.0)
		env := newTestEnv([]*entity.Event{event}, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		_, err := svc.CreateBooking(ctx, holderID, &request.CreateBookingRequest{
			EventID:        event.ID.String(),
			TicketQuantity: 3,
		})
		if !errors.Is(err, entity.ErrInsufficientSeats) {
			t.Fatalf("err = %v, want ErrInsufficientSeats", err)
		}
		if got := env.inventory.available(event.ID); got != 2 {
			t.Errorf("available seats = %d, want unchanged 2", got)
		}
	})

	t.Run("rejects unapproved event", func(t *testing.T) {
		event := approvedEvent(10, 50.0)
		event.Status = entity.EventStatusPending
		env := newTestEnv([]*entity.Event{event}, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		_, err := svc.CreateBooking(ctx, holderID, &request.CreateBookingRequest{
			EventID:        event.ID.String(),
			TicketQuantity: 1,
		})
		if !errors.Is(err, entity.ErrEventNotBookable) {
			t.Fatalf("err = %v, want ErrEventNotBookable", err)
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		env := newTestEnv(nil, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		_, err := svc.CreateBooking(ctx, holderID, &request.CreateBookingRequest{
			EventID:        uuid.New().String(),
			TicketQuantity: 1,
		})
		if !errors.Is(err, entity.ErrEventNotFound) {
			t.Fatalf("err = %v, want ErrEventNotFound", err)
		}
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		event := approvedEvent(10, 50.0)
		env := newTestEnv([]*entity.Event{event}, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		_, err := svc.CreateBooking(ctx, holderID, &request.CreateBookingRequest{
			EventID:        event.ID.String(),
			TicketQuantity: 0,
		})
		if err == nil {
			t.Fatal("expected validation error for zero quantity")
		}
	})

	t.Run("concurrent requests never oversell", func(t *testing.T) {
		event := approvedEvent(10, 50.0)
		env := newTestEnv([]*entity.Event{event}, nil, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
					EventID:        event.ID.String(),
					TicketQuantity: 6,
				})
			}(i)
		}
		wg.Wait()

		var succeeded, refused int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, entity.ErrInsufficientSeats):
				refused++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 || refused != 1 {
			t.Fatalf("succeeded = %d, refused = %d; want exactly one of each", succeeded, refused)
		}
		if got := env.inventory.available(event.ID); got != 4 {
			t.Errorf("available seats = %d, want 4", got)
		}
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	holderID := uuid.New()

	setup := func(t *testing.T) (*testEnv, *entity.Event, *entity.Reservation, BookingService) {
		t.Helper()
		event := approvedEvent(10, 50.0)
		reservation := reservedReservation(event.ID, holderID, 4, event.Price)
		event.AvailableSeats = 6
		env := newTestEnv([]*entity.Event{event}, []*entity.Reservation{reservation}, nil)
		return env, event, reservation, NewBookingService(env.repo, env.config, env.notifier, env.log)
	}

	t.Run("returns seats and marks cancelled", func(t *testing.T) {
		env, event, reservation, svc := setup(t)

		if err := svc.CancelBooking(ctx, holderID.String(), reservation.ID.String()); err != nil {
			t.Fatalf("CancelBooking returned error: %v", err)
		}

		if got := env.reservations.get(reservation.ID).Status; got != entity.ReservationStatusCancelled {
			t.Errorf("status = %s, want cancelled", got)
		}
		if got := env.inventory.available(event.ID); got != 10 {
			t.Errorf("available seats = %d, want 10", got)
		}
	})

	t.Run("second cancel is a no-op, seats released once", func(t *testing.T) {
		env, event, reservation, svc := setup(t)

		if err := svc.CancelBooking(ctx, holderID.String(), reservation.ID.String()); err != nil {
			t.Fatalf("first cancel: %v", err)
		}
		if err := svc.CancelBooking(ctx, holderID.String(), reservation.ID.String()); err != nil {
			t.Fatalf("second cancel: %v", err)
		}

		if got := env.inventory.available(event.ID); got != 10 {
			t.Errorf("available seats = %d, want 10 after double cancel", got)
		}
	})

	t.Run("never cancels a completed reservation", func(t *testing.T) {
		env, event, reservation, svc := setup(t)
		env.reservations.mu.Lock()
		env.reservations.reservations[reservation.ID].Status = entity.ReservationStatusCompleted
		env.reservations.mu.Unlock()

		err := svc.CancelBooking(ctx, holderID.String(), reservation.ID.String())
		if !errors.Is(err, entity.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
		if got := env.inventory.available(event.ID); got != 6 {
			t.Errorf("available seats = %d, want unchanged 6", got)
		}
	})

	t.Run("rejects another holder's reservation", func(t *testing.T) {
		_, _, reservation, svc := setup(t)

		err := svc.CancelBooking(ctx, uuid.New().String(), reservation.ID.String())
		if !errors.Is(err, entity.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		_, _, _, svc := setup(t)

		err := svc.CancelBooking(ctx, holderID.String(), uuid.New().String())
		if !errors.Is(err, entity.ErrReservationNotFound) {
			t.Fatalf("err = %v, want ErrReservationNotFound", err)
		}
	})

	t.Run("escalates when the seat row is gone", func(t *testing.T) {
		env, event, reservation, svc := setup(t)
		env.inventory.mu.Lock()
		delete(env.inventory.events, event.ID)
		env.inventory.mu.Unlock()

		err := svc.CancelBooking(ctx, holderID.String(), reservation.ID.String())
		if !errors.Is(err, entity.ErrCompensationFailed) {
			t.Fatalf("err = %v, want ErrCompensationFailed", err)
		}
	})
}

func TestExpireStaleReservations(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels only reservations past the cutoff", func(t *testing.T) {
		event := approvedEvent(20, 10.0)
		stale := reservedReservation(event.ID, uuid.New(), 5, event.Price)
		stale.CreatedAt = time.Now().Add(-48 * time.Hour)
		fresh := reservedReservation(event.ID, uuid.New(), 3, event.Price)
		event.AvailableSeats = 12

		env := newTestEnv([]*entity.Event{event}, []*entity.Reservation{stale, fresh}, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		result, err := svc.ExpireStaleReservations(ctx, 24*time.Hour)
		if err != nil {
			t.Fatalf("ExpireStaleReservations returned error: %v", err)
		}

		if result.ReleasedCount != 1 {
			t.Errorf("released = %d, want 1", result.ReleasedCount)
		}
		if len(result.Failures) != 0 {
			t.Errorf("failures = %v, want none", result.Failures)
		}
		if got := env.reservations.get(stale.ID).Status; got != entity.ReservationStatusCancelled {
			t.Errorf("stale status = %s, want cancelled", got)
		}
		if got := env.reservations.get(fresh.ID).Status; got != entity.ReservationStatusReserved {
			t.Errorf("fresh status = %s, want reserved", got)
		}
		if got := env.inventory.available(event.ID); got != 17 {
			t.Errorf("available seats = %d, want 17", got)
		}
	})

	t.Run("zero max age falls back to configured default", func(t *testing.T) {
		event := approvedEvent(10, 10.0)
		old := reservedReservation(event.ID, uuid.New(), 2, event.Price)
		old.CreatedAt = time.Now().Add(-25 * time.Hour)
		event.AvailableSeats = 8

		env := newTestEnv([]*entity.Event{event}, []*entity.Reservation{old}, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		result, err := svc.ExpireStaleReservations(ctx, 0)
		if err != nil {
			t.Fatalf("ExpireStaleReservations returned error: %v", err)
		}
		if result.ReleasedCount != 1 {
			t.Errorf("released = %d, want 1 with default 24h cutoff", result.ReleasedCount)
		}
	})

	t.Run("reports per-reservation failures without aborting", func(t *testing.T) {
		orphanEvent := uuid.New()
		event := approvedEvent(10, 10.0)
		event.AvailableSeats = 7
		good := reservedReservation(event.ID, uuid.New(), 3, event.Price)
		good.CreatedAt = time.Now().Add(-48 * time.Hour)
		orphan := reservedReservation(orphanEvent, uuid.New(), 2, 10.0)
		orphan.CreatedAt = time.Now().Add(-48 * time.Hour)

		env := newTestEnv([]*entity.Event{event}, []*entity.Reservation{good, orphan}, nil)
		svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

		result, err := svc.ExpireStaleReservations(ctx, 24*time.Hour)
		if err != nil {
			t.Fatalf("ExpireStaleReservations returned error: %v", err)
		}
		if result.ReleasedCount != 1 {
			t.Errorf("released = %d, want 1", result.ReleasedCount)
		}
		if len(result.Failures) != 1 || result.Failures[0].ReservationID != orphan.ID.String() {
			t.Errorf("failures = %v, want the orphaned reservation", result.Failures)
		}
	})
}

func TestGetHolderReservations(t *testing.T) {
	ctx := context.Background()
	holderID := uuid.New()

	event := approvedEvent(10, 10.0)
	mine := reservedReservation(event.ID, holderID, 1, event.Price)
	other := reservedReservation(event.ID, uuid.New(), 1, event.Price)

	env := newTestEnv([]*entity.Event{event}, []*entity.Reservation{mine, other}, nil)
	svc := NewBookingService(env.repo, env.config, env.notifier, env.log)

	resp, err := svc.GetHolderReservations(ctx, holderID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("GetHolderReservations returned error: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != mine.ID.String() {
		t.Fatalf("got %d reservations, want only the holder's own", len(resp.Data))
	}
	if resp.Pagination.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Pagination.Total)
	}
}
