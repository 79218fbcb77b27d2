package usecase

import (
	"context"
	"sync"
	"time"

	"event-marketplace/internal/data/entity"
	"event-marketplace/internal/data/repository"
	"event-marketplace/pkg/notify"
	"event-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory fakes behind the repository interfaces. The inventory fake
// guards its counters with a mutex so Reserve/Release behave like the
// store's atomic conditional updates under concurrent callers.

type fakeInventoryRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
}

func newFakeInventoryRepo(events ...*entity.Event) *fakeInventoryRepo {
	m := make(map[uuid.UUID]*entity.Event)
	for _, e := range events {
		copied := *e
		m[e.ID] = &copied
	}
	return &fakeInventoryRepo{events: m}
}

func (f *fakeInventoryRepo) Create(_ context.Context, event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeInventoryRepo) FindApproved(_ context.Context, limit, offset int) ([]*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var approved []*entity.Event
	for _, event := range f.events {
		if event.Status == entity.EventStatusApproved {
			copied := *event
			approved = append(approved, &copied)
		}
	}
	if offset >= len(approved) {
		return nil, nil
	}
	approved = approved[offset:]
	if limit < len(approved) {
		approved = approved[:limit]
	}
	return approved, nil
}

func (f *fakeInventoryRepo) CountApproved(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, event := range f.events {
		if event.Status == entity.EventStatusApproved {
			count++
		}
	}
	return count, nil
}

func (f *fakeInventoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return entity.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (f *fakeInventoryRepo) AdjustTotalSeats(_ context.Context, id uuid.UUID, delta int) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	if event.TotalSeats+delta < 0 || event.AvailableSeats+delta < 0 {
		return nil, entity.ErrSeatsExhausted
	}
	event.TotalSeats += delta
	event.AvailableSeats += delta
	copied := *event
	return &copied, nil
}

func (f *fakeInventoryRepo) Reserve(_ context.Context, eventID uuid.UUID, quantity int) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return 0, entity.ErrEventNotFound
	}
	if !event.Bookable() {
		return 0, entity.ErrEventNotBookable
	}
	if event.AvailableSeats < quantity {
		return 0, entity.ErrInsufficientSeats
	}
	event.AvailableSeats -= quantity
	return event.Price, nil
}

func (f *fakeInventoryRepo) Release(_ context.Context, eventID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return entity.ErrEventNotFound
	}
	event.AvailableSeats += quantity
	if event.AvailableSeats > event.TotalSeats {
		event.AvailableSeats = event.TotalSeats
	}
	return nil
}

func (f *fakeInventoryRepo) available(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[id].AvailableSeats
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*entity.Reservation
}

func newFakeReservationRepo(reservations ...*entity.Reservation) *fakeReservationRepo {
	m := make(map[uuid.UUID]*entity.Reservation)
	for _, r := range reservations {
		copied := *r
		m[r.ID] = &copied
	}
	return &fakeReservationRepo{reservations: m}
}

func (f *fakeReservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *reservation
	f.reservations[reservation.ID] = &copied
	return nil
}

func (f *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeReservationRepo) FindByHolderID(_ context.Context, holderID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.HolderID == holderID {
			copied := *r
			out = append(out, &copied)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReservationRepo) CountByHolderID(_ context.Context, holderID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, r := range f.reservations {
		if r.HolderID == holderID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) FindByEventID(_ context.Context, eventID uuid.UUID) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.EventID == eventID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindReservedByEventID(_ context.Context, eventID uuid.UUID) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.EventID == eventID && r.Status == entity.ReservationStatusReserved {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindStaleReserved(_ context.Context, cutoff time.Time) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.Status == entity.ReservationStatusReserved && r.CreatedAt.Before(cutoff) {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) MarkCancelled(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok || reservation.Status != entity.ReservationStatusReserved {
		return false, nil
	}
	reservation.Status = entity.ReservationStatusCancelled
	return true, nil
}

func (f *fakeReservationRepo) MarkCompleted(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok || reservation.Status != entity.ReservationStatusReserved {
		return false, nil
	}
	reservation.Status = entity.ReservationStatusCompleted
	return true, nil
}

func (f *fakeReservationRepo) SetPaymentID(_ context.Context, id, paymentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return entity.ErrReservationNotFound
	}
	pid := paymentID
	reservation.PaymentID = &pid
	return nil
}

func (f *fakeReservationRepo) get(id uuid.UUID) *entity.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return nil
	}
	copied := *reservation
	return &copied
}

func (f *fakeReservationRepo) heldQuantity(eventID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	held := 0
	for _, r := range f.reservations {
		if r.EventID == eventID && r.HoldsSeats() {
			held += r.TicketQuantity
		}
	}
	return held
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo(payments ...*entity.Payment) *fakePaymentRepo {
	m := make(map[uuid.UUID]*entity.Payment)
	for _, p := range payments {
		copied := *p
		m[p.ID] = &copied
	}
	return &fakePaymentRepo{payments: m}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (f *fakePaymentRepo) FindByHolderID(_ context.Context, holderID uuid.UUID) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.HolderID == holderID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindByReservationID(_ context.Context, reservationID uuid.UUID) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.ReservationID == reservationID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) MarkCompleted(_ context.Context, id uuid.UUID, transactionID *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[id]
	if !ok || payment.Status != entity.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entity.PaymentStatusCompleted
	if transactionID != nil {
		payment.TransactionID = transactionID
	}
	return true, nil
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[id]
	if !ok || payment.Status != entity.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entity.PaymentStatusFailed
	return true, nil
}

func (f *fakePaymentRepo) FlagReconciliation(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[id]
	if !ok {
		return entity.ErrPaymentNotFound
	}
	payment.NeedsReconciliation = true
	return nil
}

func (f *fakePaymentRepo) get(id uuid.UUID) *entity.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[id]
	if !ok {
		return nil
	}
	copied := *payment
	return &copied
}

// fakeTxRunner runs the function directly; the fakes apply writes
// immediately, so tests exercise the logic, not the store's rollback.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	repo         *repository.Repository
	inventory    *fakeInventoryRepo
	reservations *fakeReservationRepo
	payments     *fakePaymentRepo
	config       *utils.Config
	notifier     notify.Notifier
	log          *zap.Logger
}

func newTestEnv(events []*entity.Event, reservations []*entity.Reservation, payments []*entity.Payment) *testEnv {
	inventory := newFakeInventoryRepo(events...)
	reservationRepo := newFakeReservationRepo(reservations...)
	paymentRepo := newFakePaymentRepo(payments...)

	log := zap.NewNop()

	return &testEnv{
		repo: &repository.Repository{
			Event:       inventory,
			Reservation: reservationRepo,
			Payment:     paymentRepo,
			Tx:          fakeTxRunner{},
		},
		inventory:    inventory,
		reservations: reservationRepo,
		payments:     paymentRepo,
		config: &utils.Config{
			Booking: utils.BookingConfig{
				StaleAgeHours:        24,
				RetryAttempts:        3,
				ReleaseRetryAttempts: 3,
			},
		},
		notifier: notify.NewLogNotifier(log, false),
		log:      log,
	}
}

func approvedEvent(totalSeats int, price float64) *entity.Event {
	now := time.Now()
	return &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrganizerID:    uuid.New(),
		Title:          "Test Event",
		Price:          price,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		Status:         entity.EventStatusApproved,
	}
}

func reservedReservation(eventID, holderID uuid.UUID, quantity int, unitPrice float64) *entity.Reservation {
	return &entity.Reservation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		EventID:        eventID,
		HolderID:       holderID,
		TicketQuantity: quantity,
		TotalPrice:     unitPrice * float64(quantity),
		Status:         entity.ReservationStatusReserved,
	}
}
