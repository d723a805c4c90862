package cancellation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderRepo "github.com/estodobien/ActiveGo/database/repository/order"
	"github.com/estodobien/ActiveGo/models"
)

// fakeOrderRepo mimics the conditional MarkCancelled semantics of the Mongo
// repository against an in-memory map.
type fakeOrderRepo struct {
	orders  map[string]*models.Order
	markErr error

	lastUpdate *models.CancellationUpdate
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orderRepo.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByIDs(_ context.Context, ids []string) ([]models.Order, error) {
	var out []models.Order
	for _, id := range ids {
		if o, ok := f.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, _ string) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByProvider(_ context.Context, _ string) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) MarkCancelled(_ context.Context, orderID string, upd models.CancellationUpdate) error {
	if f.markErr != nil {
		return f.markErr
	}
	o, ok := f.orders[orderID]
	if !ok || !o.IsActive() {
		return orderRepo.ErrNoMatch
	}
	if upd.OwnerUserID != "" && o.UserID != upd.OwnerUserID {
		return orderRepo.ErrNoMatch
	}
	o.Status = upd.Status
	at := upd.CancelledAt
	o.CancelledAt = &at
	o.CancelledBy = upd.CancelledBy
	o.ProviderCancelReason = upd.ProviderCancelReason
	o.PenaltyPercent = upd.PenaltyPercent
	f.lastUpdate = &upd
	return nil
}

// fakeSchedule records restoration calls and can be told to fail on a
// specific day.
type fakeSchedule struct {
	restoredDays  []string
	restoredUnits map[string]int
	failOnDay     string
	dayErr        error

	restoredOrders  []string
	restoreOrderErr error
}

func (f *fakeSchedule) RestoreDayUnits(_ context.Context, _ string, date string, units int) error {
	if f.failOnDay != "" && date == f.failOnDay {
		return f.dayErr
	}
	if f.restoredUnits == nil {
		f.restoredUnits = make(map[string]int)
	}
	f.restoredDays = append(f.restoredDays, date)
	f.restoredUnits[date] += units
	return nil
}

func (f *fakeSchedule) RestoreByOrder(_ context.Context, orderID string) error {
	if f.restoreOrderErr != nil {
		return f.restoreOrderErr
	}
	f.restoredOrders = append(f.restoredOrders, orderID)
	return nil
}

func (f *fakeSchedule) CreateDate(_ context.Context, _ *models.ScheduledDate) error { return nil }
func (f *fakeSchedule) GetDate(_ context.Context, _, _ string) (*models.ScheduledDate, error) {
	return nil, nil
}
func (f *fakeSchedule) ListDates(_ context.Context, _ string) ([]models.ScheduledDate, error) {
	return nil, nil
}
func (f *fakeSchedule) DeleteDate(_ context.Context, _, _ string) error             { return nil }
func (f *fakeSchedule) ReserveSeats(_ context.Context, _, _ string, _ int) error    { return nil }
func (f *fakeSchedule) GetDayBookings(_ context.Context, _, _, _ string) ([]models.DayBooking, error) {
	return nil, nil
}
func (f *fakeSchedule) ReserveDayUnits(_ context.Context, _, _ string, _, _ int) error { return nil }
func (f *fakeSchedule) CreateWindow(_ context.Context, _ *models.UnavailabilityWindow) error {
	return nil
}
func (f *fakeSchedule) DeleteWindow(_ context.Context, _, _ string) error { return nil }
func (f *fakeSchedule) GetWindows(_ context.Context, _ string) ([]models.UnavailabilityWindow, error) {
	return nil, nil
}

type fakeNotifier struct {
	events   []string
	orderIDs [][]string
	err      error
}

func (f *fakeNotifier) NotifyBookingCancelled(_ context.Context, event string, orderIDs []string) error {
	f.events = append(f.events, event)
	f.orderIDs = append(f.orderIDs, orderIDs)
	return f.err
}

type fixture struct {
	svc      *DefaultCancellationService
	orders   *fakeOrderRepo
	schedule *fakeSchedule
	notifier *fakeNotifier
	now      time.Time
}

func newFixture(orders ...*models.Order) *fixture {
	repo := &fakeOrderRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	schedule := &fakeSchedule{}
	notifier := &fakeNotifier{}
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.Local)
	return &fixture{
		svc: &DefaultCancellationService{
			Orders:   repo,
			Schedule: schedule,
			Notifier: notifier,
			Logger:   zap.NewNop(),
			Now:      func() time.Time { return now },
		},
		orders:   repo,
		schedule: schedule,
		notifier: notifier,
		now:      now,
	}
}

func tourOrder() *models.Order {
	return &models.Order{
		ID:          "ord-tour",
		OfferingID:  "off-tour",
		UserID:      "user-1",
		ProviderID:  "prov-1",
		BookingDate: "2026-05-20",
		Quantity:    3,
		Status:      models.OrderStatusConfirmed,
	}
}

func rentalOrder() *models.Order {
	return &models.Order{
		ID:              "ord-rental",
		OfferingID:      "off-rental",
		UserID:          "user-1",
		ProviderID:      "prov-1",
		BookingDateFrom: "2026-05-20",
		BookingDateTo:   "2026-05-22",
		Quantity:        2,
		Status:          models.OrderStatusConfirmed,
	}
}

func TestCancelByClientTour(t *testing.T) {
	fx := newFixture(tourOrder())

	order, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelledByClient, order.Status)
	assert.Equal(t, models.CancelledByClient, order.CancelledBy)
	require.NotNil(t, order.CancelledAt)
	assert.Equal(t, fx.now, *order.CancelledAt)

	// The stored order moved too, through the owner-keyed update.
	assert.Equal(t, models.OrderStatusCancelledByClient, fx.orders.orders["ord-tour"].Status)
	require.NotNil(t, fx.orders.lastUpdate)
	assert.Equal(t, "user-1", fx.orders.lastUpdate.OwnerUserID)

	// Seats were restored as one block and the notification fired.
	assert.Equal(t, []string{"ord-tour"}, fx.schedule.restoredOrders)
	assert.Equal(t, []string{models.EventCancelledByClient}, fx.notifier.events)
	assert.Equal(t, [][]string{{"ord-tour"}}, fx.notifier.orderIDs)
}

func TestCancelByClientRentalRestoresEveryDay(t *testing.T) {
	fx := newFixture(rentalOrder())

	_, err := fx.svc.CancelByClient(context.Background(), "ord-rental", "user-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-05-20", "2026-05-21", "2026-05-22"}, fx.schedule.restoredDays)
	for _, day := range fx.schedule.restoredDays {
		assert.Equal(t, 2, fx.schedule.restoredUnits[day], "day=%s", day)
	}
}

func TestCancelByClientNotOwner(t *testing.T) {
	fx := newFixture(tourOrder())

	_, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "someone-else")

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, fx.schedule.restoredOrders)
	assert.Equal(t, models.OrderStatusConfirmed, fx.orders.orders["ord-tour"].Status)
	assert.Empty(t, fx.notifier.events)
}

func TestCancelByClientTooLateLeavesEverythingUntouched(t *testing.T) {
	o := tourOrder()
	o.BookingDate = "2026-05-11" // tomorrow relative to the fixture clock
	fx := newFixture(o)

	_, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")

	var denied *PolicyDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DeniedTooLate, denied.Result.Status)
	assert.Empty(t, fx.schedule.restoredOrders)
	assert.Equal(t, models.OrderStatusConfirmed, fx.orders.orders["ord-tour"].Status)
}

func TestCancelIsIdempotentViaPolicy(t *testing.T) {
	fx := newFixture(tourOrder())

	_, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")
	require.NoError(t, err)

	_, err = fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")

	var denied *PolicyDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DeniedNotActive, denied.Result.Status)
	// Inventory was restored exactly once.
	assert.Equal(t, []string{"ord-tour"}, fx.schedule.restoredOrders)
}

func TestCancelByProvider(t *testing.T) {
	fx := newFixture(tourOrder())

	order, err := fx.svc.CancelByProvider(context.Background(), "ord-tour", "prov-1", "boat repair")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelledByProvider, order.Status)
	assert.Equal(t, 10, order.PenaltyPercent)
	assert.Equal(t, "boat repair", order.ProviderCancelReason)
	assert.Equal(t, []string{models.EventCancelledByProvider}, fx.notifier.events)
}

func TestCancelByProviderLateGoesToReview(t *testing.T) {
	o := tourOrder()
	o.BookingDate = "2026-05-11"
	fx := newFixture(o)

	order, err := fx.svc.CancelByProvider(context.Background(), "ord-tour", "prov-1", "engine failure")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelledByProviderRev, order.Status)
	assert.Equal(t, 0, order.PenaltyPercent)
	// Inventory is still restored even when the penalty awaits review.
	assert.Equal(t, []string{"ord-tour"}, fx.schedule.restoredOrders)
}

func TestCancelByProviderWrongProvider(t *testing.T) {
	fx := newFixture(tourOrder())

	_, err := fx.svc.CancelByProvider(context.Background(), "ord-tour", "prov-2", "reason")

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelByAdmin(t *testing.T) {
	fx := newFixture(rentalOrder())

	order, err := fx.svc.CancelByAdmin(context.Background(), "ord-rental", "fraudulent listing")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelledByAdmin, order.Status)
	assert.Equal(t, "fraudulent listing", order.ProviderCancelReason)
	assert.Len(t, fx.schedule.restoredDays, 3)
	assert.Equal(t, []string{models.EventCancelledByAdmin}, fx.notifier.events)
}

func TestCancelUnknownOrder(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.CancelByClient(context.Background(), "missing", "user-1")

	assert.ErrorIs(t, err, orderRepo.ErrNotFound)
}

func TestRestorationFailureAbortsBeforeStatusUpdate(t *testing.T) {
	fx := newFixture(rentalOrder())
	fx.schedule.failOnDay = "2026-05-20"
	fx.schedule.dayErr = errors.New("mongo down")

	_, err := fx.svc.CancelByClient(context.Background(), "ord-rental", "user-1")

	var restoreErr *RestorationError
	require.ErrorAs(t, err, &restoreErr)
	assert.False(t, restoreErr.Partial())
	assert.Equal(t, models.OrderStatusConfirmed, fx.orders.orders["ord-rental"].Status)
	assert.Empty(t, fx.notifier.events)
}

func TestPartialRestorationReported(t *testing.T) {
	fx := newFixture(rentalOrder())
	fx.schedule.failOnDay = "2026-05-22"
	fx.schedule.dayErr = errors.New("mongo down")

	_, err := fx.svc.CancelByClient(context.Background(), "ord-rental", "user-1")

	var restoreErr *RestorationError
	require.ErrorAs(t, err, &restoreErr)
	assert.True(t, restoreErr.Partial())
	assert.Equal(t, []string{"2026-05-20", "2026-05-21"}, restoreErr.RestoredDays)
	// Status is intentionally left untouched for reconciliation.
	assert.Equal(t, models.OrderStatusConfirmed, fx.orders.orders["ord-rental"].Status)
}

func TestStatusUpdateFailureAfterRestore(t *testing.T) {
	fx := newFixture(tourOrder())
	fx.orders.markErr = errors.New("write conflict")

	_, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")

	var statusErr *StatusUpdateError
	require.ErrorAs(t, err, &statusErr)
	// Inventory restoration already happened; the error must say so via type.
	assert.Equal(t, []string{"ord-tour"}, fx.schedule.restoredOrders)
	assert.Empty(t, fx.notifier.events)
}

func TestNotificationFailureDoesNotFailCancellation(t *testing.T) {
	fx := newFixture(tourOrder())
	fx.notifier.err = errors.New("redis unreachable")

	order, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelledByClient, order.Status)
}

func TestCancelWorksWithoutNotifier(t *testing.T) {
	fx := newFixture(tourOrder())
	fx.svc.Notifier = nil

	_, err := fx.svc.CancelByClient(context.Background(), "ord-tour", "user-1")

	require.NoError(t, err)
}
