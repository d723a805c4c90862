package cancellation

import (
	"context"
	"time"

	orderRepo "github.com/estodobien/ActiveGo/database/repository/order"
	scheduleRepo "github.com/estodobien/ActiveGo/database/repository/schedule"
	"github.com/estodobien/ActiveGo/models"
	"github.com/estodobien/ActiveGo/services/availability"
	"github.com/estodobien/ActiveGo/services/notification"

	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

// DefaultCancellationService is the production orchestrator. The steps span
// independent store operations with no cross-call transaction; failure
// handling per step follows the order load → policy → restore → status →
// notify sequence.
type DefaultCancellationService struct {
	Orders       orderRepo.OrderRepository
	Schedule     scheduleRepo.ScheduleRepository
	Availability *availability.Service
	Notifier     notification.NotificationService
	Logger       *zap.Logger

	// Now is the clock used for policy evaluation; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultCancellationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CancelByClient cancels the client's own booking. The status update is
// additionally keyed by user id so a stale or forged order id can never
// mutate another account's booking.
func (s *DefaultCancellationService) CancelByClient(ctx context.Context, orderID, userID string) (*models.Order, error) {
	return s.cancel(ctx, orderID, models.CancelledByClient, userID, "")
}

// CancelByProvider cancels a booking on the provider's offering, with a
// mandatory reason.
func (s *DefaultCancellationService) CancelByProvider(ctx context.Context, orderID, providerID, reason string) (*models.Order, error) {
	return s.cancel(ctx, orderID, models.CancelledByProvider, providerID, reason)
}

// CancelByAdmin performs a privileged cancellation on behalf of the
// platform.
func (s *DefaultCancellationService) CancelByAdmin(ctx context.Context, orderID, reason string) (*models.Order, error) {
	return s.cancel(ctx, orderID, models.CancelledByAdmin, "", reason)
}

func (s *DefaultCancellationService) cancel(ctx context.Context, orderID, cancelledBy, actorID, reason string) (*models.Order, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch cancelledBy {
	case models.CancelledByClient:
		if order.UserID != actorID {
			return nil, ErrNotOwner
		}
	case models.CancelledByProvider:
		if order.ProviderID != actorID {
			return nil, ErrNotOwner
		}
	}

	result := EvaluatePolicy(*order, cancelledBy, reason, s.now())
	if !result.Allowed {
		return nil, &PolicyDeniedError{Result: result}
	}

	if result.RestoreAvailability {
		if err := s.restoreInventory(ctx, order); err != nil {
			return nil, err
		}
	}

	cancelledAt := s.now()
	upd := models.CancellationUpdate{
		Status:         result.Status,
		CancelledAt:    cancelledAt,
		CancelledBy:    cancelledBy,
		PenaltyPercent: result.PenaltyPercent,
	}
	if cancelledBy != models.CancelledByClient {
		upd.ProviderCancelReason = reason
	} else {
		upd.OwnerUserID = actorID
	}

	if err := s.Orders.MarkCancelled(ctx, orderID, upd); err != nil {
		// Inventory is already freed; the booking is now inconsistent until
		// a retry lands the status transition.
		s.Logger.Error("post-restoration inconsistency: status update failed after inventory restore",
			zap.String("orderID", orderID),
			zap.String("targetStatus", result.Status),
			zap.Error(err))
		return nil, &StatusUpdateError{OrderID: orderID, Err: err}
	}

	if s.Availability != nil {
		s.Availability.InvalidateCalendar(ctx, order.OfferingID)
	}

	s.notify(ctx, cancelledBy, orderID)

	order.Status = result.Status
	order.CancelledAt = &cancelledAt
	order.CancelledBy = cancelledBy
	order.ProviderCancelReason = upd.ProviderCancelReason
	order.PenaltyPercent = result.PenaltyPercent
	return order, nil
}

// restoreInventory returns consumed inventory to the pool: every calendar
// day of a rental range independently, or the whole seat block of a
// tour-mode booking in one operation.
func (s *DefaultCancellationService) restoreInventory(ctx context.Context, order *models.Order) error {
	if !order.IsRental() {
		if err := s.Schedule.RestoreByOrder(ctx, order.ID); err != nil {
			s.Logger.Error("restoration failure: could not restore tour seats",
				zap.String("orderID", order.ID), zap.Error(err))
			return &RestorationError{OrderID: order.ID, Err: err}
		}
		return nil
	}

	from, err := availability.ParseDay(order.BookingDateFrom)
	if err != nil {
		return &RestorationError{OrderID: order.ID, Err: err}
	}
	to, err := availability.ParseDay(order.BookingDateTo)
	if err != nil {
		return &RestorationError{OrderID: order.ID, Err: err}
	}

	var restored []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(dayLayout)
		if err := s.Schedule.RestoreDayUnits(ctx, order.OfferingID, day, order.Quantity); err != nil {
			restoreErr := &RestorationError{OrderID: order.ID, RestoredDays: restored, Err: err}
			if restoreErr.Partial() {
				s.Logger.Error("partial restoration inconsistency: some days restored before failure",
					zap.String("orderID", order.ID),
					zap.String("failedDay", day),
					zap.Strings("restoredDays", restored),
					zap.Error(err))
			} else {
				s.Logger.Error("restoration failure: no days restored",
					zap.String("orderID", order.ID),
					zap.String("failedDay", day),
					zap.Error(err))
			}
			return restoreErr
		}
		restored = append(restored, day)
	}
	return nil
}

// notify fires the best-effort cancellation notification. Failures are
// logged and never surfaced: the cancellation is already committed.
func (s *DefaultCancellationService) notify(ctx context.Context, cancelledBy, orderID string) {
	if s.Notifier == nil {
		return
	}
	event := models.EventCancelledByClient
	switch cancelledBy {
	case models.CancelledByProvider:
		event = models.EventCancelledByProvider
	case models.CancelledByAdmin:
		event = models.EventCancelledByAdmin
	}
	if err := s.Notifier.NotifyBookingCancelled(ctx, event, []string{orderID}); err != nil {
		s.Logger.Warn("cancellation notification failed",
			zap.String("orderID", orderID),
			zap.String("event", event),
			zap.Error(err))
	}
}
