package notification

import "context"

// NotificationService queues outbound cancellation notifications. Delivery
// is asynchronous and best-effort: callers log failures and never block or
// fail a committed cancellation on them.
type NotificationService interface {
	NotifyBookingCancelled(ctx context.Context, event string, orderIDs []string) error
}
