package cancellation

import (
	"errors"
	"fmt"
)

// ErrNotOwner is returned when the acting party does not own the booking in
// the required role. Surfaced generically; no state was changed.
var ErrNotOwner = errors.New("acting party does not own this booking")

// PolicyDeniedError carries a denied policy verdict. The booking was left
// untouched; Result.Message is safe to surface to the user.
type PolicyDeniedError struct {
	Result PolicyResult
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("cancellation denied (%s): %s", e.Result.Status, e.Result.Message)
}

// RestorationError reports a failed inventory restoration. When some days of
// a rental range were already restored before the failure, RestoredDays is
// non-empty and the booking is in a partial-restoration inconsistency that
// needs manual reconciliation; the status update was not attempted.
type RestorationError struct {
	OrderID      string
	RestoredDays []string
	Err          error
}

func (e *RestorationError) Error() string {
	return fmt.Sprintf("inventory restoration failed for order %s: %v", e.OrderID, e.Err)
}

func (e *RestorationError) Unwrap() error { return e.Err }

// Partial reports whether earlier days of the range were already restored.
func (e *RestorationError) Partial() bool { return len(e.RestoredDays) > 0 }

// StatusUpdateError reports a status transition failure after inventory was
// already restored. Retry is safe: restoration is guarded per day and the
// policy re-checks current status.
type StatusUpdateError struct {
	OrderID string
	Err     error
}

func (e *StatusUpdateError) Error() string {
	return fmt.Sprintf("status update failed for order %s after restoration: %v", e.OrderID, e.Err)
}

func (e *StatusUpdateError) Unwrap() error { return e.Err }
