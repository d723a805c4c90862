package cancellation

import (
	"time"

	"github.com/estodobien/ActiveGo/models"
	"github.com/estodobien/ActiveGo/services/availability"
)

// Machine-readable denial codes carried in PolicyResult.Status when a
// cancellation is not allowed. The order is left untouched in every denied
// case.
const (
	DeniedTooLate        = "cancel_denied_too_late"
	DeniedReasonRequired = "cancel_reason_required"
	DeniedNotActive      = "cancel_denied_not_active"
	DeniedInvalidDate    = "cancel_denied_invalid_date"
	Denied               = "cancel_denied"
)

// Free cancellation window, in calendar days before the booking starts.
const freeCancelDays = 2

// Provider penalty for a timely cancellation, percent of payout.
const providerPenaltyPercent = 10

// PolicyResult is the verdict of a cancellation policy evaluation. When
// Allowed, Status is the order's next status; otherwise Status carries a
// denial code and the order stays unchanged.
type PolicyResult struct {
	Allowed bool `json:"allowed"`

	RefundPercent     int `json:"refundPercent"`
	PenaltyPercent    int `json:"penaltyPercent"`
	PenaltyMaxPercent int `json:"penaltyMaxPercent"`

	RestoreAvailability bool `json:"restoreAvailability"`

	RequiresAdminReview    bool `json:"requiresAdminReview"`
	ProviderReasonRequired bool `json:"providerReasonRequired"`

	Message string `json:"message"`
	Status  string `json:"status"`
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBefore counts calendar days between now and the booking's effective
// date, both truncated to local midnight, rounded to the nearest whole day.
func daysBefore(now, bookingDate time.Time) int {
	diff := startOfDay(bookingDate).Sub(startOfDay(now))
	days := diff.Hours() / 24
	if days >= 0 {
		return int(days + 0.5)
	}
	return int(days - 0.5)
}

// EvaluatePolicy decides whether a cancellation is allowed, what refund and
// penalty apply, the resulting order status and whether inventory must be
// restored. Pure over its inputs.
func EvaluatePolicy(order models.Order, cancelledBy, reason string, now time.Time) PolicyResult {
	result := PolicyResult{Status: Denied}

	if !order.IsActive() {
		result.Message = "Booking is no longer active"
		result.Status = DeniedNotActive
		return result
	}

	bookingDay, err := availability.ParseDay(order.EffectiveDate())
	if err != nil {
		result.Message = "Booking has an invalid date"
		result.Status = DeniedInvalidDate
		return result
	}
	days := daysBefore(now, bookingDay)

	switch cancelledBy {
	case models.CancelledByClient:
		if days < freeCancelDays {
			result.Message = "Cancellation is only possible at least 48 hours before the service starts"
			result.Status = DeniedTooLate
			return result
		}

		result.Allowed = true
		result.RefundPercent = 100
		result.RestoreAvailability = true
		result.Message = "Cancelled without penalty"
		result.Status = models.OrderStatusCancelledByClient
		return result

	case models.CancelledByProvider:
		result.ProviderReasonRequired = true

		if reason == "" {
			result.Message = "A cancellation reason is required"
			result.Status = DeniedReasonRequired
			return result
		}

		result.Allowed = true
		result.RefundPercent = 100
		result.RestoreAvailability = true

		if days >= freeCancelDays {
			result.PenaltyPercent = providerPenaltyPercent
			result.Message = "Provider cancellation more than 48 hours in advance"
			result.Status = models.OrderStatusCancelledByProvider
			return result
		}

		result.PenaltyMaxPercent = 100
		result.RequiresAdminReview = true
		result.Message = "Provider cancellation less than 48 hours in advance requires review"
		result.Status = models.OrderStatusCancelledByProviderRev
		return result

	case models.CancelledByAdmin:
		if reason == "" {
			result.Message = "A cancellation reason is required"
			result.Status = DeniedReasonRequired
			return result
		}

		result.Allowed = true
		result.RefundPercent = 100
		result.RestoreAvailability = true
		result.Message = "Cancelled by platform administration"
		result.Status = models.OrderStatusCancelledByAdmin
		return result
	}

	// Unknown cancelling party: defensive no-op denial.
	result.Message = "Cancellation not permitted"
	return result
}
