package models

import "time"

// Order statuses. "confirmed" and "approved" are both treated as the single
// active state; everything else is terminal.
const (
	OrderStatusConfirmed              = "confirmed"
	OrderStatusApproved               = "approved"
	OrderStatusCancelledByClient      = "cancelled_by_client"
	OrderStatusCancelledByProvider    = "cancelled_by_provider"
	OrderStatusCancelledByProviderRev = "cancelled_by_provider_review"
	OrderStatusCancelledByAdmin       = "cancelled_by_admin"
)

// Cancelling parties.
const (
	CancelledByClient   = "client"
	CancelledByProvider = "provider"
	CancelledByAdmin    = "admin"
)

// Order represents a confirmed booking against an offering. Tour-mode orders
// carry BookingDate; rental-mode orders carry BookingDateFrom/BookingDateTo.
// Exactly one of the two modes applies, determined by the offering type.
type Order struct {
	ID         string `bson:"id" json:"id"`
	OfferingID string `bson:"offering_id" json:"offering_id"`
	UserID     string `bson:"user_id" json:"user_id"`
	ProviderID string `bson:"provider_id" json:"provider_id"`

	BookingDate     string `bson:"booking_date,omitempty" json:"booking_date,omitempty"`           // "YYYY-MM-DD"
	BookingDateFrom string `bson:"booking_date_from,omitempty" json:"booking_date_from,omitempty"` // "YYYY-MM-DD"
	BookingDateTo   string `bson:"booking_date_to,omitempty" json:"booking_date_to,omitempty"`     // "YYYY-MM-DD"

	Quantity   int     `bson:"quantity" json:"quantity"` // units or persons
	UnitPrice  float64 `bson:"unit_price" json:"unit_price"`
	TotalPrice float64 `bson:"total_price" json:"total_price"`

	Status string `bson:"status" json:"status"`

	CancelledAt          *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelledBy          string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	ProviderCancelReason string     `bson:"provider_cancel_reason,omitempty" json:"provider_cancel_reason,omitempty"`
	PenaltyPercent       int        `bson:"penalty_percent,omitempty" json:"penalty_percent,omitempty"`

	PaymentIntentID string    `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// IsRental reports whether the order was booked against a calendar-day range.
func (o *Order) IsRental() bool {
	return o.BookingDateFrom != "" && o.BookingDateTo != ""
}

// EffectiveDate is the date cancellation deadlines are counted against.
func (o *Order) EffectiveDate() string {
	if o.BookingDateFrom != "" {
		return o.BookingDateFrom
	}
	return o.BookingDate
}

// IsActive reports whether the order is still cancellable at all.
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusApproved
}

// CancellationUpdate carries the fields written by a cancellation status
// transition. OwnerUserID, when set, restricts the update to orders owned by
// that user so a client can never mutate someone else's booking.
type CancellationUpdate struct {
	Status               string
	CancelledAt          time.Time
	CancelledBy          string
	ProviderCancelReason string
	PenaltyPercent       int
	OwnerUserID          string
}
