package models

// Cancellation notification events, mirrored into the outbound emails.
const (
	EventCancelledByClient   = "cancelled_by_client"
	EventCancelledByProvider = "cancelled_by_provider"
	EventCancelledByAdmin    = "cancelled_by_admin"
)

// CancelledPayload is the queued payload for a booking-cancelled
// notification task.
type CancelledPayload struct {
	Event    string   `json:"event"`
	OrderIDs []string `json:"order_ids"`
}
