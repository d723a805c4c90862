package availability

import "errors"

var (
	// ErrInvalidDateRange flags malformed or inconsistent dates. Dates must
	// be "YYYY-MM-DD"; a malformed day never silently reads as unavailable.
	ErrInvalidDateRange = errors.New("invalid date or date range")

	// ErrDateHasBookings is surfaced when a provider tries to delete a
	// scheduled date that still has consumed seats.
	ErrDateHasBookings = errors.New("scheduled date still has bookings")
)
