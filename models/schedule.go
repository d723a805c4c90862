package models

// ScheduledDate is a fixed-capacity availability unit for tour-like
// offerings. Invariant: 0 <= Booked <= Capacity. Booked only decreases
// through cancellation restoration.
type ScheduledDate struct {
	ID            string   `bson:"id" json:"id"`
	OfferingID    string   `bson:"offering_id" json:"offering_id"`
	Date          string   `bson:"date" json:"date"` // "YYYY-MM-DD"
	Capacity      int      `bson:"capacity" json:"capacity"`
	Booked        int      `bson:"booked" json:"booked"`
	PriceOverride *float64 `bson:"price_override,omitempty" json:"price_override,omitempty"`
}

// UnavailabilityWindow blocks rental inventory over an inclusive date range.
// BlockedUnits nil means full blackout (all units unavailable); otherwise it
// partially blocks that many units.
type UnavailabilityWindow struct {
	ID           string `bson:"id" json:"id"`
	OfferingID   string `bson:"offering_id" json:"offering_id"`
	DateFrom     string `bson:"date_from" json:"date_from"` // "YYYY-MM-DD"
	DateTo       string `bson:"date_to" json:"date_to"`     // "YYYY-MM-DD"
	BlockedUnits *int   `bson:"blocked_units" json:"blocked_units"`
	Reason       string `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Covers reports whether the window spans the given ISO day. Dates in
// "YYYY-MM-DD" order lexicographically, so string comparison is enough.
func (w *UnavailabilityWindow) Covers(day string) bool {
	return day >= w.DateFrom && day <= w.DateTo
}

// IsBlackout reports whether the window blocks every unit.
func (w *UnavailabilityWindow) IsBlackout() bool {
	return w.BlockedUnits == nil
}

// DayBooking is the materialized per-day rental consumption aggregate,
// maintained exclusively by the reserve/restore repository operations.
type DayBooking struct {
	OfferingID  string `bson:"offering_id" json:"offering_id"`
	Date        string `bson:"date" json:"date"` // "YYYY-MM-DD"
	BookedUnits int    `bson:"booked_units" json:"booked_units"`
}
