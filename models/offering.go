package models

// Offering activity types. Tour-like types schedule fixed-capacity dates;
// the rental type is governed by a shared unit pool and per-day consumption.
const (
	ActivityTour          = "tour"
	ActivityExperience    = "experience"
	ActivityRental        = "rental"
	ActivityAccommodation = "accommodation"
	ActivityRestaurant    = "restaurant"
)

// Rental day-counting modes.
const (
	RentalDayModeCalendar = "calendar" // inclusive day count
	RentalDayModeNights   = "nights"   // checkout day excluded
)

// Offering is a bookable service listing.
type Offering struct {
	ID            string  `bson:"id" json:"id"`
	ProviderID    string  `bson:"provider_id" json:"provider_id"`
	Title         string  `bson:"title" json:"title"`
	ActivityType  string  `bson:"activity_type" json:"activity_type"`
	TotalUnits    int     `bson:"total_units,omitempty" json:"total_units,omitempty"` // rental only
	Price         float64 `bson:"price" json:"price"`
	RentalDayMode string  `bson:"rental_day_mode,omitempty" json:"rental_day_mode,omitempty"`
	Active        bool    `bson:"active" json:"active"`
}

// IsRental reports whether availability is tracked per calendar day.
func (o *Offering) IsRental() bool {
	return o.ActivityType == ActivityRental
}
