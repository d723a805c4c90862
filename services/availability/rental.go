package availability

import (
	"fmt"
	"time"

	"github.com/estodobien/ActiveGo/models"
)

const dayLayout = "2006-01-02"

// ParseDay validates and parses an ISO "YYYY-MM-DD" day at local midnight.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, day, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, day)
	}
	return t, nil
}

// RentalCalendar answers per-day availability questions for one rental
// offering from a loaded snapshot of its unavailability windows and per-day
// consumption. All methods are pure over the snapshot.
type RentalCalendar struct {
	Offering    models.Offering
	Windows     []models.UnavailabilityWindow
	DayBookings []models.DayBooking

	bookedByDay map[string]int
}

// NewRentalCalendar builds a calendar over the given snapshot.
func NewRentalCalendar(offering models.Offering, windows []models.UnavailabilityWindow, days []models.DayBooking) *RentalCalendar {
	booked := make(map[string]int, len(days))
	for _, d := range days {
		booked[d.Date] += d.BookedUnits
	}
	return &RentalCalendar{
		Offering:    offering,
		Windows:     windows,
		DayBookings: days,
		bookedByDay: booked,
	}
}

// BlockedUnitsForDay returns how many units declared-unavailability removes
// from the pool on the given day. A blackout window dominates; otherwise the
// most restrictive (maximum) covering window applies.
func (c *RentalCalendar) BlockedUnitsForDay(day string) (int, error) {
	if _, err := ParseDay(day); err != nil {
		return 0, err
	}
	blocked := 0
	for i := range c.Windows {
		w := &c.Windows[i]
		if !w.Covers(day) {
			continue
		}
		if w.IsBlackout() {
			return c.Offering.TotalUnits, nil
		}
		if *w.BlockedUnits > blocked {
			blocked = *w.BlockedUnits
		}
	}
	return blocked, nil
}

// IsFullyBlocked reports whether any covering window is a full blackout.
func (c *RentalCalendar) IsFullyBlocked(day string) (bool, error) {
	if _, err := ParseDay(day); err != nil {
		return false, err
	}
	for i := range c.Windows {
		if c.Windows[i].Covers(day) && c.Windows[i].IsBlackout() {
			return true, nil
		}
	}
	return false, nil
}

// BookedForDay returns the aggregate consumed units for the day, 0 if absent.
func (c *RentalCalendar) BookedForDay(day string) (int, error) {
	if _, err := ParseDay(day); err != nil {
		return 0, err
	}
	return c.bookedByDay[day], nil
}

// AvailableUnits returns how many units remain bookable on the day.
func (c *RentalCalendar) AvailableUnits(day string) (int, error) {
	fully, err := c.IsFullyBlocked(day)
	if err != nil {
		return 0, err
	}
	if fully {
		return 0, nil
	}
	booked, _ := c.BookedForDay(day)
	blocked, _ := c.BlockedUnitsForDay(day)
	available := c.Offering.TotalUnits - booked - blocked
	if available < 0 {
		return 0, nil
	}
	return available, nil
}

// IsAvailable reports whether at least one unit remains bookable on the day.
func (c *RentalCalendar) IsAvailable(day string) (bool, error) {
	units, err := c.AvailableUnits(day)
	if err != nil {
		return false, err
	}
	return units > 0, nil
}

// RentalDays counts billable days between two dates inclusive, at calendar
// day granularity. In "nights" mode the checkout day is excluded. Inverted
// ranges count as 0.
func (c *RentalCalendar) RentalDays(from, to string) (int, error) {
	start, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	end, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	// Local midnights across a DST transition are 23 or 25 hours apart, so
	// the quotient is rounded rather than truncated.
	diff := end.Sub(start).Hours() / 24
	if diff < 0 {
		return 0, nil
	}
	days := int(diff + 0.5)
	if c.Offering.RentalDayMode == models.RentalDayModeNights {
		return days, nil
	}
	return days + 1, nil
}

// MaxAvailableForRange returns the minimum of AvailableUnits across every
// billable day of the range (per RentalDays, so "nights" mode excludes the
// checkout day), short-circuiting to 0 as soon as any day is exhausted.
// Zero-length or inverted ranges yield 0.
func (c *RentalCalendar) MaxAvailableForRange(from, to string) (int, error) {
	days, err := c.RentalDays(from, to)
	if err != nil {
		return 0, err
	}
	if days <= 0 {
		return 0, nil
	}

	start, _ := ParseDay(from)
	maxAvailable := c.Offering.TotalUnits
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(dayLayout)
		available, err := c.AvailableUnits(day)
		if err != nil {
			return 0, err
		}
		if available < maxAvailable {
			maxAvailable = available
		}
		if maxAvailable <= 0 {
			return 0, nil
		}
	}
	return maxAvailable, nil
}
