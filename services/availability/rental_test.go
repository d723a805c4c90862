package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estodobien/ActiveGo/models"
)

func intPtr(n int) *int { return &n }

func rentalOffering(totalUnits int, dayMode string) models.Offering {
	return models.Offering{
		ID:            "off-1",
		ProviderID:    "prov-1",
		Title:         "Kayak fleet",
		ActivityType:  models.ActivityRental,
		TotalUnits:    totalUnits,
		RentalDayMode: dayMode,
		Active:        true,
	}
}

func TestParseDayRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "2026-13-01", "2026-06-32", "06/01/2026", "2026-6-1"} {
		_, err := ParseDay(bad)
		assert.ErrorIs(t, err, ErrInvalidDateRange, "input=%q", bad)
	}

	_, err := ParseDay("2026-06-01")
	assert.NoError(t, err)
}

func TestAvailableUnitsNoWindowsNoBookings(t *testing.T) {
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, nil)

	units, err := cal.AvailableUnits("2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 5, units)

	ok, err := cal.IsAvailable("2026-06-10")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAvailableUnitsSubtractsBookings(t *testing.T) {
	days := []models.DayBooking{
		{OfferingID: "off-1", Date: "2026-06-10", BookedUnits: 2},
		{OfferingID: "off-1", Date: "2026-06-10", BookedUnits: 1},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, days)

	// Duplicate day rows aggregate.
	units, err := cal.AvailableUnits("2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 2, units)
}

func TestBlackoutWindowBlocksEverything(t *testing.T) {
	windows := []models.UnavailabilityWindow{
		{ID: "w1", OfferingID: "off-1", DateFrom: "2026-06-10", DateTo: "2026-06-12", BlockedUnits: nil},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), windows, nil)

	for _, day := range []string{"2026-06-10", "2026-06-11", "2026-06-12"} {
		blocked, err := cal.IsFullyBlocked(day)
		require.NoError(t, err)
		assert.True(t, blocked, "day=%s", day)

		units, err := cal.AvailableUnits(day)
		require.NoError(t, err)
		assert.Equal(t, 0, units, "day=%s", day)
	}

	units, err := cal.AvailableUnits("2026-06-13")
	require.NoError(t, err)
	assert.Equal(t, 5, units)
}

func TestOverlappingWindowsMostRestrictiveWins(t *testing.T) {
	windows := []models.UnavailabilityWindow{
		{ID: "w1", DateFrom: "2026-06-10", DateTo: "2026-06-15", BlockedUnits: intPtr(1)},
		{ID: "w2", DateFrom: "2026-06-12", DateTo: "2026-06-13", BlockedUnits: intPtr(3)},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), windows, nil)

	blocked, err := cal.BlockedUnitsForDay("2026-06-11")
	require.NoError(t, err)
	assert.Equal(t, 1, blocked)

	// Overlap takes the maximum, not the sum.
	blocked, err = cal.BlockedUnitsForDay("2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, 3, blocked)

	units, err := cal.AvailableUnits("2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, 2, units)
}

func TestBlackoutDominatesPartialWindows(t *testing.T) {
	windows := []models.UnavailabilityWindow{
		{ID: "w1", DateFrom: "2026-06-10", DateTo: "2026-06-10", BlockedUnits: intPtr(2)},
		{ID: "w2", DateFrom: "2026-06-10", DateTo: "2026-06-10", BlockedUnits: nil},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), windows, nil)

	blocked, err := cal.BlockedUnitsForDay("2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 5, blocked)
}

func TestAvailableUnitsClampsAtZero(t *testing.T) {
	windows := []models.UnavailabilityWindow{
		{ID: "w1", DateFrom: "2026-06-10", DateTo: "2026-06-10", BlockedUnits: intPtr(4)},
	}
	days := []models.DayBooking{
		{OfferingID: "off-1", Date: "2026-06-10", BookedUnits: 3},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), windows, days)

	units, err := cal.AvailableUnits("2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 0, units)

	ok, err := cal.IsAvailable("2026-06-10")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRentalDaysCalendarVsNights(t *testing.T) {
	calendar := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, nil)
	nights := NewRentalCalendar(rentalOffering(5, models.RentalDayModeNights), nil, nil)

	days, err := calendar.RentalDays("2026-06-10", "2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = nights.RentalDays("2026-06-10", "2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, 2, days)

	// Same-day range: one calendar day, zero nights.
	days, err = calendar.RentalDays("2026-06-10", "2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	days, err = nights.RentalDays("2026-06-10", "2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	// Inverted ranges count as zero.
	days, err = calendar.RentalDays("2026-06-12", "2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestMaxAvailableForRangeTakesMinimum(t *testing.T) {
	days := []models.DayBooking{
		{Date: "2026-06-10", BookedUnits: 1},
		{Date: "2026-06-11", BookedUnits: 4},
		{Date: "2026-06-12", BookedUnits: 2},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, days)

	max, err := cal.MaxAvailableForRange("2026-06-10", "2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, 1, max)
}

func TestMaxAvailableForRangeNightsExcludesCheckout(t *testing.T) {
	days := []models.DayBooking{
		{Date: "2026-06-12", BookedUnits: 5},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeNights), nil, days)

	// Checkout day is exhausted but not billed, so it does not constrain.
	max, err := cal.MaxAvailableForRange("2026-06-10", "2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, 5, max)
}

func TestMaxAvailableForRangeShortCircuitsOnExhaustedDay(t *testing.T) {
	windows := []models.UnavailabilityWindow{
		{ID: "w1", DateFrom: "2026-06-11", DateTo: "2026-06-11", BlockedUnits: nil},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), windows, nil)

	max, err := cal.MaxAvailableForRange("2026-06-10", "2026-06-14")
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

// inZone runs fn with the package-level local zone pinned, since day parsing
// anchors at local midnight.
func inZone(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	old := time.Local
	time.Local = loc
	defer func() { time.Local = old }()
	fn(t)
}

func TestRentalDaysAcrossDSTTransition(t *testing.T) {
	// US clocks spring forward on 2026-03-08 and fall back on 2026-11-01;
	// adjacent local midnights are then 23 and 25 hours apart.
	inZone(t, "America/New_York", func(t *testing.T) {
		calendar := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, nil)
		nights := NewRentalCalendar(rentalOffering(5, models.RentalDayModeNights), nil, nil)

		days, err := calendar.RentalDays("2026-03-08", "2026-03-09")
		require.NoError(t, err)
		assert.Equal(t, 2, days)

		days, err = nights.RentalDays("2026-03-08", "2026-03-09")
		require.NoError(t, err)
		assert.Equal(t, 1, days)

		days, err = calendar.RentalDays("2026-11-01", "2026-11-02")
		require.NoError(t, err)
		assert.Equal(t, 2, days)
	})
}

func TestMaxAvailableForRangeAcrossDSTTransition(t *testing.T) {
	inZone(t, "America/New_York", func(t *testing.T) {
		days := []models.DayBooking{
			{Date: "2026-03-09", BookedUnits: 5},
		}
		cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, days)

		// The exhausted day after the transition still constrains the range.
		max, err := cal.MaxAvailableForRange("2026-03-08", "2026-03-09")
		require.NoError(t, err)
		assert.Equal(t, 0, max)
	})
}

func TestMaxAvailableForRangeZeroOrInvertedRange(t *testing.T) {
	nights := NewRentalCalendar(rentalOffering(5, models.RentalDayModeNights), nil, nil)

	max, err := nights.MaxAvailableForRange("2026-06-10", "2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	max, err = nights.MaxAvailableForRange("2026-06-12", "2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestRangeOperationsRejectMalformedDates(t *testing.T) {
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), nil, nil)

	_, err := cal.MaxAvailableForRange("2026-06-10", "soon")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = cal.AvailableUnits("yesterday")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestAvailabilityInvariant(t *testing.T) {
	windows := []models.UnavailabilityWindow{
		{ID: "w1", DateFrom: "2026-06-10", DateTo: "2026-06-20", BlockedUnits: intPtr(2)},
	}
	days := []models.DayBooking{
		{Date: "2026-06-12", BookedUnits: 1},
		{Date: "2026-06-13", BookedUnits: 3},
	}
	cal := NewRentalCalendar(rentalOffering(5, models.RentalDayModeCalendar), windows, days)

	// available + booked + blocked never exceeds the pool size.
	for _, day := range []string{"2026-06-10", "2026-06-12", "2026-06-13", "2026-06-21"} {
		available, err := cal.AvailableUnits(day)
		require.NoError(t, err)
		booked, err := cal.BookedForDay(day)
		require.NoError(t, err)
		blocked, err := cal.BlockedUnitsForDay(day)
		require.NoError(t, err)

		assert.LessOrEqual(t, available+booked+blocked, 5, "day=%s", day)
		assert.GreaterOrEqual(t, available, 0, "day=%s", day)
	}
}
