// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"
	"errors"

	"github.com/estodobien/ActiveGo/database"
	"github.com/estodobien/ActiveGo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a schedule document does not exist.
	ErrNotFound = errors.New("schedule entry not found")
	// ErrDateHasBookings is returned when deleting a scheduled date that
	// still has consumed seats.
	ErrDateHasBookings = errors.New("scheduled date has bookings")
	// ErrInsufficientCapacity is returned when a conditional reserve or
	// restore found no document satisfying its capacity guard.
	ErrInsufficientCapacity = errors.New("insufficient capacity for schedule update")
)

// ScheduleRepository owns both availability representations: fixed-capacity
// scheduled dates for tour-like offerings and the per-day unit pool (day
// bookings + unavailability windows) for rentals. Every inventory mutation
// is a single-document conditional update so concurrent booking and
// restoration can never drive counters outside their invariants. The
// Reserve* operations are the store-side consumption half of that pair:
// checkout lives in an external service, which calls them through this
// gateway, so nothing in this server invokes them besides tests.
type ScheduleRepository interface {
	// Scheduled dates (tour-mode).
	CreateDate(ctx context.Context, d *models.ScheduledDate) error
	GetDate(ctx context.Context, offeringID, date string) (*models.ScheduledDate, error)
	ListDates(ctx context.Context, offeringID string) ([]models.ScheduledDate, error)
	DeleteDate(ctx context.Context, offeringID, dateID string) error
	ReserveSeats(ctx context.Context, offeringID, date string, seats int) error
	// RestoreByOrder returns a tour-mode order's seats to its scheduled
	// date. Keyed by order id so callers need no knowledge of the date row.
	RestoreByOrder(ctx context.Context, orderID string) error

	// Day bookings (rental-mode).
	GetDayBookings(ctx context.Context, offeringID, from, to string) ([]models.DayBooking, error)
	ReserveDayUnits(ctx context.Context, offeringID, date string, units, ceiling int) error
	RestoreDayUnits(ctx context.Context, offeringID, date string, units int) error

	// Unavailability windows.
	CreateWindow(ctx context.Context, w *models.UnavailabilityWindow) error
	DeleteWindow(ctx context.Context, offeringID, windowID string) error
	GetWindows(ctx context.Context, offeringID string) ([]models.UnavailabilityWindow, error)
}

type mongoScheduleRepo struct {
	dates   *mongo.Collection
	days    *mongo.Collection
	windows *mongo.Collection
	orders  *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoScheduleRepo{
		dates:   db.Collection("scheduled_dates"),
		days:    db.Collection("day_bookings"),
		windows: db.Collection("unavailability_windows"),
		orders:  db.Collection("orders"),
	}
}
