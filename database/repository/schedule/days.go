// File: database/repository/schedule/days.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/estodobien/ActiveGo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) GetDayBookings(ctx context.Context, offeringID, from, to string) ([]models.DayBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"offering_id": offeringID,
		"date":        bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.days.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var days []models.DayBooking
	if err := cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// ReserveDayUnits consumes rental units for one calendar day. The caller
// supplies the ceiling for that day (total units minus blocked units); the
// $expr guard keeps booked_units + units within it even when two clients hit
// the same day concurrently. Missing day documents are created on first use.
func (r *mongoScheduleRepo) ReserveDayUnits(ctx context.Context, offeringID, date string, units, ceiling int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if units <= 0 || units > ceiling {
		return ErrInsufficientCapacity
	}

	// Ensure the day document exists before the guarded increment; upsert
	// with $setOnInsert keeps this race-safe.
	seed := bson.M{
		"$setOnInsert": bson.M{
			"offering_id":  offeringID,
			"date":         date,
			"booked_units": 0,
		},
	}
	if _, err := r.days.UpdateOne(ctx,
		bson.M{"offering_id": offeringID, "date": date},
		seed,
		options.Update().SetUpsert(true),
	); err != nil {
		return fmt.Errorf("failed to seed day booking: %w", err)
	}

	filter := bson.M{
		"offering_id": offeringID,
		"date":        date,
		"$expr": bson.M{
			"$lte": bson.A{bson.M{"$add": bson.A{"$booked_units", units}}, ceiling},
		},
	}
	res, err := r.days.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"booked_units": units}})
	if err != nil {
		return fmt.Errorf("failed to reserve day units: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}

// RestoreDayUnits returns previously consumed rental units for one calendar
// day. The booked_units >= units guard makes a replayed restore a no-op
// failure instead of driving the counter negative.
func (r *mongoScheduleRepo) RestoreDayUnits(ctx context.Context, offeringID, date string, units int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if units <= 0 {
		return fmt.Errorf("invalid unit count %d", units)
	}
	filter := bson.M{
		"offering_id":  offeringID,
		"date":         date,
		"booked_units": bson.M{"$gte": units},
	}
	res, err := r.days.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"booked_units": -units}})
	if err != nil {
		return fmt.Errorf("failed to restore day units: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}
