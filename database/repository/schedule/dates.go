// File: database/repository/schedule/dates.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estodobien/ActiveGo/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoScheduleRepo) CreateDate(ctx context.Context, d *models.ScheduledDate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if d.Capacity < 0 || d.Booked < 0 || d.Booked > d.Capacity {
		return fmt.Errorf("invalid scheduled date: capacity=%d booked=%d", d.Capacity, d.Booked)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if _, err := r.dates.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to create scheduled date: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) GetDate(ctx context.Context, offeringID, date string) (*models.ScheduledDate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d models.ScheduledDate
	err := r.dates.FindOne(ctx, bson.M{"offering_id": offeringID, "date": date}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch scheduled date: %w", err)
	}
	return &d, nil
}

func (r *mongoScheduleRepo) ListDates(ctx context.Context, offeringID string) ([]models.ScheduledDate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.dates.Find(ctx, bson.M{"offering_id": offeringID})
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled dates: %w", err)
	}
	defer cursor.Close(ctx)

	var dates []models.ScheduledDate
	if err := cursor.All(ctx, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

// DeleteDate removes a scheduled date only while no seats are consumed.
func (r *mongoScheduleRepo) DeleteDate(ctx context.Context, offeringID, dateID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.dates.DeleteOne(ctx, bson.M{
		"id":          dateID,
		"offering_id": offeringID,
		"booked":      0,
	})
	if err != nil {
		return fmt.Errorf("failed to delete scheduled date: %w", err)
	}
	if res.DeletedCount == 0 {
		// Distinguish a busy date from a missing one.
		count, err := r.dates.CountDocuments(ctx, bson.M{"id": dateID, "offering_id": offeringID})
		if err != nil {
			return fmt.Errorf("failed to delete scheduled date: %w", err)
		}
		if count > 0 {
			return ErrDateHasBookings
		}
		return ErrNotFound
	}
	return nil
}

// ReserveSeats consumes seats on a scheduled date. The $expr guard keeps
// booked <= capacity under concurrent reservations.
func (r *mongoScheduleRepo) ReserveSeats(ctx context.Context, offeringID, date string, seats int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if seats <= 0 {
		return fmt.Errorf("invalid seat count %d", seats)
	}
	filter := bson.M{
		"offering_id": offeringID,
		"date":        date,
		"$expr": bson.M{
			"$lte": bson.A{bson.M{"$add": bson.A{"$booked", seats}}, "$capacity"},
		},
	}
	res, err := r.dates.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"booked": seats}})
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}

// RestoreByOrder returns a cancelled tour-mode order's seats to its
// scheduled date. The booked >= quantity guard keeps the counter from going
// negative if the restore is ever replayed.
func (r *mongoScheduleRepo) RestoreByOrder(ctx context.Context, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	if err := r.orders.FindOne(ctx, bson.M{"id": orderID}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch order %s for restore: %w", orderID, err)
	}
	if order.BookingDate == "" {
		return fmt.Errorf("order %s is not a tour-mode booking", orderID)
	}

	filter := bson.M{
		"offering_id": order.OfferingID,
		"date":        order.BookingDate,
		"booked":      bson.M{"$gte": order.Quantity},
	}
	res, err := r.dates.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"booked": -order.Quantity}})
	if err != nil {
		return fmt.Errorf("failed to restore seats for order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}
