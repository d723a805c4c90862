// File: database/repository/schedule/windows.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/estodobien/ActiveGo/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoScheduleRepo) CreateWindow(ctx context.Context, w *models.UnavailabilityWindow) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if w.DateFrom == "" || w.DateTo == "" || w.DateTo < w.DateFrom {
		return fmt.Errorf("invalid window range %q..%q", w.DateFrom, w.DateTo)
	}
	if w.BlockedUnits != nil && *w.BlockedUnits <= 0 {
		return fmt.Errorf("invalid blocked unit count %d", *w.BlockedUnits)
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if _, err := r.windows.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("failed to create unavailability window: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) DeleteWindow(ctx context.Context, offeringID, windowID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.windows.DeleteOne(ctx, bson.M{"id": windowID, "offering_id": offeringID})
	if err != nil {
		return fmt.Errorf("failed to delete unavailability window: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoScheduleRepo) GetWindows(ctx context.Context, offeringID string) ([]models.UnavailabilityWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.windows.Find(ctx, bson.M{"offering_id": offeringID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unavailability windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.UnavailabilityWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}
