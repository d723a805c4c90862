// File: database/repository/offering/offering_mongo.go
package offeringRepo

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

// ErrNotFound is returned when an offering does not exist.
var ErrNotFound = errors.New("offering not found")

func (r *mongoOfferingRepo) GetByID(ctx context.Context, id string) (*models.Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offering models.Offering
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&offering)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch offering %s: %w", id, err)
	}
	return &offering, nil
}

func (r *mongoOfferingRepo) Create(ctx context.Context, offering *models.Offering) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, offering); err != nil {
		return fmt.Errorf("failed to create offering: %w", err)
	}
	return nil
}

func (r *mongoOfferingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"provider_id": providerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	defer cursor.Close(ctx)

	var offerings []models.Offering
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *mongoOfferingRepo) GetTitles(ctx context.Context, ids []string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offering titles: %w", err)
	}
	defer cursor.Close(ctx)

	titles := make(map[string]string, len(ids))
	for cursor.Next(ctx) {
		var offering models.Offering
		if err := cursor.Decode(&offering); err != nil {
			return nil, err
		}
		titles[offering.ID] = offering.Title
	}
	return titles, cursor.Err()
}
