// File: database/repository/offering/interface.go
package offeringRepo

import (
	"context"

	"github.com/estodobien/ActiveGo/database"
	"github.com/estodobien/ActiveGo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OfferingRepository exposes the inventory configuration the availability
// and cancellation services need.
type OfferingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Offering, error)
	Create(ctx context.Context, offering *models.Offering) error
	ListByProvider(ctx context.Context, providerID string) ([]models.Offering, error)
	GetTitles(ctx context.Context, ids []string) (map[string]string, error)
}

type mongoOfferingRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferingRepo constructs a new MongoDB OfferingRepository.
func NewMongoOfferingRepo() OfferingRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoOfferingRepo{
		coll: db.Collection("offerings"),
	}
}
