// File: database/repository/profile/interface.go
package profileRepo

import (
	"context"

	"github.com/estodobien/ActiveGo/database"
	"github.com/estodobien/ActiveGo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileRepository is the read-only view of accounts the notification
// worker needs. Account lifecycle is owned by the external auth service.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error)
}

type mongoProfileRepo struct {
	coll *mongo.Collection
}

// NewMongoProfileRepo constructs a new MongoDB ProfileRepository.
func NewMongoProfileRepo() ProfileRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoProfileRepo{
		coll: db.Collection("profiles"),
	}
}
