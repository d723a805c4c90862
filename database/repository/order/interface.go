// File: database/repository/order/interface.go
package orderRepo

import (
	"context"

	"github.com/estodobien/ActiveGo/database"
	"github.com/estodobien/ActiveGo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository is the gateway to the orders collection. Status mutation is
// deliberately narrow: the only write path after creation is MarkCancelled.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	GetByIDs(ctx context.Context, ids []string) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Order, error)
	// MarkCancelled conditionally moves an active order into a cancelled
	// status. The filter requires the order to still be active and, when
	// upd.OwnerUserID is set, owned by that user; ErrNoMatch signals either
	// an authorization mismatch or a lost race with another cancellation.
	MarkCancelled(ctx context.Context, orderID string, upd models.CancellationUpdate) error
}

type mongoOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoOrderRepo constructs a new MongoDB OrderRepository.
func NewMongoOrderRepo() OrderRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoOrderRepo{
		coll: db.Collection("orders"),
	}
}
