// File: database/repository/order/order_mongo.go
package orderRepo

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

// ErrNoMatch is returned when a conditional update matched no document.
var ErrNoMatch = errors.New("order update matched no document")

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order not found")

func (r *mongoOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return &order, nil
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *mongoOrderRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"provider_id": providerID})
}

func (r *mongoOrderRepo) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepo) MarkCancelled(ctx context.Context, orderID string, upd models.CancellationUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     orderID,
		"status": bson.M{"$in": bson.A{models.OrderStatusConfirmed, models.OrderStatusApproved}},
	}
	if upd.OwnerUserID != "" {
		filter["user_id"] = upd.OwnerUserID
	}

	set := bson.M{
		"status":       upd.Status,
		"cancelled_at": upd.CancelledAt,
		"cancelled_by": upd.CancelledBy,
	}
	if upd.ProviderCancelReason != "" {
		set["provider_cancel_reason"] = upd.ProviderCancelReason
	}
	if upd.PenaltyPercent > 0 {
		set["penalty_percent"] = upd.PenaltyPercent
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to mark order %s cancelled: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}
