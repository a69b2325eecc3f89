package deliveryRepo

import (
	"context"
	"fmt"
	"time"

	"taskmos/database"
	"taskmos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryRepository reads delivery attempt records. Writes happen inside
// the render unit of work, not here.
type DeliveryRepository interface {
	ListByEvent(eventID string) ([]models.NotificationDelivery, error)
}

// MongoDeliveryRepo implements DeliveryRepository using MongoDB.
type MongoDeliveryRepo struct {
	coll *mongo.Collection
}

// NewMongoDeliveryRepo creates a new instance of DeliveryRepository using MongoDB.
func NewMongoDeliveryRepo() DeliveryRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("notification_deliveries")
	repo := &MongoDeliveryRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoDeliveryRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "eventId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// ListByEvent returns delivery attempts for one event, oldest first.
func (r *MongoDeliveryRepo) ListByEvent(eventID string) ([]models.NotificationDelivery, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries for event %s: %w", eventID, err)
	}
	defer cursor.Close(ctx)

	var deliveries []models.NotificationDelivery
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, fmt.Errorf("failed to decode deliveries: %w", err)
	}
	return deliveries, nil
}
