package followupRepo

import (
	"context"
	"fmt"
	"time"

	"taskmos/database"
	"taskmos/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowupRunRepository stores the audit trail of followup slot runs.
type FollowupRunRepository interface {
	Create(run *models.FollowupRun) error
	List(limit int) ([]models.FollowupRun, error)
}

// MongoFollowupRunRepo implements FollowupRunRepository using MongoDB.
type MongoFollowupRunRepo struct {
	coll *mongo.Collection
}

// NewMongoFollowupRunRepo creates a new instance of FollowupRunRepository using MongoDB.
func NewMongoFollowupRunRepo() FollowupRunRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("followup_runs")
	return &MongoFollowupRunRepo{coll: coll}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create records one slot run.
func (r *MongoFollowupRunRepo) Create(run *models.FollowupRun) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	run.ID = uuid.NewString()
	run.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to create followup run: %w", err)
	}
	return nil
}

// List returns recent runs, newest first.
func (r *MongoFollowupRunRepo) List(limit int) ([]models.FollowupRun, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list followup runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []models.FollowupRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode followup runs: %w", err)
	}
	return runs, nil
}
