package eventRepo

import (
	"context"
	"fmt"
	"time"

	"taskmos/database"
	"taskmos/models"
	"taskmos/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxStoredErrorBytes bounds the error text stored on failed events.
const maxStoredErrorBytes = 512

// MongoEventRepo implements EventRepository using MongoDB. It owns the
// notification_events collection and, for the render unit of work, also
// writes the delivery and message projections in one transaction.
type MongoEventRepo struct {
	client     *mongo.Client
	coll       *mongo.Collection
	deliveries *mongo.Collection
	messages   *mongo.Collection
}

// NewMongoEventRepo creates a new instance of EventRepository using MongoDB.
func NewMongoEventRepo() EventRepository {
	db := database.MongoClient.Database(database.DBName)
	repo := &MongoEventRepo{
		client:     database.MongoClient,
		coll:       db.Collection("notification_events"),
		deliveries: db.Collection("notification_deliveries"),
		messages:   db.Collection("messages"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the event indexes. The partial unique index on
// (taskId, stage) is the idempotency guarantee for deadline reminders:
// concurrent or repeated scans hit the constraint, not application logic.
func (r *MongoEventRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "taskId", Value: 1}, {Key: "stage", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"kind": models.KindTaskDeadlineReminder}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// InsertDeadlineEvent inserts a deadline reminder event, treating a
// duplicate (taskId, stage) pair as a successful no-op.
func (r *MongoEventRepo) InsertDeadlineEvent(event *models.NotificationEvent) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	event.ID = uuid.NewString()
	event.Kind = models.KindTaskDeadlineReminder
	event.Status = models.EventStatusCreated
	event.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert deadline event: %w", err)
	}
	return true, nil
}

// InsertEvent inserts a non-deadline event (no uniqueness contract).
func (r *MongoEventRepo) InsertEvent(event *models.NotificationEvent) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	event.ID = uuid.NewString()
	event.Status = models.EventStatusCreated
	event.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *MongoEventRepo) listByStatus(status string, limit int, ascending bool) ([]models.NotificationEvent, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	order := -1
	if ascending {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: order}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events with status %s: %w", status, err)
	}
	defer cursor.Close(ctx)

	var events []models.NotificationEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// ListOldestByStatus returns events in creation order, for the renderer.
func (r *MongoEventRepo) ListOldestByStatus(status string, limit int) ([]models.NotificationEvent, error) {
	return r.listByStatus(status, limit, true)
}

// ListByStatus returns events newest first, for inspection.
func (r *MongoEventRepo) ListByStatus(status string, limit int) ([]models.NotificationEvent, error) {
	return r.listByStatus(status, limit, false)
}

// GetByID retrieves a single event.
func (r *MongoEventRepo) GetByID(id string) (*models.NotificationEvent, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var event models.NotificationEvent
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch event with id %s: %w", id, err)
	}
	return &event, nil
}

// CompleteRender marks the event rendered and projects the delivery and
// feed rows in one transaction. The status filter keeps terminal events
// terminal: a concurrent run that already finished the event makes this
// call fail instead of double-writing projections.
func (r *MongoEventRepo) CompleteRender(eventID, text string, now time.Time) error {
	ctx, cancel := newContext(15 * time.Second)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.coll.UpdateOne(sc,
			bson.M{"id": eventID, "status": models.EventStatusCreated},
			bson.M{"$set": bson.M{
				"status":       models.EventStatusRendered,
				"renderedText": text,
				"renderedAt":   now,
			}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark event rendered: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("event %s is not pending", eventID)
		}

		delivery := models.NotificationDelivery{
			ID:        uuid.NewString(),
			EventID:   eventID,
			Channel:   models.ChannelInApp,
			Status:    models.DeliveryStatusSent,
			SentAt:    &now,
			CreatedAt: now,
		}
		if _, err := r.deliveries.InsertOne(sc, delivery); err != nil {
			return nil, fmt.Errorf("failed to insert delivery: %w", err)
		}

		message := models.Message{
			ID:        uuid.NewString(),
			Role:      models.RoleAssistant,
			Content:   text,
			EventID:   eventID,
			CreatedAt: now,
		}
		if _, err := r.messages.InsertOne(sc, message); err != nil {
			return nil, fmt.Errorf("failed to insert message: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete render for event %s: %w", eventID, err)
	}
	return nil
}

// MarkFailed moves a pending event to failed, keeping a bounded error
// description for operator inspection. Failed events are never retried
// automatically.
func (r *MongoEventRepo) MarkFailed(eventID, errText string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": eventID, "status": models.EventStatusCreated},
		bson.M{"$set": bson.M{
			"status":       models.EventStatusFailed,
			"renderedText": utils.Truncate(errText, maxStoredErrorBytes),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark event %s failed: %w", eventID, err)
	}
	return nil
}
