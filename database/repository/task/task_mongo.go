package taskRepo

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

// MongoTaskRepo implements TaskRepository using MongoDB.
type MongoTaskRepo struct {
	coll *mongo.Collection
}

// NewMongoTaskRepo creates a new instance of TaskRepository using MongoDB.
func NewMongoTaskRepo() TaskRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("tasks")
	repo := &MongoTaskRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoTaskRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new task document.
func (r *MongoTaskRepo) Create(task *models.Task) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by its unique ID.
func (r *MongoTaskRepo) GetByID(id string) (*models.Task, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var task models.Task
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch task with id %s: %w", id, err)
	}
	return &task, nil
}

// GetAll retrieves tasks ordered by sortOrder then creation time.
func (r *MongoTaskRepo) GetAll(limit int) ([]models.Task, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Update modifies an existing task document.
func (r *MongoTaskRepo) Update(task *models.Task) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	task.UpdatedAt = time.Now()
	filter := bson.M{"id": task.ID}
	update := bson.M{"$set": task}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update task with id %s: %w", task.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task with id %s not found", task.ID)
	}
	return nil
}

// Delete removes a task document by its ID.
func (r *MongoTaskRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task with id %s not found", id)
	}
	return nil
}

// dueFilter matches tasks carrying a due date. Dates are ISO strings so
// lexicographic comparison is date comparison.
func dueFilter() bson.M {
	return bson.M{"$exists": true, "$gt": ""}
}

// ListDue returns candidate tasks for the reminder scanner.
func (r *MongoTaskRepo) ListDue(maxRows int) ([]models.Task, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"dueDate": dueFilter(),
		"status":  bson.M{"$nin": bson.A{models.TaskStatusDone, models.TaskStatusCanceled}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "dueDate", Value: 1}}).
		SetLimit(int64(maxRows))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode due tasks: %w", err)
	}
	return tasks, nil
}

// CountOverdue counts unfinished tasks whose due date is before today.
func (r *MongoTaskRepo) CountOverdue(today string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"dueDate": bson.M{"$exists": true, "$gt": "", "$lt": today},
		"status":  bson.M{"$ne": models.TaskStatusDone},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return n, nil
}

// CountDueOn counts unfinished tasks due on the given date.
func (r *MongoTaskRepo) CountDueOn(date string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"dueDate": date,
		"status":  bson.M{"$ne": models.TaskStatusDone},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks due on %s: %w", date, err)
	}
	return n, nil
}

// CountByStatus counts tasks in the given status.
func (r *MongoTaskRepo) CountByStatus(status string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks with status %s: %w", status, err)
	}
	return n, nil
}
