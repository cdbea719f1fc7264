package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskly-be/internal/entities"
)

type mongoTaskRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoTaskRepository creates a task repository backed by a MongoDB database
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &mongoTaskRepository{coll: db.Collection(TasksCollection), now: time.Now}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	if task.UserID == "" {
		return nil, ErrMissingOwner
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	// BSON dates hold milliseconds
	now := r.now().UTC().Truncate(time.Millisecond)
	created := *task
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, &created); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &created, nil
}

func (r *mongoTaskRepository) Find(ctx context.Context, q TaskQuery, page Pagination) ([]*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Limit))

	cursor, err := r.coll.Find(ctx, q.bsonFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	tasks := []*entities.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	return tasks, nil
}

func (r *mongoTaskRepository) Count(ctx context.Context, q TaskQuery) (int64, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}

	total, err := r.coll.CountDocuments(ctx, q.bsonFilter())
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

func (r *mongoTaskRepository) FindOne(ctx context.Context, q TaskQuery) (*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	var task entities.Task
	err := r.coll.FindOne(ctx, q.bsonFilter()).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return &task, nil
}

func (r *mongoTaskRepository) Update(ctx context.Context, q TaskQuery, upd TaskUpdate) (*entities.Task, error) {
	if upd.IsEmpty() {
		return r.FindOne(ctx, q)
	}
	if err := q.validate(); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": r.now().UTC().Truncate(time.Millisecond)}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var task entities.Task
	err := r.coll.FindOneAndUpdate(ctx, q.bsonFilter(), bson.M{"$set": set}, opts).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &task, nil
}

func (r *mongoTaskRepository) Delete(ctx context.Context, q TaskQuery) error {
	if err := q.validate(); err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, q.bsonFilter())
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
