package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"taskly-be/internal/entities"
)

func TestMongoRepositories(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create user duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		repo := NewMongoUserRepository(mt.DB)
		_, err := repo.Create(context.Background(), &entities.User{Name: "Alice", Email: "alice@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	mt.Run("create task stores millisecond timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewMongoTaskRepository(mt.DB)
		repo.(*mongoTaskRepository).now = func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
		}

		got, err := repo.Create(context.Background(), &entities.Task{Title: "Buy Milk", Status: entities.TaskStatusPending, UserID: "alice"})
		require.NoError(t, err)
		want := time.Date(2026, 3, 1, 12, 0, 0, 123000000, time.UTC)
		assert.Equal(t, want, got.CreatedAt)
		assert.Equal(t, want, got.UpdatedAt)
		assert.NotEmpty(t, got.ID)
	})

	mt.Run("find user not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskly.users", mtest.FirstBatch))

		repo := NewMongoUserRepository(mt.DB)
		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("find task", func(mt *mtest.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskly.tasks", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "t1"},
			{Key: "title", Value: "Buy Milk"},
			{Key: "description", Value: ""},
			{Key: "status", Value: "pending"},
			{Key: "user_id", Value: "alice"},
			{Key: "created_at", Value: now},
			{Key: "updated_at", Value: now},
		}))

		repo := NewMongoTaskRepository(mt.DB)
		got, err := repo.FindOne(context.Background(), OwnedBy("alice").ByID("t1"))
		require.NoError(t, err)
		assert.Equal(t, "Buy Milk", got.Title)
		assert.Equal(t, entities.TaskStatusPending, got.Status)
	})

	mt.Run("update task returns new document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "t1"},
			{Key: "title", Value: "Buy Milk"},
			{Key: "status", Value: "completed"},
			{Key: "user_id", Value: "alice"},
		}}))

		status := entities.TaskStatusCompleted
		repo := NewMongoTaskRepository(mt.DB)
		got, err := repo.Update(context.Background(), OwnedBy("alice").ByID("t1"), TaskUpdate{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, entities.TaskStatusCompleted, got.Status)
	})

	mt.Run("delete missing task", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		repo := NewMongoTaskRepository(mt.DB)
		err := repo.Delete(context.Background(), OwnedBy("bob").ByID("t1"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
