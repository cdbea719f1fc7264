// Package repository persists users and tasks. Each repository has a
// PostgreSQL, a MongoDB and an in-memory implementation behind one interface.
package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskly-be/internal/entities"
)

// newID returns a time-ordered UUIDv7. Ids issued by one process sort in
// creation order, which breaks created_at ties newest first.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrMissingOwner   = errors.New("task query has no owner")
)

// UserUpdate lists the profile fields to change. Nil fields are left alone.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.PasswordHash == nil
}

// TaskUpdate lists the task fields to change. Nil fields are left alone.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *entities.TaskStatus
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil
}

// Pagination is an offset window over a sorted result set
type Pagination struct {
	Skip  int
	Limit int
}
