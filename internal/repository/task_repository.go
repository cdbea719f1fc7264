package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taskly-be/internal/entities"
)

// TaskRepository defines the interface for task database operations.
// Every method takes a TaskQuery, so nothing can touch a task without naming
// its owner.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)
	Find(ctx context.Context, q TaskQuery, page Pagination) ([]*entities.Task, error)
	Count(ctx context.Context, q TaskQuery) (int64, error)
	FindOne(ctx context.Context, q TaskQuery) (*entities.Task, error)
	Update(ctx context.Context, q TaskQuery, upd TaskUpdate) (*entities.Task, error)
	Delete(ctx context.Context, q TaskQuery) error
}

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, user_id, created_at, updated_at`

// Create inserts a new task into the database
func (r *taskRepository) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	if task.UserID == "" {
		return nil, ErrMissingOwner
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query, id, task.Title, task.Description, string(task.Status), task.UserID)
	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

// Find returns one page of matching tasks, newest first
func (r *taskRepository) Find(ctx context.Context, q TaskQuery, page Pagination) ([]*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if !hasValidIDs(q) {
		return []*entities.Task{}, nil
	}

	where, args := q.sqlWhere()
	args = append(args, page.Limit, page.Skip)
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, taskColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*entities.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Count returns how many tasks match the query, ignoring pagination
func (r *taskRepository) Count(ctx context.Context, q TaskQuery) (int64, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}
	if !hasValidIDs(q) {
		return 0, nil
	}

	where, args := q.sqlWhere()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return total, nil
}

// FindOne returns the single task matching the query
func (r *taskRepository) FindOne(ctx context.Context, q TaskQuery) (*entities.Task, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if !hasValidIDs(q) {
		return nil, ErrNotFound
	}

	where, args := q.sqlWhere()

	task, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Update applies the supplied fields to the matching task and returns it
func (r *taskRepository) Update(ctx context.Context, q TaskQuery, upd TaskUpdate) (*entities.Task, error) {
	if upd.IsEmpty() {
		return r.FindOne(ctx, q)
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	if !hasValidIDs(q) {
		return nil, ErrNotFound
	}

	where, args := q.sqlWhere()
	var sets []string
	if upd.Title != nil {
		args = append(args, *upd.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.Status != nil {
		args = append(args, string(*upd.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE ` + where + ` RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes the matching task
func (r *taskRepository) Delete(ctx context.Context, q TaskQuery) error {
	if err := q.validate(); err != nil {
		return err
	}
	if !hasValidIDs(q) {
		return ErrNotFound
	}

	where, args := q.sqlWhere()

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE `+where, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// hasValidIDs reports whether the ids in q can exist in a uuid column.
// Anything else cannot match a row.
func hasValidIDs(q TaskQuery) bool {
	if _, err := uuid.Parse(q.ownerID); err != nil {
		return false
	}
	if q.id != "" {
		if _, err := uuid.Parse(q.id); err != nil {
			return false
		}
	}
	return true
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*entities.Task, error) {
	var task entities.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
