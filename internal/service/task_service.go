package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/entities"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 5
	maxLimit     = 100
	maxPage      = math.MaxInt32
)

// TaskService defines the interface for task business logic.
// userID is always the authenticated caller.
type TaskService interface {
	Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.TaskResponse, error)
	List(ctx context.Context, userID string, q *models.ListTasksQuery) (*models.TaskListResponse, error)
	Get(ctx context.Context, userID, taskID string) (*models.TaskResponse, error)
	Update(ctx context.Context, userID, taskID string, req *models.UpdateTaskRequest) (*models.TaskResponse, error)
	Delete(ctx context.Context, userID, taskID string) (*models.MessageResponse, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	log      *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo repository.TaskRepository, log *zap.Logger) TaskService {
	return &taskService{taskRepo: taskRepo, log: log}
}

// Create stores a new task owned by userID
func (s *taskService) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.Validation("Title is required")
	}

	status := req.Status
	if status == "" {
		status = entities.TaskStatusPending
	}
	if !status.IsValid() {
		return nil, invalidStatus()
	}

	task, err := s.taskRepo.Create(ctx, &entities.Task{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		UserID:      userID,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &models.TaskResponse{Success: true, Data: task}, nil
}

// List returns one page of the caller's tasks, newest first
func (s *taskService) List(ctx context.Context, userID string, q *models.ListTasksQuery) (*models.TaskListResponse, error) {
	page := parsePositive(q.Page, defaultPage, maxPage)
	limit := parsePositive(q.Limit, defaultLimit, maxLimit)

	query := repository.OwnedBy(userID)
	if search := strings.TrimSpace(q.Search); search != "" {
		query = query.Matching(search)
	}
	if status := strings.TrimSpace(q.Status); status != "" {
		query = query.WithStatus(entities.TaskStatus(status))
	}

	total, err := s.taskRepo.Count(ctx, query)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	tasks, err := s.taskRepo.Find(ctx, query, repository.Pagination{
		Skip:  (page - 1) * limit,
		Limit: limit,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &models.TaskListResponse{
		Success: true,
		Total:   total,
		Page:    page,
		Pages:   int((total + int64(limit) - 1) / int64(limit)),
		Data:    tasks,
	}, nil
}

// Get returns one of the caller's tasks
func (s *taskService) Get(ctx context.Context, userID, taskID string) (*models.TaskResponse, error) {
	task, err := s.taskRepo.FindOne(ctx, repository.OwnedBy(userID).ByID(taskID))
	if err != nil {
		return nil, taskError(err)
	}

	return &models.TaskResponse{Success: true, Data: task}, nil
}

// Update merges the supplied fields into one of the caller's tasks
func (s *taskService) Update(ctx context.Context, userID, taskID string, req *models.UpdateTaskRequest) (*models.TaskResponse, error) {
	var upd repository.TaskUpdate

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.Validation("Title is required")
		}
		upd.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		upd.Description = &description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, invalidStatus()
		}
		status := *req.Status
		upd.Status = &status
	}

	task, err := s.taskRepo.Update(ctx, repository.OwnedBy(userID).ByID(taskID), upd)
	if err != nil {
		return nil, taskError(err)
	}

	return &models.TaskResponse{Success: true, Data: task}, nil
}

// Delete removes one of the caller's tasks
func (s *taskService) Delete(ctx context.Context, userID, taskID string) (*models.MessageResponse, error) {
	if err := s.taskRepo.Delete(ctx, repository.OwnedBy(userID).ByID(taskID)); err != nil {
		return nil, taskError(err)
	}

	s.log.Debug("task deleted", zap.String("user_id", userID), zap.String("task_id", taskID))

	return &models.MessageResponse{Success: true, Message: "Task deleted successfully"}, nil
}

// taskError folds "missing" and "owned by someone else" into one 404
func taskError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Task not found")
	}
	return apperrors.Internal(err)
}

func invalidStatus() error {
	return apperrors.Validation("Status must be one of: pending, in-progress, completed")
}

// parsePositive parses a query value, falling back to def when it is missing,
// malformed or below 1. Values above max are clamped.
func parsePositive(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
