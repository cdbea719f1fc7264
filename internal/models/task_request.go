package models

import "taskly-be/internal/entities"

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      entities.TaskStatus `json:"status" binding:"omitempty,task_status"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *entities.TaskStatus `json:"status" binding:"omitempty,task_status"`
}

// ListTasksQuery holds the query string of GET /tasks. page and limit are
// kept raw so bad values fall back to defaults instead of failing.
type ListTasksQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Page   string `form:"page"`
	Limit  string `form:"limit"`
}
