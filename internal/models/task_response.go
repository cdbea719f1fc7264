package models

import (
	"time"

	"taskly-be/internal/entities"
)

// TaskResponse wraps a single task
type TaskResponse struct {
	Success bool           `json:"success"`
	Data    *entities.Task `json:"data"`
}

// TaskListResponse is one page of the caller's tasks
type TaskListResponse struct {
	Success bool             `json:"success"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Pages   int              `json:"pages"`
	Data    []*entities.Task `json:"data"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Success   bool      `json:"success"`
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"` // seconds
	Timestamp time.Time `json:"timestamp"`
}
