package models

import "taskly-be/internal/entities"

// TokenResponse is returned by signup and login
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"` // JWT token
}

// ProfileResponse wraps the authenticated user's profile
type ProfileResponse struct {
	Success bool           `json:"success"`
	Data    *entities.User `json:"data"`
}
