package entities

import "time"

// User represents a user entity in the database
type User struct {
	ID           string    `json:"id" bson:"_id"` // UUID
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"` // Don't expose password hash in JSON
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
