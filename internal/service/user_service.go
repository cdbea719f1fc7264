package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
)

// UserService defines the interface for profile business logic
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.MessageResponse, error)
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	log        *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, bcryptCost int, log *zap.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// GetProfile returns the caller's own profile
func (s *userService) GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &models.ProfileResponse{Success: true, Data: user}, nil
}

// UpdateProfile changes the caller's name and/or password
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.MessageResponse, error) {
	var upd repository.UserUpdate

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		upd.Name = &name
	}

	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
		}
		hashStr := string(hash)
		upd.PasswordHash = &hashStr
	}

	if upd.IsEmpty() {
		return nil, apperrors.Validation("No valid fields to update")
	}

	if _, err := s.userRepo.Update(ctx, userID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal(err)
	}

	s.log.Info("profile updated",
		zap.String("user_id", userID),
		zap.Bool("name", upd.Name != nil),
		zap.Bool("password", upd.PasswordHash != nil),
	)

	return &models.MessageResponse{Success: true, Message: "Profile updated successfully"}, nil
}
