package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/entities"
	"taskly-be/internal/jwt"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
)

const invalidCredentials = "Invalid credentials"

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	bcryptCost int
	dummyHash  []byte
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtService *jwt.JWTService, bcryptCost int, log *zap.Logger) (AuthService, error) {
	// compared against when the email is unknown so both login failures cost the same
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("taskly-login-placeholder"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
		log:        log,
	}, nil
}

// Signup creates a new user account and returns a token for it
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperrors.Validation("All fields are required")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict("Email already registered")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user, err := s.userRepo.Create(ctx, &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// lost a race with a concurrent signup
		return nil, apperrors.Conflict("Email already registered")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))

	return &models.TokenResponse{Success: true, Token: token}, nil
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); cmpErr != nil || user == nil {
		return nil, apperrors.Unauthenticated(invalidCredentials)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))

	return &models.TokenResponse{Success: true, Token: token}, nil
}
