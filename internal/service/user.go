// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/simmer/simmer/internal/auth"
	"github.com/simmer/simmer/internal/cache"
	"github.com/simmer/simmer/internal/model"
	"github.com/simmer/simmer/internal/repository"
)

// User service errors.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrMissingField       = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// emailRegex is a pragmatic format check; deliverability is not our concern.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService handles account and token business logic.
type UserService struct {
	repo              *repository.Repository
	cache             *cache.Cache
	passwordMinLength int
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, cache *cache.Cache, passwordMinLength int) *UserService {
	return &UserService{
		repo:              repo,
		cache:             cache,
		passwordMinLength: passwordMinLength,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a new account with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := model.NormalizeEmail(input.Email)
	if email == "" || !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if len(input.Password) < s.passwordMinLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashSecret(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// IssueToken verifies credentials and returns the plaintext bearer token.
// Re-issuing replaces the user's prior token; the upsert's uniqueness on
// user_id keeps concurrent logins from diverging.
func (s *UserService) IssueToken(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", ErrMissingField
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifySecret(password, user.PasswordHash)
	if err != nil || !match {
		return "", ErrInvalidCredentials
	}

	generated, err := auth.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Prefix,
		IssuedAt:  time.Now().UTC(),
	}

	if err := s.repo.UpsertToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	// Evict any cached auth context for the replaced token.
	if s.cache != nil {
		_ = s.cache.InvalidateUserAuth(ctx, user.ID)
	}

	return generated.Plaintext, nil
}

// Profile retrieves the caller's own account.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines input for self-service profile edits.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// UpdateProfile updates the caller's name and/or password. A supplied
// password is re-hashed; it is never stored or echoed in plaintext.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Password != nil {
		if len(*input.Password) < s.passwordMinLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := auth.HashSecret(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
