package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/simmer/simmer/internal/model"
	"github.com/simmer/simmer/internal/repository"
)

// Catalog name validation errors, shared by tags and ingredients.
var (
	ErrEmptyName   = errors.New("name must not be empty")
	ErrNameTooLong = errors.New("name exceeds maximum length")
)

// maxCatalogNameLength bounds tag and ingredient names.
const maxCatalogNameLength = 255

// TagService handles tag business logic.
type TagService struct {
	repo *repository.Repository
}

// NewTagService creates a new TagService.
func NewTagService(repo *repository.Repository) *TagService {
	return &TagService{repo: repo}
}

// List returns the caller's tags, name descending.
func (s *TagService) List(ctx context.Context, ownerID string) ([]*model.Tag, error) {
	return s.repo.ListTagsByOwner(ctx, ownerID)
}

// Create validates the name and creates a tag owned by the caller.
func (s *TagService) Create(ctx context.Context, ownerID, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxCatalogNameLength {
		return nil, ErrNameTooLong
	}

	tag := &model.Tag{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}
