package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/simmer/simmer/internal/model"
	"github.com/simmer/simmer/internal/repository"
)

// IngredientService handles ingredient business logic.
type IngredientService struct {
	repo *repository.Repository
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(repo *repository.Repository) *IngredientService {
	return &IngredientService{repo: repo}
}

// List returns the caller's ingredients, name descending.
func (s *IngredientService) List(ctx context.Context, ownerID string) ([]*model.Ingredient, error) {
	return s.repo.ListIngredientsByOwner(ctx, ownerID)
}

// Create validates the name and creates an ingredient owned by the caller.
func (s *IngredientService) Create(ctx context.Context, ownerID, name string) (*model.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxCatalogNameLength {
		return nil, ErrNameTooLong
	}

	ing := &model.Ingredient{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateIngredient(ctx, ing); err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	return ing, nil
}
