package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/simmer/simmer/internal/media"
	"github.com/simmer/simmer/internal/model"
	"github.com/simmer/simmer/internal/repository"
)

// Recipe service errors.
var (
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrEmptyTitle           = errors.New("title must not be empty")
	ErrNegativeTime         = errors.New("time_in_minutes must not be negative")
	ErrNegativePrice        = errors.New("price must not be negative")
	ErrUnknownTag           = errors.New("tag does not exist for this user")
	ErrUnknownIngredient    = errors.New("ingredient does not exist for this user")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrNotAnImage           = media.ErrNotAnImage
)

// maxRecipeTitleLength bounds recipe titles.
const maxRecipeTitleLength = 255

// RecipeService handles recipe business logic.
type RecipeService struct {
	repo  *repository.Repository
	media *media.Store
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo *repository.Repository, store *media.Store) *RecipeService {
	return &RecipeService{
		repo:  repo,
		media: store,
	}
}

// CreateRecipeInput defines input for creating a recipe.
type CreateRecipeInput struct {
	Title         string
	TimeInMinutes int
	Price         decimal.Decimal
	TagIDs        []string
	IngredientIDs []string
}

// Create validates input, resolves linked tags/ingredients against the
// caller's own records, and creates the recipe. Any foreign or unknown
// linked id is rejected, never silently dropped or adopted.
func (s *RecipeService) Create(ctx context.Context, ownerID string, input CreateRecipeInput) (*model.Recipe, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateRecipeFields(title, input.TimeInMinutes, input.Price); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, ownerID, input.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, ownerID, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &model.Recipe{
		ID:            ulid.Make().String(),
		OwnerID:       ownerID,
		Title:         title,
		TimeInMinutes: input.TimeInMinutes,
		Price:         input.Price,
		Tags:          tags,
		Ingredients:   ingredients,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrCrossOwnerLink) {
			// Race between resolve and insert; surface as the same rejection.
			return nil, ErrUnknownTag
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return recipe, nil
}

// Get retrieves one of the caller's recipes with nested detail.
// Foreign-owned ids resolve to not found.
func (s *RecipeService) Get(ctx context.Context, ownerID, id string) (*model.Recipe, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// List retrieves the caller's recipe summaries, optionally filtered to
// recipes linked to any of the given tag and/or ingredient ids.
func (s *RecipeService) List(ctx context.Context, ownerID string, tagIDs, ingredientIDs []string) ([]*model.Recipe, error) {
	filter := repository.RecipeFilter{
		OwnerID:       ownerID,
		TagIDs:        dedupe(tagIDs),
		IngredientIDs: dedupe(ingredientIDs),
	}
	return s.repo.ListRecipes(ctx, filter)
}

// UpdateRecipeInput defines input for updating a recipe.
// Nil fields are interpreted per the partial flag of Update.
type UpdateRecipeInput struct {
	Title         *string
	TimeInMinutes *int
	Price         *decimal.Decimal
	TagIDs        *[]string
	IngredientIDs *[]string
}

// Update modifies one of the caller's recipes. With partial=true only
// supplied fields change and nil collections keep their links. With
// partial=false the scalar fields are required and omitted collections
// reset to empty. The owner is immutable either way.
func (s *RecipeService) Update(ctx context.Context, ownerID, id string, input UpdateRecipeInput, partial bool) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !partial {
		if input.Title == nil || input.TimeInMinutes == nil || input.Price == nil {
			return nil, ErrMissingRequiredField
		}
		// Full replace: omitted collections reset to empty.
		if input.TagIDs == nil {
			input.TagIDs = &[]string{}
		}
		if input.IngredientIDs == nil {
			input.IngredientIDs = &[]string{}
		}
	}

	if input.Title != nil {
		recipe.Title = strings.TrimSpace(*input.Title)
	}
	if input.TimeInMinutes != nil {
		recipe.TimeInMinutes = *input.TimeInMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}

	if err := validateRecipeFields(recipe.Title, recipe.TimeInMinutes, recipe.Price); err != nil {
		return nil, err
	}

	if input.TagIDs != nil {
		tags, err := s.resolveTags(ctx, ownerID, *input.TagIDs)
		if err != nil {
			return nil, err
		}
		recipe.Tags = tags
	}
	if input.IngredientIDs != nil {
		ingredients, err := s.resolveIngredients(ctx, ownerID, *input.IngredientIDs)
		if err != nil {
			return nil, err
		}
		recipe.Ingredients = ingredients
	}

	recipe.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecipeNotFound):
			return nil, ErrRecipeNotFound
		case errors.Is(err, repository.ErrCrossOwnerLink):
			return nil, ErrUnknownTag
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	return recipe, nil
}

// Delete removes one of the caller's recipes along with its tag and
// ingredient links. The linked records themselves survive.
func (s *RecipeService) Delete(ctx context.Context, ownerID, id string) error {
	err := s.repo.DeleteRecipe(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

// UploadImage validates the payload decodes as an image, stores the blob,
// and updates the recipe's image reference. A prior blob is removed.
func (s *RecipeService) UploadImage(ctx context.Context, ownerID, id string, data []byte) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	ext, err := media.DetectFormat(data)
	if err != nil {
		return nil, ErrNotAnImage
	}

	path, err := s.media.SaveRecipeImage(recipe.ID, ext, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	if err := s.repo.SetRecipeImage(ctx, ownerID, id, path); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to update image reference: %w", err)
	}

	if recipe.HasImage() {
		_ = s.media.Remove(*recipe.ImagePath)
	}

	recipe.ImagePath = &path
	return recipe, nil
}

// validateRecipeFields enforces the invariants shared by create and update.
func validateRecipeFields(title string, timeInMinutes int, price decimal.Decimal) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxRecipeTitleLength {
		return ErrNameTooLong
	}
	if timeInMinutes < 0 {
		return ErrNegativeTime
	}
	if price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// resolveTags maps tag ids to the caller's own tags, rejecting any id
// that is unknown or owned by another user.
func (s *RecipeService) resolveTags(ctx context.Context, ownerID string, ids []string) ([]model.Tag, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	owned, err := s.repo.GetTagsOwnedByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	if len(owned) != len(ids) {
		return nil, ErrUnknownTag
	}

	tags := make([]model.Tag, len(owned))
	for i, t := range owned {
		tags[i] = *t
	}
	return tags, nil
}

// resolveIngredients mirrors resolveTags for ingredient ids.
func (s *RecipeService) resolveIngredients(ctx context.Context, ownerID string, ids []string) ([]model.Ingredient, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	owned, err := s.repo.GetIngredientsOwnedByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	if len(owned) != len(ids) {
		return nil, ErrUnknownIngredient
	}

	ingredients := make([]model.Ingredient, len(owned))
	for i, ing := range owned {
		ingredients[i] = *ing
	}
	return ingredients, nil
}

// dedupe removes duplicate ids preserving first-seen order.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
