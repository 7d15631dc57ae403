// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simmer/simmer/internal/model"
)

// RegisterUserRequest represents the request body for creating an account.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// UserResponse represents a newly created account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenRequest represents the request body for issuing a token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the issued bearer token. On failure the
// response body never contains a token key.
type TokenResponse struct {
	Token string `json:"token"`
}

// MeResponse represents the caller's own profile.
type MeResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateMeRequest represents a profile edit. Nil fields are unchanged.
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// CreateNamedRequest is the request body for creating a tag or ingredient.
type CreateNamedRequest struct {
	Name string `json:"name"`
}

// NamedResponse represents a tag or ingredient in API responses.
type NamedResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Numeric fields are pointers so missing values are distinguishable
// from zero values.
type CreateRecipeRequest struct {
	Title         string           `json:"title"`
	TimeInMinutes *int             `json:"time_in_minutes"`
	Price         *decimal.Decimal `json:"price"`
	Tags          []string         `json:"tags,omitempty"`
	Ingredients   []string         `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest represents the request body for PUT and PATCH.
// For PATCH, nil fields are left unchanged; for PUT, omitted collections
// reset to empty and scalar fields are required.
type UpdateRecipeRequest struct {
	Title         *string          `json:"title,omitempty"`
	TimeInMinutes *int             `json:"time_in_minutes,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Tags          *[]string        `json:"tags,omitempty"`
	Ingredients   *[]string        `json:"ingredients,omitempty"`
}

// RecipeSummaryResponse represents a recipe in list responses.
// Nested tag/ingredient detail is omitted.
type RecipeSummaryResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TimeInMinutes int       `json:"time_in_minutes"`
	Price         string    `json:"price"`
	ImageURL      *string   `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RecipeDetailResponse represents a recipe in retrieve responses,
// including nested tags and ingredients.
type RecipeDetailResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	TimeInMinutes int             `json:"time_in_minutes"`
	Price         string          `json:"price"`
	Tags          []NamedResponse `json:"tags"`
	Ingredients   []NamedResponse `json:"ingredients"`
	ImageURL      *string         `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ErrorResponse represents an API error. Fields carries field-level
// validation detail when applicable.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ToUserResponse converts a User model to UserResponse.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToMeResponse converts a User model to MeResponse.
func ToMeResponse(user *model.User) *MeResponse {
	return &MeResponse{
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToTagResponse converts a Tag model to NamedResponse.
func ToTagResponse(tag *model.Tag) NamedResponse {
	return NamedResponse{ID: tag.ID, Name: tag.Name}
}

// ToTagListResponse converts a slice of Tag models to responses.
// Always returns a non-nil slice so empty lists serialize as [].
func ToTagListResponse(tags []*model.Tag) []NamedResponse {
	out := make([]NamedResponse, len(tags))
	for i, t := range tags {
		out[i] = ToTagResponse(t)
	}
	return out
}

// ToIngredientResponse converts an Ingredient model to NamedResponse.
func ToIngredientResponse(ing *model.Ingredient) NamedResponse {
	return NamedResponse{ID: ing.ID, Name: ing.Name}
}

// ToIngredientListResponse converts a slice of Ingredient models to responses.
func ToIngredientListResponse(ingredients []*model.Ingredient) []NamedResponse {
	out := make([]NamedResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = ToIngredientResponse(ing)
	}
	return out
}

// ToRecipeSummaryResponse converts a Recipe model to its summary form.
func ToRecipeSummaryResponse(recipe *model.Recipe, mediaBasePath string) RecipeSummaryResponse {
	return RecipeSummaryResponse{
		ID:            recipe.ID,
		Title:         recipe.Title,
		TimeInMinutes: recipe.TimeInMinutes,
		Price:         recipe.Price.StringFixed(2),
		ImageURL:      imageURL(recipe, mediaBasePath),
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
}

// ToRecipeListResponse converts recipe models to summary responses.
func ToRecipeListResponse(recipes []*model.Recipe, mediaBasePath string) []RecipeSummaryResponse {
	out := make([]RecipeSummaryResponse, len(recipes))
	for i, r := range recipes {
		out[i] = ToRecipeSummaryResponse(r, mediaBasePath)
	}
	return out
}

// ToRecipeDetailResponse converts a Recipe model to its detail form.
func ToRecipeDetailResponse(recipe *model.Recipe, mediaBasePath string) *RecipeDetailResponse {
	tags := make([]NamedResponse, len(recipe.Tags))
	for i, t := range recipe.Tags {
		tags[i] = NamedResponse{ID: t.ID, Name: t.Name}
	}

	ingredients := make([]NamedResponse, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ingredients[i] = NamedResponse{ID: ing.ID, Name: ing.Name}
	}

	return &RecipeDetailResponse{
		ID:            recipe.ID,
		Title:         recipe.Title,
		TimeInMinutes: recipe.TimeInMinutes,
		Price:         recipe.Price.StringFixed(2),
		Tags:          tags,
		Ingredients:   ingredients,
		ImageURL:      imageURL(recipe, mediaBasePath),
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
}

// imageURL builds the public URL for a recipe's stored image, or nil.
func imageURL(recipe *model.Recipe, mediaBasePath string) *string {
	if !recipe.HasImage() {
		return nil
	}
	url := mediaBasePath + "/" + *recipe.ImagePath
	return &url
}
