// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the central catalog entity. Tags and Ingredients linked to a
// recipe always share its owner; cross-owner links are rejected upstream.
type Recipe struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"-"`
	Title         string          `json:"title"`
	TimeInMinutes int             `json:"time_in_minutes"`
	Price         decimal.Decimal `json:"price"`
	Tags          []Tag           `json:"tags,omitempty"`
	Ingredients   []Ingredient    `json:"ingredients,omitempty"`
	ImagePath     *string         `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TagIDs returns the ids of the recipe's linked tags.
func (r *Recipe) TagIDs() []string {
	ids := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// IngredientIDs returns the ids of the recipe's linked ingredients.
func (r *Recipe) IngredientIDs() []string {
	ids := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ids[i] = ing.ID
	}
	return ids
}

// HasImage reports whether an image has been uploaded for the recipe.
func (r *Recipe) HasImage() bool {
	return r.ImagePath != nil && *r.ImagePath != ""
}
