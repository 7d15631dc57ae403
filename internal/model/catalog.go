// Package model defines domain entities for the application.
package model

import "time"

// Tag is an owner-scoped label attachable to recipes.
// The owner is fixed at creation and never changes.
type Tag struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// Ingredient is an owner-scoped component attachable to recipes.
// The owner is fixed at creation and never changes.
type Ingredient struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}
