package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/simmer/simmer/internal/model"
)

// Common errors for ingredient repository operations.
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// CreateIngredient inserts a new ingredient owned by the given user.
func (r *Repository) CreateIngredient(ctx context.Context, ing *model.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, owner_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		ing.ID,
		ing.OwnerID,
		ing.Name,
		ing.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

// ListIngredientsByOwner retrieves the caller's ingredients ordered by name
// descending, insertion order for equal names.
func (r *Repository) ListIngredientsByOwner(ctx context.Context, ownerID string) ([]*model.Ingredient, error) {
	query := `
		SELECT id, owner_id, name, created_at
		FROM ingredients
		WHERE owner_id = $1
		ORDER BY name DESC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.OwnerID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, &ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// GetIngredientsOwnedByIDs retrieves the subset of the given ingredient ids
// that are owned by ownerID. Callers compare lengths to detect foreign ids.
func (r *Repository) GetIngredientsOwnedByIDs(ctx context.Context, ownerID string, ids []string) ([]*model.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, owner_id, name, created_at
		FROM ingredients
		WHERE owner_id = $1 AND id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, ownerID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredients by ids: %w", err)
	}
	defer rows.Close()

	var ingredients []*model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.OwnerID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, &ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}
