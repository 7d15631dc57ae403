package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/simmer/simmer/internal/model"
)

// Common errors for recipe repository operations.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrCrossOwnerLink is returned when a recipe references a tag or
	// ingredient owned by a different user.
	ErrCrossOwnerLink = errors.New("linked record owned by another user")
)

// RecipeFilter defines owner scope and optional any-match id filters
// for listing recipes.
type RecipeFilter struct {
	OwnerID       string
	TagIDs        []string
	IngredientIDs []string
}

// CreateRecipe inserts a recipe and its tag/ingredient links in one
// transaction so the multi-row effect is all-or-nothing. Link inserts
// are guarded against cross-owner references at the statement level.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	query := `
		INSERT INTO recipes (id, owner_id, title, time_in_minutes, price, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, query,
		recipe.ID,
		recipe.OwnerID,
		recipe.Title,
		recipe.TimeInMinutes,
		recipe.Price.String(),
		recipe.ImagePath,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := linkRecipeTags(ctx, tx, recipe.OwnerID, recipe.ID, recipe.TagIDs()); err != nil {
		return err
	}
	if err := linkRecipeIngredients(ctx, tx, recipe.OwnerID, recipe.ID, recipe.IngredientIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	return nil
}

// GetRecipeByID retrieves a recipe with nested tags and ingredients.
// The owner id is part of the lookup, so a foreign-owned id behaves
// exactly like a missing one.
func (r *Repository) GetRecipeByID(ctx context.Context, ownerID, id string) (*model.Recipe, error) {
	query := `
		SELECT id, owner_id, title, time_in_minutes, price::text, image_path, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND owner_id = $2
	`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	if recipe.Tags, err = r.loadRecipeTags(ctx, id); err != nil {
		return nil, err
	}
	if recipe.Ingredients, err = r.loadRecipeIngredients(ctx, id); err != nil {
		return nil, err
	}

	return recipe, nil
}

// ListRecipes retrieves owner-scoped recipe summaries ordered by id
// descending (newest first; ULIDs sort by creation time). Nested tag
// and ingredient detail is not loaded for summaries.
func (r *Repository) ListRecipes(ctx context.Context, filter RecipeFilter) ([]*model.Recipe, error) {
	query := `
		SELECT id, owner_id, title, time_in_minutes, price::text, image_path, created_at, updated_at
		FROM recipes
		WHERE owner_id = $1
	`
	args := []any{filter.OwnerID}
	argIndex := 2

	if len(filter.TagIDs) > 0 {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM recipe_tags rt
			WHERE rt.recipe_id = recipes.id AND rt.tag_id = ANY($%d))`, argIndex)
		args = append(args, pq.Array(filter.TagIDs))
		argIndex++
	}

	if len(filter.IngredientIDs) > 0 {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM recipe_ingredients ri
			WHERE ri.recipe_id = recipes.id AND ri.ingredient_id = ANY($%d))`, argIndex)
		args = append(args, pq.Array(filter.IngredientIDs))
		argIndex++
	}

	query += " ORDER BY id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// UpdateRecipe replaces a recipe's scalar fields and its tag/ingredient
// links in one transaction. The recipe must carry the final desired link
// sets; partial-merge semantics are handled by the service layer.
// Owner is part of the WHERE clause and never updated.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	query := `
		UPDATE recipes
		SET title = $3, time_in_minutes = $4, price = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`

	result, err := tx.Exec(ctx, query,
		recipe.ID,
		recipe.OwnerID,
		recipe.Title,
		recipe.TimeInMinutes,
		recipe.Price.String(),
		recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}

	if err := linkRecipeTags(ctx, tx, recipe.OwnerID, recipe.ID, recipe.TagIDs()); err != nil {
		return err
	}
	if err := linkRecipeIngredients(ctx, tx, recipe.OwnerID, recipe.ID, recipe.IngredientIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe update: %w", err)
	}

	return nil
}

// DeleteRecipe removes a recipe and its join rows. The linked Tag and
// Ingredient records themselves are untouched.
func (r *Repository) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete recipe tags: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete recipe ingredients: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe delete: %w", err)
	}

	return nil
}

// SetRecipeImage updates the recipe's image reference.
func (r *Repository) SetRecipeImage(ctx context.Context, ownerID, id, imagePath string) error {
	query := `
		UPDATE recipes
		SET image_path = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID, imagePath)
	if err != nil {
		return fmt.Errorf("failed to set recipe image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// linkRecipeTags inserts join rows for the given tag ids. The INSERT
// only selects tags owned by ownerID; a row count short of len(tagIDs)
// means a foreign or missing id and aborts the transaction.
func linkRecipeTags(ctx context.Context, tx pgx.Tx, ownerID, recipeID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipe_tags (recipe_id, tag_id)
		SELECT $1, t.id
		FROM tags t
		WHERE t.id = ANY($2) AND t.owner_id = $3
	`

	result, err := tx.Exec(ctx, query, recipeID, pq.Array(tagIDs), ownerID)
	if err != nil {
		return fmt.Errorf("failed to link recipe tags: %w", err)
	}

	if result.RowsAffected() != int64(len(tagIDs)) {
		return ErrCrossOwnerLink
	}

	return nil
}

// linkRecipeIngredients mirrors linkRecipeTags for ingredient links.
func linkRecipeIngredients(ctx context.Context, tx pgx.Tx, ownerID, recipeID string, ingredientIDs []string) error {
	if len(ingredientIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
		SELECT $1, i.id
		FROM ingredients i
		WHERE i.id = ANY($2) AND i.owner_id = $3
	`

	result, err := tx.Exec(ctx, query, recipeID, pq.Array(ingredientIDs), ownerID)
	if err != nil {
		return fmt.Errorf("failed to link recipe ingredients: %w", err)
	}

	if result.RowsAffected() != int64(len(ingredientIDs)) {
		return ErrCrossOwnerLink
	}

	return nil
}

// loadRecipeTags fetches the tags linked to a recipe, name descending.
func (r *Repository) loadRecipeTags(ctx context.Context, recipeID string) ([]model.Tag, error) {
	query := `
		SELECT t.id, t.owner_id, t.name, t.created_at
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		WHERE rt.recipe_id = $1
		ORDER BY t.name DESC, t.id ASC
	`

	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// loadRecipeIngredients fetches the ingredients linked to a recipe.
func (r *Repository) loadRecipeIngredients(ctx context.Context, recipeID string) ([]model.Ingredient, error) {
	query := `
		SELECT i.id, i.owner_id, i.name, i.created_at
		FROM ingredients i
		JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = $1
		ORDER BY i.name DESC, i.id ASC
	`

	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.OwnerID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, rows.Err()
}

// scanRecipe scans a recipe row. Price travels as text to avoid float
// precision loss between NUMERIC and the decimal type.
func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var (
		recipe   model.Recipe
		priceStr string
	)

	err := row.Scan(
		&recipe.ID,
		&recipe.OwnerID,
		&recipe.Title,
		&recipe.TimeInMinutes,
		&priceStr,
		&recipe.ImagePath,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", priceStr, err)
	}
	recipe.Price = price

	return &recipe, nil
}
