//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	tables := []string{
		"users",
		"tokens",
		"tags",
		"ingredients",
		"recipes",
		"recipe_tags",
		"recipe_ingredients",
	}

	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, repo.Pool(), table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_RecipesConstraints(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := createTestUser(t, ctx, repo, "constraint")

	// Negative time is rejected at the schema level too.
	_, err := repo.Pool().Exec(ctx, `
		INSERT INTO recipes (id, owner_id, title, time_in_minutes, price)
		VALUES ('test-id', $1, 'Bad Recipe', -1, 5.00)
	`, owner.ID)
	if err == nil {
		t.Error("Expected check constraint violation for negative time_in_minutes")
	}

	// Negative price is rejected.
	_, err = repo.Pool().Exec(ctx, `
		INSERT INTO recipes (id, owner_id, title, time_in_minutes, price)
		VALUES ('test-id', $1, 'Bad Recipe', 5, -1.00)
	`, owner.ID)
	if err == nil {
		t.Error("Expected check constraint violation for negative price")
	}

	// Empty title is rejected.
	_, err = repo.Pool().Exec(ctx, `
		INSERT INTO recipes (id, owner_id, title, time_in_minutes, price)
		VALUES ('test-id', $1, '', 5, 5.00)
	`, owner.ID)
	if err == nil {
		t.Error("Expected check constraint violation for empty title")
	}
}

func TestIntegrationMigration_TokensUniquePerUser(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := createTestUser(t, ctx, repo, "unique")

	_, err := repo.Pool().Exec(ctx, `
		INSERT INTO tokens (id, user_id, key_hash, key_prefix)
		VALUES ('tok-1', $1, 'hash-1', 'abc123')
	`, owner.ID)
	if err != nil {
		t.Fatalf("insert first token: %v", err)
	}

	_, err = repo.Pool().Exec(ctx, `
		INSERT INTO tokens (id, user_id, key_hash, key_prefix)
		VALUES ('tok-2', $1, 'hash-2', 'def456')
	`, owner.ID)
	if err == nil {
		t.Error("Expected unique constraint violation for a second token per user")
	}
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, table).Scan(&exists)
	return exists, err
}
