package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/simmer/simmer/internal/model"
)

// Common errors for token repository operations.
var (
	ErrTokenNotFound = errors.New("token not found")
)

// UpsertToken stores the single live token for a user.
// The unique constraint on user_id makes concurrent logins converge
// on one authoritative row; a re-issue replaces the prior key.
func (r *Repository) UpsertToken(ctx context.Context, token *model.Token) error {
	query := `
		INSERT INTO tokens (id, user_id, key_hash, key_prefix, issued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET id = EXCLUDED.id,
		    key_hash = EXCLUDED.key_hash,
		    key_prefix = EXCLUDED.key_prefix,
		    issued_at = EXCLUDED.issued_at
	`

	_, err := r.pool.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.KeyHash,
		token.KeyPrefix,
		token.IssuedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}

	return nil
}

// GetTokensByPrefix retrieves all tokens matching a key prefix.
// Used during authentication to find candidate tokens for verification.
func (r *Repository) GetTokensByPrefix(ctx context.Context, prefix string) ([]*model.Token, error) {
	query := `
		SELECT id, user_id, key_hash, key_prefix, issued_at
		FROM tokens
		WHERE key_prefix = $1
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens by prefix: %w", err)
	}
	defer rows.Close()

	var tokens []*model.Token
	for rows.Next() {
		var token model.Token
		if err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.KeyHash,
			&token.KeyPrefix,
			&token.IssuedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tokens: %w", err)
	}

	return tokens, nil
}

// GetTokenByUserID retrieves the live token row for a user.
func (r *Repository) GetTokenByUserID(ctx context.Context, userID string) (*model.Token, error) {
	query := `
		SELECT id, user_id, key_hash, key_prefix, issued_at
		FROM tokens
		WHERE user_id = $1
	`

	var token model.Token
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.KeyHash,
		&token.KeyPrefix,
		&token.IssuedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token by user ID: %w", err)
	}

	return &token, nil
}
