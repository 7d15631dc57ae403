package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/simmer/simmer/internal/model"
)

const (
	// authCachePrefix is the Redis key prefix for auth context cache.
	authCachePrefix = "auth:ctx:"
	// authUserIndexPrefix maps a user id to their current cache key so a
	// re-issued token can evict the prior entry.
	authUserIndexPrefix = "auth:user:"
	// authCacheTTL is the time-to-live for cached auth contexts.
	authCacheTTL = 5 * time.Minute
)

// CachedAuthContext represents auth context stored in Redis.
type CachedAuthContext struct {
	UserID      string `json:"user_id"`
	TokenID     string `json:"token_id"`
	TokenPrefix string `json:"token_prefix"`
}

// GetAuthContext retrieves a cached auth context by cache key.
// Returns nil if not found (cache miss).
func (c *Cache) GetAuthContext(ctx context.Context, cacheKey string) (*model.AuthContext, error) {
	key := authCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedAuthContext
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.AuthContext{
		UserID:      cached.UserID,
		TokenID:     cached.TokenID,
		TokenPrefix: cached.TokenPrefix,
	}, nil
}

// SetAuthContext caches an auth context and records the user index entry.
func (c *Cache) SetAuthContext(ctx context.Context, cacheKey string, auth *model.AuthContext) error {
	key := authCachePrefix + cacheKey

	cached := CachedAuthContext{
		UserID:      auth.UserID,
		TokenID:     auth.TokenID,
		TokenPrefix: auth.TokenPrefix,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}

	if err := c.client.Set(ctx, key, data, authCacheTTL).Err(); err != nil {
		return err
	}

	return c.client.Set(ctx, authUserIndexPrefix+auth.UserID, cacheKey, authCacheTTL).Err()
}

// InvalidateUserAuth evicts the cached auth context for a user.
// Called on token re-issue so the replaced token stops resolving at once
// rather than lingering until TTL.
func (c *Cache) InvalidateUserAuth(ctx context.Context, userID string) error {
	indexKey := authUserIndexPrefix + userID

	cacheKey, err := c.client.Get(ctx, indexKey).Result()
	if err != nil {
		// No index entry - nothing cached for this user
		return nil //nolint:nilerr
	}

	return c.client.Del(ctx, authCachePrefix+cacheKey, indexKey).Err()
}
