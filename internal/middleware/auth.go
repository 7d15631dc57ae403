package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/simmer/simmer/internal/auth"
	"github.com/simmer/simmer/internal/cache"
	"github.com/simmer/simmer/internal/model"
	"github.com/simmer/simmer/internal/repository"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Auth returns a middleware that resolves the bearer token on every
// protected route. It verifies the token against the stored hash,
// builds the auth context, and injects it into the request. A missing
// or unknown token yields 401; no catalog handler runs without a
// resolved owner identity.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			parsed, err := auth.ParseToken(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_format"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.TokenDigest(token)
			authCtx, _ := cfg.Cache.GetAuthContext(r.Context(), cacheKey)

			if authCtx == nil {
				authCtx = resolveToken(r, cfg, token, parsed.Prefix)
				if authCtx == nil {
					writeAuthError(w)
					return
				}
				_ = cfg.Cache.SetAuthContext(r.Context(), cacheKey, authCtx)
			}

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveToken looks up candidate tokens by prefix and verifies the
// presented token against each stored hash.
func resolveToken(r *http.Request, cfg AuthConfig, token, prefix string) *model.AuthContext {
	tokens, err := cfg.Repository.GetTokensByPrefix(r.Context(), prefix)
	if err != nil {
		cfg.Logger.Error("database error during auth",
			slog.String("error", err.Error()),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		return nil
	}

	// Verify against each candidate (handles prefix collisions)
	var matched *model.Token
	for _, t := range tokens {
		ok, err := auth.VerifySecret(token, t.KeyHash)
		if err != nil {
			continue
		}
		if ok {
			matched = t
			break
		}
	}

	if matched == nil {
		cfg.Logger.Warn("authentication failed",
			slog.String("reason", "invalid_token"),
			slog.String("endpoint", r.Method+" "+r.URL.Path),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		return nil
	}

	return &model.AuthContext{
		UserID:      matched.UserID,
		TokenID:     matched.ID,
		TokenPrefix: matched.KeyPrefix,
	}
}

// extractBearerToken extracts the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid or missing token","code":"UNAUTHENTICATED"}`))
}
