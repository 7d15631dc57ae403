package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/simmer/simmer/internal/cache"
)

// RateLimitConfig holds configuration for the login rate limit middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Cache   *cache.Cache
	Enabled bool
	PerMin  int
}

// LoginRateLimit returns middleware that rate limits the token endpoint
// per client IP. Credential stuffing is the concern; authenticated
// catalog traffic is not limited.
func LoginRateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			result, err := cfg.Cache.CheckLoginRateLimit(r.Context(), ip, cfg.PerMin)
			if err != nil || result.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			cfg.Logger.Warn("login rate limit exceeded",
				slog.String("request_id", GetRequestID(r.Context())),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many login attempts","code":"RATE_LIMITED"}`))
		})
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
