// Package main is the entrypoint for the Simmer API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/simmer/simmer/internal/cache"
	"github.com/simmer/simmer/internal/config"
	"github.com/simmer/simmer/internal/handler"
	"github.com/simmer/simmer/internal/media"
	"github.com/simmer/simmer/internal/middleware"
	"github.com/simmer/simmer/internal/repository"
	"github.com/simmer/simmer/internal/server"
	"github.com/simmer/simmer/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		logger.Error("failed to initialize media store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Services
	userService := service.NewUserService(repo, cacheClient, cfg.PasswordMinLength)
	tagService := service.NewTagService(repo)
	ingredientService := service.NewIngredientService(repo)
	recipeService := service.NewRecipeService(repo, mediaStore)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	userHandler := handler.NewUserHandler(userService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	ingredientHandler := handler.NewIngredientHandler(ingredientService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger, cfg.MaxUploadSize)

	r := setupRouter(h, healthHandler, userHandler, tagHandler, ingredientHandler, recipeHandler, mediaStore, repo, cacheClient, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	userHandler *handler.UserHandler,
	tagHandler *handler.TagHandler,
	ingredientHandler *handler.IngredientHandler,
	recipeHandler *handler.RecipeHandler,
	mediaStore *media.Store,
	repo *repository.Repository,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	authCfg := middleware.AuthConfig{
		Logger:     logger,
		Repository: repo,
		Cache:      cacheClient,
	}

	loginRateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.LoginRateLimitEnabled,
		PerMin:  cfg.LoginRateLimitPerMin,
	}

	// JSON bodies are small; image uploads get their own cap.
	jsonBodyLimit := middleware.BodyLimit(cfg.MaxRequestBodySize)
	uploadBodyLimit := middleware.BodyLimit(cfg.MaxUploadSize)

	r.Route("/api/v1", func(r chi.Router) {
		// Public account endpoints
		r.With(jsonBodyLimit).Post("/users", userHandler.Register)
		r.With(jsonBodyLimit, middleware.LoginRateLimit(loginRateLimitCfg)).Post("/users/token", userHandler.Token)

		// Everything below requires a resolved bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.With(uploadBodyLimit).Post("/recipes/{id}/image", recipeHandler.UploadImage)

			r.Group(func(r chi.Router) {
				r.Use(jsonBodyLimit)

				r.Route("/users/me", func(r chi.Router) {
					r.Get("/", userHandler.Me)
					r.Patch("/", userHandler.UpdateMe)
					r.Put("/", userHandler.UpdateMe)
				})

				r.Route("/tags", func(r chi.Router) {
					r.Get("/", tagHandler.List)
					r.Post("/", tagHandler.Create)
				})

				r.Route("/ingredients", func(r chi.Router) {
					r.Get("/", ingredientHandler.List)
					r.Post("/", ingredientHandler.Create)
				})

				r.Route("/recipes", func(r chi.Router) {
					r.Get("/", recipeHandler.List)
					r.Post("/", recipeHandler.Create)
					r.Get("/{id}", recipeHandler.Get)
					r.Put("/{id}", recipeHandler.Replace)
					r.Patch("/{id}", recipeHandler.Update)
					r.Delete("/{id}", recipeHandler.Delete)
				})
			})
		})
	})

	// Stored recipe images
	fileServer := http.StripPrefix(handler.MediaBasePath+"/", http.FileServer(http.Dir(mediaStore.Dir())))
	r.Get(handler.MediaBasePath+"/*", fileServer.ServeHTTP)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
