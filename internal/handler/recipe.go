package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/simmer/simmer/internal/auth"
	"github.com/simmer/simmer/internal/handler/dto"
	"github.com/simmer/simmer/internal/service"
)

// MediaBasePath is the URL prefix under which stored images are served.
const MediaBasePath = "/media"

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	svc           *service.RecipeService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger, maxUploadSize int64) *RecipeHandler {
	return &RecipeHandler{
		svc:           svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// List handles GET /api/v1/recipes.
// Optional tags= and ingredients= query params carry comma-separated id
// sets with any-match semantics.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID

	query := r.URL.Query()
	tagIDs := splitIDs(query.Get("tags"))
	ingredientIDs := splitIDs(query.Get("ingredients"))

	recipes, err := h.svc.List(r.Context(), ownerID, tagIDs, ingredientIDs)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes, MediaBasePath))
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID
	id := chi.URLParam(r, "id")

	recipe, err := h.svc.Get(r.Context(), ownerID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeDetailResponse(recipe, MediaBasePath))
}

// Create handles POST /api/v1/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID

	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.TimeInMinutes == nil {
		writeFieldError(w, "time_in_minutes", "This field is required")
		return
	}
	if req.Price == nil {
		writeFieldError(w, "price", "This field is required")
		return
	}

	recipe, err := h.svc.Create(r.Context(), ownerID, service.CreateRecipeInput{
		Title:         req.Title,
		TimeInMinutes: *req.TimeInMinutes,
		Price:         *req.Price,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_created", "recipe_id", recipe.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusCreated, dto.ToRecipeDetailResponse(recipe, MediaBasePath))
}

// Replace handles PUT /api/v1/recipes/{id} (full replace).
// Omitted tag/ingredient collections reset to empty.
func (h *RecipeHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Update handles PATCH /api/v1/recipes/{id} (partial update).
// Only supplied fields change.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *RecipeHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID
	id := chi.URLParam(r, "id")

	var req dto.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	recipe, err := h.svc.Update(r.Context(), ownerID, id, service.UpdateRecipeInput{
		Title:         req.Title,
		TimeInMinutes: req.TimeInMinutes,
		Price:         req.Price,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}, partial)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_updated", "recipe_id", recipe.ID, "partial", partial)

	writeJSON(w, http.StatusOK, dto.ToRecipeDetailResponse(recipe, MediaBasePath))
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), ownerID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_deleted", "recipe_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/recipes/{id}/image.
// Accepts either a multipart form with an "image" field or a raw body.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID
	id := chi.URLParam(r, "id")

	data, err := h.readImagePayload(r)
	if err != nil {
		writeFieldError(w, "image", "A decodable image payload is required")
		return
	}

	recipe, err := h.svc.UploadImage(r.Context(), ownerID, id, data)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_image_uploaded", "recipe_id", recipe.ID)

	writeJSON(w, http.StatusOK, dto.ToRecipeDetailResponse(recipe, MediaBasePath))
}

// readImagePayload extracts the image bytes from the request.
func (h *RecipeHandler) readImagePayload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadSize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}

// handleServiceError maps recipe service errors to HTTP responses.
func (h *RecipeHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, service.ErrEmptyTitle):
		writeFieldError(w, "title", "Title must not be empty")
	case errors.Is(err, service.ErrNameTooLong):
		writeFieldError(w, "title", "Title exceeds maximum length")
	case errors.Is(err, service.ErrNegativeTime):
		writeFieldError(w, "time_in_minutes", "Must not be negative")
	case errors.Is(err, service.ErrNegativePrice):
		writeFieldError(w, "price", "Must not be negative")
	case errors.Is(err, service.ErrUnknownTag):
		writeFieldError(w, "tags", "All tags must exist and belong to the caller")
	case errors.Is(err, service.ErrUnknownIngredient):
		writeFieldError(w, "ingredients", "All ingredients must exist and belong to the caller")
	case errors.Is(err, service.ErrMissingRequiredField):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title, time_in_minutes and price are required")
	case errors.Is(err, service.ErrNotAnImage):
		writeFieldError(w, "image", "Payload is not a decodable image")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// splitIDs parses a comma-separated id list, dropping empty entries.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
