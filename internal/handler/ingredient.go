package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/simmer/simmer/internal/auth"
	"github.com/simmer/simmer/internal/handler/dto"
	"github.com/simmer/simmer/internal/service"
)

// IngredientHandler handles HTTP requests for ingredient operations.
type IngredientHandler struct {
	svc    *service.IngredientService
	logger *slog.Logger
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(svc *service.IngredientService, logger *slog.Logger) *IngredientHandler {
	return &IngredientHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/ingredients.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID

	ingredients, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToIngredientListResponse(ingredients))
}

// Create handles POST /api/v1/ingredients.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID

	var req dto.CreateNamedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ing, err := h.svc.Create(r.Context(), ownerID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyName):
			writeFieldError(w, "name", "Name must not be empty")
		case errors.Is(err, service.ErrNameTooLong):
			writeFieldError(w, "name", "Name exceeds maximum length")
		default:
			h.logger.Error("internal_error", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	h.logger.Info("ingredient_created", "ingredient_id", ing.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusCreated, dto.ToIngredientResponse(ing))
}
