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

// TagHandler handles HTTP requests for tag operations.
type TagHandler struct {
	svc    *service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID

	tags, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTagListResponse(tags))
}

// Create handles POST /api/v1/tags.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustAuthFromContext(r.Context()).UserID

	var req dto.CreateNamedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	tag, err := h.svc.Create(r.Context(), ownerID, req.Name)
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

	h.logger.Info("tag_created", "tag_id", tag.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusCreated, dto.ToTagResponse(tag))
}
