package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"remember2pack-backend/internal/models"
	"remember2pack-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type RecommendationHandler struct {
	recs   RecommendationStore
	images Images
	logger *zap.Logger
}

// NewRecommendationHandler builds the saved-list endpoints. images may be nil
// when S3 is not configured; image links then answer 503.
func NewRecommendationHandler(recs RecommendationStore, images Images, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recs:   recs,
		images: images,
		logger: logger,
	}
}

type SaveRecommendationRequest struct {
	Title             string   `json:"title"`
	PackedItems       []string `json:"packedItems" validate:"required"`
	TripSummary       string   `json:"tripSummary" validate:"required"`
	AIRecommendations string   `json:"aiRecommendations" validate:"required"`
	ImageKey          string   `json:"imageKey"`
}

// --- POST /api/recommendations/save ---

func (h *RecommendationHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req SaveRecommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "packedItems, tripSummary and aiRecommendations are required")
		return
	}

	req.ImageKey = strings.TrimSpace(req.ImageKey)
	if req.ImageKey != "" && !storage.OwnedBy(req.ImageKey, userID.Hex()) {
		writeError(w, http.StatusForbidden, "Access denied to this image")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultTitle
	}

	rec := &models.Recommendation{
		UserID:            userID,
		Title:             title,
		PackedItems:       req.PackedItems,
		TripSummary:       req.TripSummary,
		AIRecommendations: req.AIRecommendations,
		ImageKey:          req.ImageKey,
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.recs.Create(r.Context(), rec); err != nil {
		h.logger.Error("Error saving recommendation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save recommendation")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"message":        "Recommendation saved successfully",
		"recommendation": rec,
	})
}

// --- GET /api/recommendations ---

func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	recs, err := h.recs.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Error listing recommendations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch recommendations")
		return
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recommendations": recs})
}

// --- GET /api/recommendations/{id} ---

func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	rec, err := h.recs.FindForUser(r.Context(), id, userID)
	if err != nil {
		h.logger.Error("Error fetching recommendation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch recommendation")
		return
	}
	if rec == nil {
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recommendation": rec})
}

// --- DELETE /api/recommendations/{id} ---

func (h *RecommendationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	rec, err := h.recs.DeleteForUser(r.Context(), id, userID)
	if err != nil {
		h.logger.Error("Error deleting recommendation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete recommendation")
		return
	}
	if rec == nil {
		notFound(w)
		return
	}

	if rec.ImageKey != "" && h.images != nil {
		if err := h.images.Delete(r.Context(), rec.ImageKey); err != nil {
			h.logger.Warn("image left behind after delete",
				zap.String("recommendation_id", rec.ID.Hex()),
				zap.String("key", rec.ImageKey),
				zap.Error(err),
			)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Recommendation deleted successfully"})
}

// --- GET /api/recommendations/image/{key...} ---

func (h *RecommendationHandler) ImageURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	key := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	if key == "" {
		writeError(w, http.StatusBadRequest, "No image Key provided")
		return
	}
	if !storage.OwnedBy(key, userID.Hex()) {
		writeError(w, http.StatusForbidden, "Access denied to this image")
		return
	}
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	signed, err := h.images.SignedURL(r.Context(), key)
	if err != nil {
		h.logger.Error("Error signing image url", zap.String("key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to provide image url")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "imageUrl": signed})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Recommendation not found")
}
