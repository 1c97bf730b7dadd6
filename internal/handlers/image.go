package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"remember2pack-backend/internal/storage"

	"go.uber.org/zap"
)

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 10 << 20

// multipart framing on top of the file itself
const uploadOverhead = 1 << 20

type ImageHandler struct {
	images  Images
	labeler Labeler
	logger  *zap.Logger
}

// NewImageHandler wires the upload endpoints. images may be nil when S3 is
// not configured; labeler may be nil, in which case uploads report no labels.
func NewImageHandler(images Images, labeler Labeler, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		images:  images,
		labeler: labeler,
		logger:  logger,
	}
}

type ImageKeyRequest struct {
	Key string `json:"key" validate:"required"`
}

// --- POST /api/image/upload-image ---

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if !h.enabled(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+uploadOverhead)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image must be 10 MB or smaller")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "Image must be 10 MB or smaller")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Only image uploads are allowed")
		return
	}

	key, err := h.images.UploadTemp(r.Context(), userID.Hex(), header.Filename, contentType, file, header.Size)
	if err != nil {
		h.logger.Error("S3 upload failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	labels := []string{}
	if h.labeler != nil {
		detected, err := h.labeler.Labels(r.Context(), key)
		if err != nil {
			h.logger.Warn("label detection failed", zap.String("key", key), zap.Error(err))
		} else if detected != nil {
			labels = detected
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Image uploaded successfully",
		"key":      key,
		"fileName": path.Base(key),
		"labels":   labels,
	})
}

// --- POST /api/image/confirm ---

func (h *ImageHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if !h.enabled(w) {
		return
	}

	key, ok := h.decodeKey(w, r)
	if !ok {
		return
	}

	permanent, err := h.images.Confirm(r.Context(), userID.Hex(), key)
	if err != nil {
		h.keyError(w, "Failed to confirm image", key, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "key": permanent})
}

// --- POST /api/image/cancel ---

func (h *ImageHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if !h.enabled(w) {
		return
	}

	key, ok := h.decodeKey(w, r)
	if !ok {
		return
	}

	if err := h.images.Cancel(r.Context(), userID.Hex(), key); err != nil {
		h.keyError(w, "Failed to cancel upload", key, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Upload cancelled"})
}

func (h *ImageHandler) enabled(w http.ResponseWriter) bool {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return false
	}
	return true
}

func (h *ImageHandler) decodeKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ImageKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	req.Key = strings.TrimSpace(req.Key)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "No image Key provided")
		return "", false
	}
	return req.Key, true
}

func (h *ImageHandler) keyError(w http.ResponseWriter, message, key string, err error) {
	if errors.Is(err, storage.ErrForeignKey) || errors.Is(err, storage.ErrInvalidKey) {
		writeError(w, http.StatusForbidden, "Access denied to this image")
		return
	}
	h.logger.Error(message, zap.String("key", key), zap.Error(err))
	writeError(w, http.StatusInternalServerError, message)
}
