package handlers

import (
	"errors"
	"net/http"

	"remember2pack-backend/internal/ai"

	"go.uber.org/zap"
)

// AIHandler serves the recommendation and refinement chat endpoints.
type AIHandler struct {
	advisor Advisor
	logger  *zap.Logger
}

func NewAIHandler(advisor Advisor, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		advisor: advisor,
		logger:  logger,
	}
}

type RecommendRequest struct {
	PackedItems []string `json:"packedItems" validate:"required"`
	TripSummary string   `json:"tripSummary" validate:"required"`
}

type QuestionRequest struct {
	PackedItems    []string   `json:"packedItems" validate:"required"`
	TripSummary    string     `json:"tripSummary" validate:"required"`
	UserMessage    string     `json:"userMessage"`
	ChatbotHistory ai.History `json:"chatbotHistory"`
}

type RefineRequest struct {
	PackedItems       []string   `json:"packedItems" validate:"required"`
	TripSummary       string     `json:"tripSummary" validate:"required"`
	ChatbotHistory    ai.History `json:"chatbotHistory"`
	AIRecommendations string     `json:"aiRecommendations"`
}

// --- POST /api/recommend ---

func (h *AIHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeAIRequest(w, r, &req) {
		return
	}

	text, err := h.advisor.Recommend(r.Context(), ai.RecommendInput{
		PackedItems: req.PackedItems,
		TripSummary: req.TripSummary,
	})
	if err != nil {
		h.aiError(w, "Failed to generate recommendations", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recommendations": text})
}

// --- POST /api/chatbot/generate-question ---

func (h *AIHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decodeAIRequest(w, r, &req) {
		return
	}

	q, err := h.advisor.NextQuestion(r.Context(), ai.QuestionInput{
		PackedItems: req.PackedItems,
		TripSummary: req.TripSummary,
		UserMessage: req.UserMessage,
		History:     req.ChatbotHistory,
	})
	if err != nil {
		h.aiError(w, "Failed to generate question", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "question": q})
}

// --- POST /api/chatbot/refined-recommendation ---

func (h *AIHandler) RefinedRecommendation(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if !decodeAIRequest(w, r, &req) {
		return
	}

	text, err := h.advisor.Refine(r.Context(), ai.RefineInput{
		PackedItems:       req.PackedItems,
		TripSummary:       req.TripSummary,
		AIRecommendations: req.AIRecommendations,
		History:           req.ChatbotHistory,
	})
	if err != nil {
		h.aiError(w, "Failed to refine recommendations", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "refinedRecommendations": text})
}

func decodeAIRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return false
	}
	return true
}

func (h *AIHandler) aiError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, ai.ErrMissingContext) {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	h.logger.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message)
}
