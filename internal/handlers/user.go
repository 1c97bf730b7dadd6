package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

type UserHandler struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserHandler(users UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

type UserData struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// --- GET /api/user/data ---

func (h *UserHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("Error finding user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		fail(w, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"userData": UserData{
			Name:              user.Name,
			Email:             user.Email,
			IsAccountVerified: user.IsAccountVerified,
		},
	})
}
