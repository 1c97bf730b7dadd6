package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"remember2pack-backend/internal/middleware"
	"remember2pack-backend/internal/models"
	"remember2pack-backend/internal/repository"
	"remember2pack-backend/internal/security"

	"go.uber.org/zap"
)

const (
	VerifyOTPTTL = 24 * time.Hour
	ResetOTPTTL  = 15 * time.Minute
)

const weakPasswordMessage = "Password must be at least 8 characters with uppercase, lowercase, number, and special character"

// AuthConfig controls session tokens and the cookie that carries them.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	Production   bool
	CookieDomain string
}

type AuthHandler struct {
	users  UserStore
	mailer Mailer
	cfg    AuthConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(users UserStore, mailer Mailer, cfg AuthConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// --- Request types ---

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyAccountRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type ResetOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strongpassword"`
}

// --- POST /api/auth/register ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)

	if err := validate.Struct(req); err != nil {
		if failedTag(err) == "strongpassword" {
			fail(w, weakPasswordMessage)
			return
		}
		fail(w, "All fields are required")
		return
	}

	existing, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if existing != nil {
		fail(w, "User already exists")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.internal(w, "Error hashing password", err)
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Password: hash}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fail(w, "User already exists")
			return
		}
		h.internal(w, "Error creating user", err)
		return
	}

	if !h.setSession(w, user) {
		return
	}

	if err := h.mailer.SendWelcome(r.Context(), user.Email); err != nil {
		h.logger.Warn("welcome email not sent", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- POST /api/auth/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = models.NormalizeEmail(req.Email)

	if err := validate.Struct(req); err != nil {
		fail(w, "All fields are required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if user == nil || !security.CheckPassword(user.Password, req.Password) {
		fail(w, "Invalid Email or Password")
		return
	}

	if !h.setSession(w, user) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- POST /api/auth/logout ---

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c := h.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

// --- POST /api/auth/send-verify-otp ---

func (h *AuthHandler) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if user == nil {
		fail(w, "User not found")
		return
	}
	if user.IsAccountVerified {
		fail(w, "Account is Already Verified")
		return
	}

	code, ok := h.issueOTP(w, r, user, models.OTPVerify, VerifyOTPTTL)
	if !ok {
		return
	}
	if err := h.mailer.SendVerifyOTP(r.Context(), user.Email, code, VerifyOTPTTL); err != nil {
		h.internal(w, "Error sending verification email", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Verification OTP Sent to Email"})
}

// --- POST /api/auth/verify-account ---

func (h *AuthHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req VerifyAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, "Missing Details")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if user == nil {
		fail(w, "User not found")
		return
	}
	if msg := h.checkOTP(user, models.OTPVerify, req.OTP); msg != "" {
		fail(w, msg)
		return
	}

	if err := h.users.MarkVerified(r.Context(), user.ID); err != nil {
		h.internal(w, "Error verifying account", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Email verified successfully"})
}

// --- GET /api/auth/is-auth ---

func (h *AuthHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if user == nil {
		fail(w, "User not found")
		return
	}
	if !user.IsAccountVerified {
		fail(w, "Account not verified. Please verify your email to access the app.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User is authenticated and verified"})
}

// --- POST /api/auth/send-reset-otp ---

func (h *AuthHandler) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req ResetOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		fail(w, "Email is required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if user == nil {
		fail(w, "User not found")
		return
	}

	code, ok := h.issueOTP(w, r, user, models.OTPReset, ResetOTPTTL)
	if !ok {
		return
	}
	if err := h.mailer.SendResetOTP(r.Context(), user.Email, code, ResetOTPTTL); err != nil {
		h.internal(w, "Error sending reset email", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "OTP sent to email"})
}

// --- POST /api/auth/reset-password ---

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = models.NormalizeEmail(req.Email)

	if err := validate.Struct(req); err != nil {
		if failedTag(err) == "strongpassword" {
			fail(w, weakPasswordMessage)
			return
		}
		fail(w, "Please add all fields")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		h.internal(w, "Error finding user", err)
		return
	}
	if user == nil {
		fail(w, "User not found")
		return
	}
	if msg := h.checkOTP(user, models.OTPReset, req.OTP); msg != "" {
		fail(w, msg)
		return
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		h.internal(w, "Error hashing password", err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		h.internal(w, "Error updating password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password has been reset successfully."})
}

// --- Helpers ---

func (h *AuthHandler) issueOTP(w http.ResponseWriter, r *http.Request, user *models.User, purpose models.OTPPurpose, ttl time.Duration) (string, bool) {
	code, err := security.NewOTP()
	if err != nil {
		h.internal(w, "Error generating OTP", err)
		return "", false
	}
	if err := h.users.SetOTP(r.Context(), user.ID, purpose, code, h.now().Add(ttl)); err != nil {
		h.internal(w, "Error storing OTP", err)
		return "", false
	}
	return code, true
}

// checkOTP returns the failure message for a submitted code, or "" if it is valid.
func (h *AuthHandler) checkOTP(user *models.User, purpose models.OTPPurpose, given string) string {
	stored, _ := user.OTP(purpose)
	if !security.OTPMatches(stored, given) {
		return "Invalid OTP"
	}
	if user.OTPExpired(purpose, h.now()) {
		return "OTP Expired"
	}
	return ""
}

func (h *AuthHandler) setSession(w http.ResponseWriter, user *models.User) bool {
	token, err := security.MakeToken(h.cfg.JWTSecret, user.ID.Hex(), h.cfg.TokenTTL)
	if err != nil {
		h.internal(w, "Error signing token", err)
		return false
	}
	c := h.cookie(token)
	c.MaxAge = int(h.cfg.TokenTTL.Seconds())
	http.SetCookie(w, c)
	return true
}

func (h *AuthHandler) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if h.cfg.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (h *AuthHandler) internal(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
