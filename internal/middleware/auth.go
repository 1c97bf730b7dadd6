package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"remember2pack-backend/internal/security"
)

type ctxKey int

const userIDKey ctxKey = iota

// CookieName is the cookie carrying the session JWT.
const CookieName = "token"

// JWTAuth rejects requests without a valid session cookie and stores the
// caller's user id in the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "Not Authorized. Login Again")
				return
			}

			claims, err := security.ParseToken(secret, cookie.Value)
			if err != nil {
				unauthorized(w, "Not Authorized, login again")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.ID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the authenticated user id, or "" outside JWTAuth.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
