package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"remember2pack-backend/internal/middleware"
	"remember2pack-backend/internal/security"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return security.StrongPassword(fl.Field().String())
	})
	return v
}

// failedTag returns the tag of the first failing rule, or "" when err is not
// a validation error.
func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// fail answers 200 with success false, the contract the SPA expects for
// business-rule failures in the auth flows.
func fail(w http.ResponseWriter, message string) {
	writeError(w, http.StatusOK, message)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// currentUser parses the id JWTAuth put in the context.
func currentUser(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	userID, err := bson.ObjectIDFromHex(middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not Authorized. Login Again")
		return bson.ObjectID{}, false
	}
	return userID, true
}
