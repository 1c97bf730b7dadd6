package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tempPrefix = "temp/"

const maxNameLen = 100

var (
	ErrForeignKey = errors.New("image key does not belong to user")
	ErrInvalidKey = errors.New("invalid image key")
)

// TempKey names an unconfirmed upload: temp/<userID>/<unixMillis>-<uuid>-<name>.
func TempKey(userID, fileName string, now time.Time) string {
	return fmt.Sprintf("%s%s/%d-%s-%s", tempPrefix, userID, now.UnixMilli(), uuid.NewString(), SanitizeName(fileName))
}

// PermanentKey maps the caller's temp key to <userID>/<rest>.
func PermanentKey(userID, tempKey string) (string, error) {
	if !OwnsTemp(tempKey, userID) {
		return "", ErrForeignKey
	}
	rest := strings.TrimPrefix(tempKey, tempPrefix+userID+"/")
	if rest == "" {
		return "", ErrInvalidKey
	}
	return userID + "/" + rest, nil
}

// OwnedBy reports whether key is a permanent key of userID.
func OwnedBy(key, userID string) bool {
	return userID != "" && validKey(key) && strings.HasPrefix(key, userID+"/")
}

// OwnsTemp reports whether key is a temp key of userID.
func OwnsTemp(key, userID string) bool {
	return userID != "" && validKey(key) && strings.HasPrefix(key, tempPrefix+userID+"/")
}

func validKey(key string) bool {
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	return true
}

// SanitizeName keeps the base name of an uploaded file with anything outside
// [A-Za-z0-9._-] replaced by an underscore.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if len(out) > maxNameLen {
		out = out[len(out)-maxNameLen:]
	}
	if out == "" || out == "_" {
		return "image"
	}
	return out
}
