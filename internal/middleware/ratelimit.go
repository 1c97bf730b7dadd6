package middleware

import (
	"context"
	"net"
	"net/http"

	"go.uber.org/zap"
)

type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit keys requests by client IP. A nil limiter disables the check;
// limiter errors let the request through.
func RateLimit(l Allower, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
			} else if !ok {
				writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port; chi's RealIP has already applied proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}
