package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"remember2pack-backend/internal/metrics"
	"remember2pack-backend/internal/security"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func echoUserID(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(GetUserID(r.Context())))
}

func TestJWTAuth(t *testing.T) {
	h := JWTAuth("secret")(http.HandlerFunc(echoUserID))

	t.Run("missing cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	})

	t.Run("bad token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "nope"})
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := security.MakeToken("secret", "abc123", time.Minute)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc123", w.Body.String())
	})
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	serve := func(l Allower) (int, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		RateLimit(l, zap.NewNop())(ok).ServeHTTP(w, req)
		return w.Code, w
	}

	code, _ := serve(nil)
	assert.Equal(t, http.StatusNoContent, code)

	allow := &fakeLimiter{allow: true}
	code, _ = serve(allow)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, []string{"10.0.0.1"}, allow.keys)

	code, _ = serve(&fakeLimiter{allow: false})
	assert.Equal(t, http.StatusTooManyRequests, code)

	code, _ = serve(&fakeLimiter{err: errors.New("redis down")})
	assert.Equal(t, http.StatusNoContent, code, "limiter errors fail open")
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/items/{id}", "GET", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestRequestLogger(t *testing.T) {
	h := RequestLogger(zap.NewNop())(http.HandlerFunc(echoUserID))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
