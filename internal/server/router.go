package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"remember2pack-backend/internal/handlers"
	"remember2pack-backend/internal/metrics"
	authmw "remember2pack-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "remember2pack-backend"

// Deps is everything the router mounts. AILimiter and OTPLimiter may be nil
// to disable rate limiting; StaticDir may be empty to disable the SPA.
type Deps struct {
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	JWTSecret string

	AllowedOrigins []string
	StaticDir      string

	Auth            *handlers.AuthHandler
	User            *handlers.UserHandler
	Recommendations *handlers.RecommendationHandler
	Images          *handlers.ImageHandler
	AI              *handlers.AIHandler

	AILimiter  authmw.Allower
	OTPLimiter authmw.Allower
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(authmw.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(authmw.Metrics(d.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"` + serviceName + `"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	requireAuth := authmw.JWTAuth(d.JWTSecret)
	otpLimit := authmw.RateLimit(d.OTPLimiter, d.Logger)
	aiLimit := authmw.RateLimit(d.AILimiter, d.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Post("/logout", d.Auth.Logout)
			r.With(otpLimit).Post("/send-reset-otp", d.Auth.SendResetOTP)
			r.Post("/reset-password", d.Auth.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.With(otpLimit).Post("/send-verify-otp", d.Auth.SendVerifyOTP)
				r.Post("/verify-account", d.Auth.VerifyAccount)
				r.Get("/is-auth", d.Auth.IsAuthenticated)
				r.Post("/is-auth", d.Auth.IsAuthenticated)
			})
		})

		r.With(requireAuth).Get("/user/data", d.User.GetUserData)

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/save", d.Recommendations.Save)
			r.Get("/", d.Recommendations.List)
			r.Get("/image/*", d.Recommendations.ImageURL)
			r.Get("/{id}", d.Recommendations.Get)
			r.Delete("/{id}", d.Recommendations.Delete)
		})

		r.Route("/image", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/upload-image", d.Images.Upload)
			r.Post("/confirm", d.Images.Confirm)
			r.Post("/cancel", d.Images.Cancel)
		})

		r.Group(func(r chi.Router) {
			r.Use(aiLimit)
			r.Post("/recommend", d.AI.Recommend)
			r.Post("/chatbot/generate-question", d.AI.GenerateQuestion)
			r.Post("/chatbot/refined-recommendation", d.AI.RefinedRecommendation)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"Not found"}`))
		})
	})

	if d.StaticDir != "" {
		r.NotFound(spaHandler(d.StaticDir))
	}

	return r
}

// spaHandler serves files from dir and falls back to index.html so client
// side routes resolve.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		clean := path.Clean("/" + r.URL.Path)
		if clean != "/index.html" {
			if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean))); err == nil && !info.IsDir() {
				fs.ServeHTTP(w, r)
				return
			}
		}
		serveIndex(w, r, index)
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request, index string) {
	f, err := os.Open(index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", info.ModTime(), f)
}
