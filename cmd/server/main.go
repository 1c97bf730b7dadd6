package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remember2pack-backend/internal/ai"
	"remember2pack-backend/internal/config"
	"remember2pack-backend/internal/database"
	"remember2pack-backend/internal/handlers"
	"remember2pack-backend/internal/logger"
	"remember2pack-backend/internal/mail"
	"remember2pack-backend/internal/metrics"
	authmw "remember2pack-backend/internal/middleware"
	"remember2pack-backend/internal/ratelimit"
	"remember2pack-backend/internal/repository"
	"remember2pack-backend/internal/server"
	"remember2pack-backend/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer db.Client().Disconnect(context.Background())

	userRepo := repository.NewUserRepo(db)
	recRepo := repository.NewRecommendationRepo(db)

	idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := userRepo.EnsureIndexes(idxCtx); err != nil {
		log.Warn("failed to create user indexes", zap.Error(err))
	}
	if err := recRepo.EnsureIndexes(idxCtx); err != nil {
		log.Warn("failed to create recommendation indexes", zap.Error(err))
	}
	cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var sender mail.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender = mail.NewResendSender(cfg.Mail.ResendAPIKey, log)
	} else {
		log.Warn("RESEND_API_KEY not set, emails are logged instead of sent")
		sender = mail.NewLogSender(log)
	}
	mailer := mail.NewMailer(sender, mail.Addresses{
		Welcome: cfg.Mail.FromWelcome,
		Verify:  cfg.Mail.FromVerify,
		Reset:   cfg.Mail.FromReset,
	})

	var (
		images  handlers.Images
		labeler handlers.Labeler
	)
	if cfg.AWS.Bucket != "" {
		clients, err := storage.NewClients(ctx, cfg.AWS)
		if err != nil {
			log.Fatal("failed to configure AWS", zap.Error(err))
		}
		images = storage.NewImageStoreFromClient(clients.S3, cfg.AWS.Bucket)
		labeler = storage.NewLabeler(clients.Rekognition, cfg.AWS.Bucket)
	} else {
		log.Warn("BUCKET_NAME not set, image endpoints are disabled")
	}

	if cfg.AI.HFAPIKey == "" || cfg.AI.AnthropicAPIKey == "" {
		log.Warn("an AI provider key is missing, its attempts will fail",
			zap.Bool("huggingface", cfg.AI.HFAPIKey != ""),
			zap.Bool("claude", cfg.AI.AnthropicAPIKey != ""),
		)
	}
	chain := ai.NewFallback(
		ai.NewHuggingFace(cfg.AI.HFAPIKey, cfg.AI.HFBaseURL, cfg.AI.HFModel),
		ai.NewClaude(cfg.AI.AnthropicAPIKey, cfg.AI.ClaudeModel),
		log.Named("ai"),
		m.AIRequests,
	)
	advisor := ai.NewService(chain)

	var aiLimiter, otpLimiter authmw.Allower
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, rate limits fail open", zap.Error(err))
		}
		if cfg.Redis.AIPerMinute > 0 {
			aiLimiter = ratelimit.New(rdb, "ai", cfg.Redis.AIPerMinute, time.Minute)
		}
		if cfg.Redis.OTPPerHour > 0 {
			otpLimiter = ratelimit.New(rdb, "otp", cfg.Redis.OTPPerHour, time.Hour)
		}
	}

	router := server.NewRouter(server.Deps{
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: []string{cfg.FrontendURL, "http://localhost:5173"},
		StaticDir:      staticDir(cfg),
		Auth: handlers.NewAuthHandler(userRepo, mailer, handlers.AuthConfig{
			JWTSecret:    cfg.JWTSecret,
			TokenTTL:     cfg.TokenTTL,
			Production:   cfg.IsProduction(),
			CookieDomain: cfg.CookieDomain,
		}, log),
		User:            handlers.NewUserHandler(userRepo, log),
		Recommendations: handlers.NewRecommendationHandler(recRepo, images, log),
		Images:          handlers.NewImageHandler(images, labeler, log),
		AI:              handlers.NewAIHandler(advisor, log),
		AILimiter:       aiLimiter,
		OTPLimiter:      otpLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("remember2pack backend starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// staticDir only serves the SPA in production.
func staticDir(cfg *config.Config) string {
	if !cfg.IsProduction() {
		return ""
	}
	return cfg.StaticDir
}
