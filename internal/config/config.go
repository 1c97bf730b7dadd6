package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Env      string `env:"NODE_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"3001"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI string `env:"MONGODB_URI"`
	DBName   string `env:"DB_NAME" envDefault:"remember2pack"`

	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	StaticDir   string `env:"STATIC_DIR"`

	Mail  MailConfig
	AWS   AWSConfig
	AI    AIConfig
	Redis RedisConfig
}

type MailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromWelcome  string `env:"SENDER_EMAIL_WELCOME" envDefault:"Remember-2-Pack <welcome@remember2pack.com>"`
	FromVerify   string `env:"SENDER_EMAIL_OTP_VERIFY" envDefault:"Remember-2-Pack <verify@remember2pack.com>"`
	FromReset    string `env:"SENDER_EMAIL_OTP_RESET" envDefault:"Remember-2-Pack <reset@remember2pack.com>"`
}

type AWSConfig struct {
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_ACCESS_KEY"`
	Region    string `env:"BUCKET_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"BUCKET_NAME"`
	// Endpoint overrides the S3 endpoint, e.g. for a local MinIO.
	Endpoint string `env:"S3_ENDPOINT"`
}

type AIConfig struct {
	HFAPIKey        string `env:"HF_API_KEY"`
	HFBaseURL       string `env:"HF_BASE_URL" envDefault:"https://router.huggingface.co/v1"`
	HFModel         string `env:"HF_MODEL" envDefault:"meta-llama/Llama-3.1-8B-Instruct"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	ClaudeModel     string `env:"CLAUDE_MODEL" envDefault:"claude-haiku-4-5-20251001"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	// AIPerMinute caps AI endpoint calls per client IP. Zero disables the limit.
	AIPerMinute int `env:"AI_RATE_LIMIT_PER_MIN" envDefault:"20"`
	// OTPPerHour caps OTP emails per client IP.
	OTPPerHour int `env:"OTP_RATE_LIMIT_PER_HOUR" envDefault:"10"`
}

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	// .env is optional; in production vars are set directly
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("missing MONGODB_URI environment variable"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("missing JWT_SECRET environment variable"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}
