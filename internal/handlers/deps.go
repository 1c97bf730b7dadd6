package handlers

import (
	"context"
	"io"
	"time"

	"remember2pack-backend/internal/ai"
	"remember2pack-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserStore is implemented by *repository.UserRepo.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetOTP(ctx context.Context, id bson.ObjectID, purpose models.OTPPurpose, code string, expireAt time.Time) error
	MarkVerified(ctx context.Context, id bson.ObjectID) error
	UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error
}

// RecommendationStore is implemented by *repository.RecommendationRepo.
type RecommendationStore interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Recommendation, error)
	FindForUser(ctx context.Context, id, userID bson.ObjectID) (*models.Recommendation, error)
	DeleteForUser(ctx context.Context, id, userID bson.ObjectID) (*models.Recommendation, error)
}

// Mailer is implemented by *mail.Mailer.
type Mailer interface {
	SendWelcome(ctx context.Context, to string) error
	SendVerifyOTP(ctx context.Context, to, code string, ttl time.Duration) error
	SendResetOTP(ctx context.Context, to, code string, ttl time.Duration) error
}

// Advisor is implemented by *ai.Service.
type Advisor interface {
	Recommend(ctx context.Context, in ai.RecommendInput) (string, error)
	NextQuestion(ctx context.Context, in ai.QuestionInput) (string, error)
	Refine(ctx context.Context, in ai.RefineInput) (string, error)
}

// Images is implemented by *storage.ImageStore.
type Images interface {
	UploadTemp(ctx context.Context, userID, fileName, contentType string, body io.Reader, size int64) (string, error)
	Confirm(ctx context.Context, userID, tempKey string) (string, error)
	Cancel(ctx context.Context, userID, tempKey string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// Labeler is implemented by *storage.Labeler.
type Labeler interface {
	Labels(ctx context.Context, key string) ([]string, error)
}
