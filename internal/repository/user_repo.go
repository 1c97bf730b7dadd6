package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remember2pack-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrDuplicateEmail is returned by Create when the unique email index rejects the insert.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *UserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.Email = models.NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// SetOTP stores a fresh code for purpose, replacing any outstanding one.
func (r *UserRepo) SetOTP(ctx context.Context, id bson.ObjectID, purpose models.OTPPurpose, code string, expireAt time.Time) error {
	codeField, expiryField := otpFields(purpose)
	return r.update(ctx, id, bson.M{
		codeField:   code,
		expiryField: expireAt.UnixMilli(),
	})
}

// MarkVerified flags the account verified and consumes the verify code.
func (r *UserRepo) MarkVerified(ctx context.Context, id bson.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"isAccountVerified": true,
		"verifyOtp":         "",
		"verifyOtpExpireAt": int64(0),
	})
}

// UpdatePassword stores a new hash and consumes the reset code.
func (r *UserRepo) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error {
	return r.update(ctx, id, bson.M{
		"password":         hash,
		"resetOtp":         "",
		"resetOtpExpireAt": int64(0),
	})
}

func (r *UserRepo) update(ctx context.Context, id bson.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func otpFields(purpose models.OTPPurpose) (code, expiry string) {
	if purpose == models.OTPReset {
		return "resetOtp", "resetOtpExpireAt"
	}
	return "verifyOtp", "verifyOtpExpireAt"
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
