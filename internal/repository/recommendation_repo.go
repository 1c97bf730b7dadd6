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

type RecommendationRepo struct {
	collection *mongo.Collection
}

func NewRecommendationRepo(db *mongo.Database) *RecommendationRepo {
	return &RecommendationRepo{
		collection: db.Collection("recommendations"),
	}
}

func (r *RecommendationRepo) Create(ctx context.Context, rec *models.Recommendation) error {
	rec.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	rec.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// ListByUser returns the user's recommendations newest first. The markdown
// body is left out; callers fetch it per document.
func (r *RecommendationRepo) ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Recommendation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"aiRecommendations": 0})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recommendations: %w", err)
	}

	recs := []models.Recommendation{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}

// FindForUser returns nil when the document does not exist or belongs to someone else.
func (r *RecommendationRepo) FindForUser(ctx context.Context, id, userID bson.ObjectID) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recommendation: %w", err)
	}
	return &rec, nil
}

// DeleteForUser removes the document and returns it, or nil if nothing matched.
func (r *RecommendationRepo) DeleteForUser(ctx context.Context, id, userID bson.ObjectID) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "userId": userID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete recommendation: %w", err)
	}
	return &rec, nil
}

// EnsureIndexes creates necessary indexes for the recommendations collection
func (r *RecommendationRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
