package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultTitle = "My Trip"

type Recommendation struct {
	ID                bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID            bson.ObjectID `bson:"userId" json:"userId"`
	Title             string        `bson:"title" json:"title"`
	PackedItems       []string      `bson:"packedItems" json:"packedItems"`
	TripSummary       string        `bson:"tripSummary" json:"tripSummary"`
	AIRecommendations string        `bson:"aiRecommendations,omitempty" json:"aiRecommendations,omitempty"`
	ImageKey          string        `bson:"imageKey,omitempty" json:"imageKey,omitempty"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
}
