package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"remember2pack-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap/zaptest"
)

func newRecs(t *testing.T) (*RecommendationHandler, *memRecs, *fakeImages) {
	recs := &memRecs{}
	images := &fakeImages{}
	return NewRecommendationHandler(recs, images, zaptest.NewLogger(t)), recs, images
}

func TestSaveRecommendation(t *testing.T) {
	h, recs, _ := newRecs(t)
	user := bson.NewObjectID()

	w := serve(http.MethodPost, "/save", "/save", h.Save, user.Hex(), map[string]any{
		"packedItems":       []string{"passport"},
		"tripSummary":       "Lisbon for 3 days",
		"aiRecommendations": "# Pack",
		"imageKey":          user.Hex() + "/1-abc-bag.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	rec := body["recommendation"].(map[string]any)
	assert.Equal(t, models.DefaultTitle, rec["title"])
	assert.Equal(t, user.Hex(), rec["userId"])
	assert.NotEmpty(t, rec["_id"])

	require.Len(t, recs.recs, 1)
	assert.Equal(t, user, recs.recs[0].UserID)
	assert.Equal(t, user.Hex()+"/1-abc-bag.png", recs.recs[0].ImageKey)
}

func TestSaveRecommendationRejections(t *testing.T) {
	h, recs, _ := newRecs(t)
	user := bson.NewObjectID()

	w := serve(http.MethodPost, "/save", "/save", h.Save, user.Hex(), map[string]any{
		"packedItems": []string{"passport"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(http.MethodPost, "/save", "/save", h.Save, user.Hex(), map[string]any{
		"packedItems":       []string{},
		"tripSummary":       "Lisbon",
		"aiRecommendations": "# Pack",
		"imageKey":          bson.NewObjectID().Hex() + "/1-abc-bag.png",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(http.MethodPost, "/save", "/save", h.Save, user.Hex(), map[string]any{
		"packedItems":       []string{},
		"tripSummary":       "Lisbon",
		"aiRecommendations": "# Pack",
		"imageKey":          "temp/" + user.Hex() + "/1-abc-bag.png",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "unconfirmed uploads cannot be attached")

	w = serve(http.MethodPost, "/save", "/save", h.Save, "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Empty(t, recs.recs)
}

func TestListRecommendations(t *testing.T) {
	h, recs, _ := newRecs(t)
	user := bson.NewObjectID()
	now := time.Now()
	recs.recs = []models.Recommendation{
		{ID: bson.NewObjectID(), UserID: user, Title: "Old", AIRecommendations: "long", CreatedAt: now.Add(-time.Hour)},
		{ID: bson.NewObjectID(), UserID: bson.NewObjectID(), Title: "Foreign", CreatedAt: now},
		{ID: bson.NewObjectID(), UserID: user, Title: "New", AIRecommendations: "long", CreatedAt: now},
	}

	w := serve(http.MethodGet, "/", "/", h.List, user.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode(t, w)["recommendations"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].(map[string]any)["title"])
	assert.NotContains(t, list[0].(map[string]any), "aiRecommendations")

	w = serve(http.MethodGet, "/", "/", h.List, bson.NewObjectID().Hex(), nil)
	assert.Equal(t, []any{}, decode(t, w)["recommendations"])
}

func TestGetRecommendation(t *testing.T) {
	h, recs, _ := newRecs(t)
	user := bson.NewObjectID()
	rec := models.Recommendation{ID: bson.NewObjectID(), UserID: user, Title: "Oslo", AIRecommendations: "# Coat"}
	recs.recs = []models.Recommendation{rec}

	w := serve(http.MethodGet, "/{id}", "/"+rec.ID.Hex(), h.Get, user.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Coat", decode(t, w)["recommendation"].(map[string]any)["aiRecommendations"])

	for name, target := range map[string]string{
		"unknown":   "/" + bson.NewObjectID().Hex(),
		"malformed": "/not-an-id",
	} {
		w := serve(http.MethodGet, "/{id}", target, h.Get, user.Hex(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code, name)
	}

	w = serve(http.MethodGet, "/{id}", "/"+rec.ID.Hex(), h.Get, bson.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "foreign")
}

func TestDeleteRecommendation(t *testing.T) {
	h, recs, images := newRecs(t)
	user := bson.NewObjectID()
	withImage := models.Recommendation{ID: bson.NewObjectID(), UserID: user, ImageKey: user.Hex() + "/1-bag.png"}
	plain := models.Recommendation{ID: bson.NewObjectID(), UserID: user}
	recs.recs = []models.Recommendation{withImage, plain}

	w := serve(http.MethodDelete, "/{id}", "/"+withImage.ID.Hex(), h.Delete, bson.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, recs.recs, 2)

	w = serve(http.MethodDelete, "/{id}", "/"+withImage.ID.Hex(), h.Delete, user.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{withImage.ImageKey}, images.deleted)

	images.err = errors.New("s3 down")
	w = serve(http.MethodDelete, "/{id}", "/"+plain.ID.Hex(), h.Delete, user.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, images.deleted, 1, "no image, no S3 call")
	assert.Empty(t, recs.recs)

	w = serve(http.MethodDelete, "/{id}", "/"+plain.ID.Hex(), h.Delete, user.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecommendationImageFailureIsBestEffort(t *testing.T) {
	h, recs, images := newRecs(t)
	user := bson.NewObjectID()
	rec := models.Recommendation{ID: bson.NewObjectID(), UserID: user, ImageKey: user.Hex() + "/1-bag.png"}
	recs.recs = []models.Recommendation{rec}
	images.err = errors.New("s3 down")

	w := serve(http.MethodDelete, "/{id}", "/"+rec.ID.Hex(), h.Delete, user.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recs.recs)
}

func TestImageURL(t *testing.T) {
	h, _, _ := newRecs(t)
	user := bson.NewObjectID().Hex()

	w := serve(http.MethodGet, "/image/*", "/image/"+user+"/1-bag.png", h.ImageURL, user, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://bucket.s3/"+user+"/1-bag.png?X-Amz-Expires=3600", decode(t, w)["imageUrl"])

	w = serve(http.MethodGet, "/image/*", "/image/"+user+"%2F1-bag.png", h.ImageURL, user, nil)
	assert.Equal(t, http.StatusOK, w.Code, "escaped key")

	w = serve(http.MethodGet, "/image/*", "/image/"+bson.NewObjectID().Hex()+"/1-bag.png", h.ImageURL, user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(http.MethodGet, "/image/*", "/image/", h.ImageURL, user, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageURLWithoutStorage(t *testing.T) {
	h := NewRecommendationHandler(&memRecs{}, nil, zaptest.NewLogger(t))
	user := bson.NewObjectID().Hex()

	w := serve(http.MethodGet, "/image/*", "/image/"+user+"/1-bag.png", h.ImageURL, user, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
