package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"remember2pack-backend/internal/ai"
	"remember2pack-backend/internal/middleware"
	"remember2pack-backend/internal/models"
	"remember2pack-backend/internal/repository"
	"remember2pack-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// --- users ---

type memUsers struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[bson.ObjectID]*models.User{}}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = bson.NewObjectID()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) SetOTP(_ context.Context, id bson.ObjectID, purpose models.OTPPurpose, code string, expireAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	if purpose == models.OTPReset {
		u.ResetOTP, u.ResetOTPExpireAt = code, expireAt.UnixMilli()
	} else {
		u.VerifyOTP, u.VerifyOTPExpireAt = code, expireAt.UnixMilli()
	}
	return nil
}

func (m *memUsers) MarkVerified(_ context.Context, id bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.IsAccountVerified = true
	u.VerifyOTP, u.VerifyOTPExpireAt = "", 0
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id bson.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.Password = hash
	u.ResetOTP, u.ResetOTPExpireAt = "", 0
	return nil
}

func (m *memUsers) add(u models.User) bson.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = bson.NewObjectID()
	m.users[u.ID] = &u
	return u.ID
}

func (m *memUsers) get(id bson.ObjectID) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

// --- recommendations ---

type memRecs struct {
	mu   sync.Mutex
	recs []models.Recommendation
}

func (m *memRecs) Create(_ context.Context, rec *models.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = bson.NewObjectID()
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *memRecs) ListByUser(_ context.Context, userID bson.ObjectID) ([]models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Recommendation
	for _, r := range m.recs {
		if r.UserID == userID {
			r.AIRecommendations = ""
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRecs) FindForUser(_ context.Context, id, userID bson.ObjectID) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == id && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memRecs) DeleteForUser(_ context.Context, id, userID bson.ObjectID) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.recs {
		if r.ID == id && r.UserID == userID {
			m.recs = append(m.recs[:i], m.recs[i+1:]...)
			return &r, nil
		}
	}
	return nil, nil
}

// --- mail ---

type sentMail struct {
	kind, to, code string
	ttl            time.Duration
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendWelcome(_ context.Context, to string) error {
	m.sent = append(m.sent, sentMail{kind: "welcome", to: to})
	return m.err
}

func (m *recordingMailer) SendVerifyOTP(_ context.Context, to, code string, ttl time.Duration) error {
	m.sent = append(m.sent, sentMail{kind: "verify", to: to, code: code, ttl: ttl})
	return m.err
}

func (m *recordingMailer) SendResetOTP(_ context.Context, to, code string, ttl time.Duration) error {
	m.sent = append(m.sent, sentMail{kind: "reset", to: to, code: code, ttl: ttl})
	return m.err
}

func (m *recordingMailer) last() sentMail {
	return m.sent[len(m.sent)-1]
}

// --- images ---

type fakeImages struct {
	uploads  []string
	body     string
	deleted  []string
	confirms []string
	err      error
}

func (f *fakeImages) UploadTemp(_ context.Context, userID, fileName, _ string, body io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(body)
	f.body = string(b)
	key := storage.TempKey(userID, fileName, time.Now())
	f.uploads = append(f.uploads, key)
	return key, nil
}

func (f *fakeImages) Confirm(_ context.Context, userID, tempKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key, err := storage.PermanentKey(userID, tempKey)
	if err != nil {
		return "", err
	}
	f.confirms = append(f.confirms, tempKey)
	return key, nil
}

func (f *fakeImages) Cancel(_ context.Context, userID, tempKey string) error {
	if !storage.OwnsTemp(tempKey, userID) {
		return storage.ErrForeignKey
	}
	f.deleted = append(f.deleted, tempKey)
	return f.err
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.err
}

func (f *fakeImages) SignedURL(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.s3/" + key + "?X-Amz-Expires=3600", nil
}

type fakeLabeler struct {
	labels []string
	err    error
}

func (f *fakeLabeler) Labels(context.Context, string) ([]string, error) {
	return f.labels, f.err
}

// --- ai ---

type fakeAdvisor struct {
	reply     string
	err       error
	recommend []ai.RecommendInput
	questions []ai.QuestionInput
	refines   []ai.RefineInput
}

func (f *fakeAdvisor) Recommend(_ context.Context, in ai.RecommendInput) (string, error) {
	f.recommend = append(f.recommend, in)
	return f.reply, f.err
}

func (f *fakeAdvisor) NextQuestion(_ context.Context, in ai.QuestionInput) (string, error) {
	f.questions = append(f.questions, in)
	return f.reply, f.err
}

func (f *fakeAdvisor) Refine(_ context.Context, in ai.RefineInput) (string, error) {
	f.refines = append(f.refines, in)
	return f.reply, f.err
}

// --- request helpers ---

// serve routes a single request through a chi router so URL params resolve.
// A non-empty userID is placed in the context as JWTAuth would.
func serve(method, pattern, target string, h http.HandlerFunc, userID string, body any) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != "" {
				req = req.WithContext(middleware.WithUserID(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.MethodFunc(method, pattern, h)

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func post(h http.HandlerFunc, userID string, body any) *httptest.ResponseRecorder {
	return serve(http.MethodPost, "/", "/", h, userID, body)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
