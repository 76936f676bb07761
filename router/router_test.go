package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/austcse/carnival-backend/config"
	"github.com/austcse/carnival-backend/handlers"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/models/contact/validation"
	"github.com/austcse/carnival-backend/models/segment"
	"github.com/austcse/carnival-backend/services"
	"github.com/austcse/carnival-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []types.Notification
}

func (r *recordingMailer) Send(_ context.Context, n types.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingMailer) Provider() string { return "recording" }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment:    config.EnvDevelopment,
			Port:           "5000",
			AllowedOrigins: []string{"http://localhost:5173"},
			Version:        "test",
		},
		RateLimit: config.RateLimitConfig{ContactRequests: 5, WindowSeconds: 3600},
		Contact: config.ContactConfig{
			OrganizerInbox:         "organizer@example.com",
			Subject:                "New Contact Form Submission - AUST CSE Carnival",
			DeliveryTimeoutSeconds: 10,
			TimeZone:               "UTC",
		},
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *recordingMailer) {
	t.Helper()

	cfg := testConfig()
	reg := prometheus.NewRegistry()

	catalog, err := segment.LoadDefault(segment.WithLocation(time.UTC))
	require.NoError(t, err)

	limiter := services.NewMemoryRateLimiter()
	t.Cleanup(limiter.Close)

	mailer := &recordingMailer{}
	contactService := services.NewContactService(
		validation.MustNewValidator(validation.DefaultRules),
		limiter,
		mailer,
		cfg.Contact,
		cfg.RateLimit,
		reg,
	)
	healthService := services.NewHealthService(catalog, nil, mailer, cfg.Server.Version)

	r, err := SetupRouter(Dependencies{
		Config:         cfg,
		SegmentHandler: handlers.NewSegmentHandler(catalog),
		ContactHandler: handlers.NewContactHandler(contactService),
		HealthHandler:  handlers.NewHealthHandler(healthService),
		Gatherer:       reg,
	})
	require.NoError(t, err)
	return r, mailer
}

const validContact = `{
	"firstName": "Nusrat",
	"lastName": "Jahan",
	"email": "Nusrat@Example.com",
	"phone": "+8801712345678",
	"message": "Is the hackathon open to first year students?"
}`

func postContact(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootRoute(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is running", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestContactSubmissionFlow(t *testing.T) {
	r, mailer := setupTestRouter(t)

	for i := 0; i < 5; i++ {
		w := postContact(r, validContact)
		require.Equal(t, http.StatusOK, w.Code, "submission %d", i+1)
		assert.JSONEq(t, `{"success":true,"message":"Message sent successfully!"}`, w.Body.String())
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	}

	w := postContact(r, validContact)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body types.ContactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, services.RateLimitMessage, body.Message)
	assert.Greater(t, body.RetryAfter, 0)
	assert.LessOrEqual(t, body.RetryAfter, 3600)

	require.Len(t, mailer.sent, 5)
	assert.Equal(t, "nusrat@example.com", mailer.sent[0].ReplyTo)
	assert.Equal(t, "organizer@example.com", mailer.sent[0].To)
}

func TestContactValidationErrors(t *testing.T) {
	r, mailer := setupTestRouter(t)

	w := postContact(r, `{"firstName":"N","lastName":"Jahan","email":"bad","message":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body types.ContactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.Len(t, body.Errors, 3)
	assert.Equal(t, "firstName", body.Errors[0].Field)
	assert.Equal(t, "email", body.Errors[1].Field)
	assert.Equal(t, "message", body.Errors[2].Field)
	assert.Empty(t, mailer.sent)
}

func TestContactMalformedBody(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := postContact(r, `{"firstName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"errors":[{"field":"body","message":"Request body must be a JSON object"}]}`, w.Body.String())

	w = postContact(r, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body types.ContactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 4)
	assert.Equal(t, "firstName", body.Errors[0].Field)
}

func TestMalformedBodiesCountTowardLimit(t *testing.T) {
	r, mailer := setupTestRouter(t)

	for i := 0; i < 5; i++ {
		w := postContact(r, validContact)
		require.Equal(t, http.StatusOK, w.Code, "submission %d", i+1)
	}

	w := postContact(r, `{"firstName":"Nusrat","phone":8801712345678}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Len(t, mailer.sent, 5)
}

func TestDisallowedOrigin(t *testing.T) {
	r, mailer := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validContact))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, mailer.sent)
}

func TestSegmentRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/segments", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Success bool                 `json:"success"`
		Data    []types.EventSegment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.True(t, list.Success)
	assert.Len(t, list.Data, 14)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/segments/"+list.Data[0].ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/segments/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Segment not found"}`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	postContact(r, validContact)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "carnival_contact_submissions_total")
}

func TestUnknownRoute(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, w.Body.String())
}
