package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/austcse/carnival-backend/models/segment"
	"github.com/austcse/carnival-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listBody struct {
	Success bool                 `json:"success"`
	Data    []types.EventSegment `json:"data"`
	Message string               `json:"message"`
	Meta    types.MetaInfo       `json:"meta"`
}

func setupSegmentRouter(t *testing.T) (http.Handler, *SegmentHandler) {
	t.Helper()
	catalog, err := segment.LoadDefault(segment.WithLocation(time.UTC))
	require.NoError(t, err)

	h := NewSegmentHandler(catalog)
	r := newTestRouter()
	r.GET("/api/segments", h.ListSegments)
	r.GET("/api/segments/upcoming", h.ListUpcoming)
	r.GET("/api/segments/:id", h.GetSegment)
	r.GET("/api/segments/:id/related", h.ListRelated)
	r.GET("/api/categories", h.ListCategories)
	return r, h
}

func get(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, listBody) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body listBody
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func segmentIDs(segments []types.EventSegment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.ID
	}
	return out
}

func TestListSegments(t *testing.T) {
	router, _ := setupSegmentRouter(t)

	w, body := get(t, router, "/api/segments")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 14)
	assert.Equal(t, 14, body.Meta.Count)
	assert.NotEmpty(t, body.Meta.RequestID)
	assert.Equal(t, "workshop-capture-the-flag-01", body.Data[0].ID)
}

func TestListSegmentsFilters(t *testing.T) {
	router, _ := setupSegmentRouter(t)

	_, body := get(t, router, "/api/segments?category=Security")
	assert.Len(t, body.Data, 4)

	_, body = get(t, router, "/api/segments?category=security")
	assert.Empty(t, body.Data)
	assert.NotNil(t, body.Data)

	_, body = get(t, router, "/api/segments?group=prelim")
	assert.Equal(t, []string{"prelim-hackathon", "prelim-programming-contest"}, segmentIDs(body.Data))

	_, body = get(t, router, "/api/segments?category=Development&type=Onsite")
	assert.Equal(t, []string{"prelim-hackathon", "main-hackathon"}, segmentIDs(body.Data))

	_, body = get(t, router, "/api/segments?type=Online")
	for _, s := range body.Data {
		assert.Equal(t, types.SegmentTypeOnline, s.Type)
	}
}

func TestListSegmentsRejectsUnknownFilterValues(t *testing.T) {
	router, _ := setupSegmentRouter(t)

	w, _ := get(t, router, "/api/segments?type=Hybrid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = get(t, router, "/api/segments?group=finals")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSegment(t *testing.T) {
	router, _ := setupSegmentRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/segments/chess-competition", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool               `json:"success"`
		Data    types.EventSegment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Chess Competition", body.Data.Title)
	assert.Equal(t, types.SegmentGroupMain, body.Data.Group)
	require.NotNil(t, body.Data.Schedule)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/segments/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Segment not found"}`, w.Body.String())
}

func TestListUpcoming(t *testing.T) {
	router, h := setupSegmentRouter(t)
	h.now = func() time.Time { return time.Date(2025, time.August, 25, 12, 0, 0, 0, time.UTC) }

	_, body := get(t, router, "/api/segments/upcoming")
	assert.Equal(t, []string{
		"capture-the-flag",
		"quiz-competition",
		"main-hackathon",
		"chess-competition",
		"esports-tournaments",
		"main-programming-contest",
	}, segmentIDs(body.Data))

	h.now = func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }
	_, body = get(t, router, "/api/segments/upcoming")
	assert.Empty(t, body.Data)
	assert.Equal(t, 0, body.Meta.Count)
}

func TestListRelated(t *testing.T) {
	router, _ := setupSegmentRouter(t)

	_, body := get(t, router, "/api/segments/math-olympiad/related")
	assert.Equal(t, []string{"quiz-competition"}, segmentIDs(body.Data))

	w, _ := get(t, router, "/api/segments/missing/related")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategories(t *testing.T) {
	router, _ := setupSegmentRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []string       `json:"data"`
		Meta types.MetaInfo `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Security", "Development", "Programming", "Design", "Academic", "Sports"}, body.Data)
	assert.Equal(t, 6, body.Meta.Count)
}
