package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/austcse/carnival-backend/config"
	"github.com/austcse/carnival-backend/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestCORSMiddleware(t *testing.T) {
	cfg := &config.ServerConfig{
		AllowedOrigins: []string{"http://localhost:5173", "https://austcsecarnival.com"},
	}

	router := gin.New()
	router.Use(CORSMiddleware(cfg))
	router.GET("/api/segments", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	router.POST("/api/contact", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

	testCases := []struct {
		name           string
		method         string
		path           string
		origin         string
		preflight      bool
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "allowed origin",
			method:         http.MethodGet,
			path:           "/api/segments",
			origin:         "http://localhost:5173",
			expectedStatus: http.StatusOK,
			expectedOrigin: "http://localhost:5173",
		},
		{
			name:           "second allowed origin",
			method:         http.MethodPost,
			path:           "/api/contact",
			origin:         "https://austcsecarnival.com",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://austcsecarnival.com",
		},
		{
			name:           "disallowed origin",
			method:         http.MethodPost,
			path:           "/api/contact",
			origin:         "http://malicious.example",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no origin header",
			method:         http.MethodGet,
			path:           "/api/segments",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "allowed preflight",
			method:         http.MethodOptions,
			path:           "/api/contact",
			origin:         "http://localhost:5173",
			preflight:      true,
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "http://localhost:5173",
		},
		{
			name:           "disallowed preflight",
			method:         http.MethodOptions,
			path:           "/api/contact",
			origin:         "http://malicious.example",
			preflight:      true,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				req.Header.Set("Access-Control-Request-Headers", "Content-Type")
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.expectedOrigin != "" {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
