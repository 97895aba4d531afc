package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusconnect/campus-backend/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000", "*.campus.edu"}}
	router := gin.New()
	router.Use(CORSMiddleware(cfg))
	router.GET("/v1/clubs", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	router.OPTIONS("/v1/clubs", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name       string
		origin     string
		preflight  bool
		wantOrigin string
		wantStatus int
	}{
		{name: "exact origin", origin: "http://localhost:3000", wantOrigin: "http://localhost:3000", wantStatus: http.StatusOK},
		{name: "subdomain wildcard", origin: "https://app.campus.edu", wantOrigin: "https://app.campus.edu", wantStatus: http.StatusOK},
		{name: "preflight allowed", origin: "http://localhost:3000", preflight: true, wantOrigin: "http://localhost:3000", wantStatus: http.StatusNoContent},
		{name: "disallowed origin", origin: "https://evil.example.com", wantStatus: http.StatusForbidden},
		{name: "no origin header", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodGet
			if tt.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/v1/clubs", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"*.campus.edu"}
	assert.True(t, originAllowed(allowed, "https://app.campus.edu"))
	assert.False(t, originAllowed(allowed, "https://campus.edu.evil.com"))
}
