package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func setupRateLimitRouter(limiter *MockRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(UserIDKey, uid)
		}
		c.Next()
	})
	r.Use(WriteRateLimiter(limiter, 2, time.Minute, zap.NewNop()))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/clubs", ok)
	r.POST("/clubs/:id/join", ok)
	return r
}

func TestWriteRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		user       string
		setup      func(l *MockRateLimiter)
		wantStatus int
		wantRetry  string
	}{
		{
			name:       "reads skip the limiter",
			method:     http.MethodGet,
			path:       "/clubs",
			user:       "u1",
			setup:      func(l *MockRateLimiter) {},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "write under limit",
			method: http.MethodPost,
			path:   "/clubs/c1/join",
			user:   "u1",
			setup: func(l *MockRateLimiter) {
				l.On("CheckLimit", mock.Anything, "write:u1", 2, time.Minute).Return(true, time.Duration(0), nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "write over limit",
			method: http.MethodPost,
			path:   "/clubs/c1/join",
			user:   "u1",
			setup: func(l *MockRateLimiter) {
				l.On("CheckLimit", mock.Anything, "write:u1", 2, time.Minute).Return(false, 42*time.Second, nil)
			},
			wantStatus: http.StatusTooManyRequests,
			wantRetry:  "42",
		},
		{
			name:   "anonymous keyed by ip",
			method: http.MethodPost,
			path:   "/clubs/c1/join",
			setup: func(l *MockRateLimiter) {
				l.On("CheckLimit", mock.Anything, "write:ip:192.0.2.1", 2, time.Minute).Return(true, time.Duration(0), nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "limiter failure allows",
			method: http.MethodPost,
			path:   "/clubs/c1/join",
			user:   "u1",
			setup: func(l *MockRateLimiter) {
				l.On("CheckLimit", mock.Anything, "write:u1", 2, time.Minute).Return(false, time.Duration(0), assert.AnError)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &MockRateLimiter{}
			tt.setup(limiter)
			r := setupRateLimitRouter(limiter)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.0.2.1:1234"
			if tt.user != "" {
				req.Header.Set("X-Test-User", tt.user)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantRetry, w.Header().Get("Retry-After"))
			limiter.AssertExpectations(t)
		})
	}
}
