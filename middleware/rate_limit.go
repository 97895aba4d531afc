package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WriteRateLimiter limits mutating requests per user in a fixed window.
// Reads pass through. Limiter failures let the request through.
func WriteRateLimiter(limiter services.RateLimiterInterface, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("WriteRateLimiter")
	return func(c *gin.Context) {
		if !isWrite(c.Request.Method) {
			c.Next()
			return
		}

		subject := c.GetString(UserIDKey)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := fmt.Sprintf("write:%s", subject)

		allowed, retryAfter, err := limiter.CheckLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warn("Rate limit check failed, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			secs := int(retryAfter.Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
			_ = c.Error(apperrors.RateLimitExceeded("Too many requests, slow down", secs))
			c.Abort()
			return
		}
		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
