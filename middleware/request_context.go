package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDKey holds the request ID on the gin context.
	RequestIDKey = "request_id"
	// RequestIDHeader carries the request ID in and out.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLen = 128
)

// RequestIDMiddleware trusts a client supplied X-Request-ID only when it is
// short and printable; anything else gets a fresh UUID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// AccessLog writes one line per request once the handler chain is done.
// Probe and metrics paths are logged at debug.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("requestID", c.GetString(RequestIDKey)),
		}
		if uid := c.GetString(UserIDKey); uid != "" {
			fields = append(fields, zap.String("userID", uid))
		}

		switch path := c.FullPath(); {
		case path == "/metrics" || strings.HasPrefix(path, "/health"):
			log.Debug("request", fields...)
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
