package logger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the request middleware. Kept as plain strings so the
// logger does not import the middleware package.
const (
	requestIDKey = "request_id"
	userIDKey    = "userID"
)

// LogError logs err with whatever request context is available on ctx.
func LogError(ctx context.Context, err error, message string, metadata map[string]interface{}) {
	fields := []zap.Field{zap.Error(err)}
	if err != nil {
		fields = append(fields, zap.String("error_type", fmt.Sprintf("%T", err)))
	}

	if ginCtx, ok := ctx.(*gin.Context); ok && ginCtx.Request != nil {
		if rid := ginCtx.GetString(requestIDKey); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if uid := ginCtx.GetString(userIDKey); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		fields = append(fields,
			zap.String("path", ginCtx.Request.URL.Path),
			zap.String("method", ginCtx.Request.Method),
			zap.String("ip_address", ginCtx.ClientIP()),
		)
	}

	if os.Getenv("ENVIRONMENT") != "production" {
		fields = append(fields, zap.String("stack_trace", getStackTrace(3)))
	}

	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	GetLogger().Desugar().Error(message, fields...)
}

// LogHTTPError logs a request error with status and filtered headers.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	metadata := map[string]interface{}{
		"status_code": statusCode,
		"headers":     filterSensitiveHeaders(c.Request.Header),
	}
	LogError(c, err, message, metadata)
}

func getStackTrace(skip int) string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			b.WriteString(frame.Function)
			b.WriteString("\n\t")
			b.WriteString(frame.File)
			b.WriteString(":")
			b.WriteString(strconv.Itoa(frame.Line))
			b.WriteString("\n")
		}
		if !more {
			break
		}
	}
	return b.String()
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		if lower == "authorization" || lower == "cookie" ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") {
			filtered[name] = "[REDACTED]"
			continue
		}
		if len(values) > 0 {
			filtered[name] = values[0]
		}
	}
	return filtered
}
