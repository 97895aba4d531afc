// Package logger provides the process-wide zap logger and helpers for keeping
// secrets out of log lines.
package logger

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest makes the logger write development output to stdout and turns
// Close into a no-op.
var IsTest bool

// buildConfig picks JSON output for production and console output
// elsewhere. LOG_FORMAT ("json" or "console") overrides the choice.
func buildConfig(environment, level, format string) zap.Config {
	var cfg zap.Config
	if environment == "production" && !IsTest {
		cfg = zap.NewProductionConfig()
		cfg.InitialFields = map[string]interface{}{"service": "campus-backend"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil || level == "" {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if format == "json" || format == "console" {
		cfg.Encoding = format
	}
	return cfg
}

func initLoggerInternal() {
	cfg := buildConfig(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	zl, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zl.Sugar()
}

// InitLogger builds the process logger once.
func InitLogger() {
	once.Do(initLoggerInternal)
}

func GetLogger() *zap.SugaredLogger {
	once.Do(initLoggerInternal)
	return logger
}

// Named returns a structured child logger for one component.
func Named(name string) *zap.Logger {
	return GetLogger().Desugar().Named(name)
}

// Close flushes buffered entries before exit.
func Close() error {
	if logger == nil || IsTest {
		return nil
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
		return err
	}
	return nil
}

// MaskSensitiveString keeps the first prefixLen and last suffixLen characters.
// Short strings are fully masked so their length is the only thing revealed.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}
	if len(s) < prefixLen+suffixLen+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskEmail masks the local part of an address and keeps the domain.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return MaskSensitiveString(email, 2, 2)
	}
	return MaskSensitiveString(local, 2, 1) + "@" + domain
}

// MaskJWT masks a bearer token.
func MaskJWT(token string) string {
	if len(token) < 10 {
		return strings.Repeat("*", len(token))
	}
	return token[:3] + "..." + token[len(token)-3:]
}

// MaskConnectionString hides the password of a postgres:// or redis:// URL.
// Key/value DSNs have their password= value replaced.
func MaskConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	if u, err := url.Parse(connStr); err == nil && u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
			return strings.Replace(u.String(), "%2A%2A%2A", "***", 1)
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=***"
		}
	}
	return strings.Join(fields, " ")
}
