// Package config loads the service configuration from the environment, or
// from the YAML file named by CONFIG_FILE with the environment on top.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port" validate:"required"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host           string `mapstructure:"HOST" yaml:"host" validate:"required"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user" validate:"required"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name" validate:"required"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	ConnMaxLife    string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
	// RunMigrations applies the embedded migrations on startup.
	RunMigrations bool `mapstructure:"RUN_MIGRATIONS" yaml:"run_migrations"`
}

// URL returns a postgres:// connection URL suitable for pgxpool and golang-migrate.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address" validate:"required"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// SupabaseConfig holds the Supabase project used for auth tokens, the
// lost_found table and the storage buckets.
type SupabaseConfig struct {
	URL            string `mapstructure:"URL" yaml:"url" validate:"required,url"`
	AnonKey        string `mapstructure:"ANON_KEY" yaml:"anon_key"`
	ServiceKey     string `mapstructure:"SERVICE_KEY" yaml:"service_key" validate:"required"`
	JWTSecret      string `mapstructure:"JWT_SECRET" yaml:"jwt_secret" validate:"min=32"`
	LostFoundTable string `mapstructure:"LOST_FOUND_TABLE" yaml:"lost_found_table"`
	LostItemBucket string `mapstructure:"LOST_ITEM_BUCKET" yaml:"lost_item_bucket"`
	ProfileBucket  string `mapstructure:"PROFILE_BUCKET" yaml:"profile_bucket"`
	// BreakerFailures consecutive failures open the circuit for BreakerTimeoutSeconds.
	BreakerFailures       uint32 `mapstructure:"BREAKER_FAILURES" yaml:"breaker_failures"`
	BreakerTimeoutSeconds int    `mapstructure:"BREAKER_TIMEOUT_SECONDS" yaml:"breaker_timeout_seconds"`
}

// StorageConfig holds the S3-compatible bucket used for post and event images.
type StorageConfig struct {
	Enabled         bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Endpoint        string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket" validate:"required_if=Enabled true"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	// PublicBaseURL is prefixed to object keys to build the stored image URL.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL" yaml:"public_base_url" validate:"required_if=Enabled true"`
}

// UploadConfig bounds image uploads.
type UploadConfig struct {
	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES" yaml:"max_upload_bytes" validate:"gt=0"`
	MaxImageBytes  int   `mapstructure:"MAX_IMAGE_BYTES" yaml:"max_image_bytes" validate:"gt=0"`
	MaxDimension   int   `mapstructure:"MAX_DIMENSION" yaml:"max_dimension" validate:"gt=0"`
	MaxPixels      int   `mapstructure:"MAX_PIXELS" yaml:"max_pixels" validate:"gt=0"`
}

// EmailConfig holds configuration for notification e-mail copies.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"ENABLED" yaml:"enabled"`
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address" validate:"required_if=Enabled true"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
}

// EventServiceConfig holds configuration for the Redis pub/sub publisher.
type EventServiceConfig struct {
	PublishTimeoutSeconds   int `mapstructure:"PUBLISH_TIMEOUT_SECONDS" yaml:"publish_timeout_seconds" validate:"gt=0"`
	SubscribeTimeoutSeconds int `mapstructure:"SUBSCRIBE_TIMEOUT_SECONDS" yaml:"subscribe_timeout_seconds" validate:"gt=0"`
	EventBufferSize         int `mapstructure:"EVENT_BUFFER_SIZE" yaml:"event_buffer_size" validate:"gt=0"`
}

// RateLimitConfig holds configuration for the write endpoint rate limiter.
type RateLimitConfig struct {
	WriteRequestsPerMinute int `mapstructure:"WRITE_REQUESTS_PER_MINUTE" yaml:"write_requests_per_minute" validate:"gt=0"`
	WindowSeconds          int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds" validate:"gt=0"`
}

// WorkerPoolConfig holds configuration for the background worker pool.
type WorkerPoolConfig struct {
	MaxWorkers             int `mapstructure:"MAX_WORKERS" yaml:"max_workers" validate:"gt=0"`
	QueueSize              int `mapstructure:"QUEUE_SIZE" yaml:"queue_size" validate:"gt=0"`
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ReconcileConfig controls the periodic counter reconciliation.
type ReconcileConfig struct {
	Enabled         bool `mapstructure:"ENABLED" yaml:"enabled"`
	IntervalMinutes int  `mapstructure:"INTERVAL_MINUTES" yaml:"interval_minutes" validate:"gte=0,required_if=Enabled true"`
}

// Interval returns the reconciliation period.
func (c ReconcileConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Config aggregates all application configuration sections.
type Config struct {
	Server       ServerConfig       `mapstructure:"SERVER" yaml:"server"`
	Database     DatabaseConfig     `mapstructure:"DATABASE" yaml:"database"`
	Redis        RedisConfig        `mapstructure:"REDIS" yaml:"redis"`
	Supabase     SupabaseConfig     `mapstructure:"SUPABASE" yaml:"supabase"`
	Storage      StorageConfig      `mapstructure:"STORAGE" yaml:"storage"`
	Upload       UploadConfig       `mapstructure:"UPLOAD" yaml:"upload"`
	Email        EmailConfig        `mapstructure:"EMAIL" yaml:"email"`
	EventService EventServiceConfig `mapstructure:"EVENT_SERVICE" yaml:"event_service"`
	RateLimit    RateLimitConfig    `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	WorkerPool   WorkerPoolConfig   `mapstructure:"WORKER_POOL" yaml:"worker_pool"`
	Reconcile    ReconcileConfig    `mapstructure:"RECONCILE" yaml:"reconcile"`
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

var defaults = map[string]interface{}{
	"SERVER.ENVIRONMENT":     EnvDevelopment,
	"SERVER.PORT":            "8080",
	"SERVER.ALLOWED_ORIGINS": []string{"*"},
	"SERVER.TRUSTED_PROXIES": []string{},
	"SERVER.VERSION":         "dev",

	"DATABASE.HOST":            "localhost",
	"DATABASE.PORT":            5432,
	"DATABASE.USER":            "postgres",
	"DATABASE.PASSWORD":        "",
	"DATABASE.NAME":            "campus_dev",
	"DATABASE.SSL_MODE":        "disable",
	"DATABASE.MAX_CONNECTIONS": 10,
	"DATABASE.CONN_MAX_LIFE":   "1h",
	"DATABASE.RUN_MIGRATIONS":  true,

	"REDIS.ADDRESS":        "localhost:6379",
	"REDIS.PASSWORD":       "",
	"REDIS.DB":             0,
	"REDIS.USE_TLS":        false,
	"REDIS.POOL_SIZE":      5,
	"REDIS.MIN_IDLE_CONNS": 1,

	"SUPABASE.LOST_FOUND_TABLE":        "lost_found",
	"SUPABASE.LOST_ITEM_BUCKET":        "lost_items",
	"SUPABASE.PROFILE_BUCKET":          "user_profile",
	"SUPABASE.BREAKER_FAILURES":        5,
	"SUPABASE.BREAKER_TIMEOUT_SECONDS": 30,

	"STORAGE.ENABLED": false,
	"STORAGE.REGION":  "auto",

	"UPLOAD.MAX_UPLOAD_BYTES": 10 << 20,
	"UPLOAD.MAX_IMAGE_BYTES":  1 << 20,
	"UPLOAD.MAX_DIMENSION":    1920,
	"UPLOAD.MAX_PIXELS":       50_000_000,

	"EMAIL.ENABLED":   false,
	"EMAIL.FROM_NAME": "Campus Connect",

	"EVENT_SERVICE.PUBLISH_TIMEOUT_SECONDS":   5,
	"EVENT_SERVICE.SUBSCRIBE_TIMEOUT_SECONDS": 10,
	"EVENT_SERVICE.EVENT_BUFFER_SIZE":         100,

	"RATE_LIMIT.WRITE_REQUESTS_PER_MINUTE": 60,
	"RATE_LIMIT.WINDOW_SECONDS":            60,

	"WORKER_POOL.MAX_WORKERS":              4,
	"WORKER_POOL.QUEUE_SIZE":               500,
	"WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS": 30,

	"RECONCILE.ENABLED":          true,
	"RECONCILE.INTERVAL_MINUTES": 30,
}

// envAliases are the short variable names deployments use. Every key is also
// reachable as its dotted path with "_" separators, e.g. REDIS_POOL_SIZE.
var envAliases = map[string]string{
	"SERVER.PORT":            "PORT",
	"SERVER.ALLOWED_ORIGINS": "ALLOWED_ORIGINS",
	"SERVER.TRUSTED_PROXIES": "TRUSTED_PROXIES",
	"SERVER.VERSION":         "APP_VERSION",

	"DATABASE.HOST":           "DB_HOST",
	"DATABASE.PORT":           "DB_PORT",
	"DATABASE.USER":           "DB_USER",
	"DATABASE.PASSWORD":       "DB_PASSWORD",
	"DATABASE.NAME":           "DB_NAME",
	"DATABASE.SSL_MODE":       "DB_SSL_MODE",
	"DATABASE.RUN_MIGRATIONS": "DB_RUN_MIGRATIONS",

	"EMAIL.RESEND_API_KEY": "RESEND_API_KEY",
}

// LoadConfig reads, normalizes and validates the configuration.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	for _, key := range []string{"SUPABASE.URL", "SUPABASE.ANON_KEY", "SUPABASE.SERVICE_KEY", "SUPABASE.JWT_SECRET",
		"STORAGE.ENDPOINT", "STORAGE.BUCKET", "STORAGE.ACCESS_KEY_ID", "STORAGE.SECRET_ACCESS_KEY",
		"STORAGE.PUBLIC_BASE_URL", "EMAIL.FROM_ADDRESS"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	for key, env := range envAliases {
		if err := v.BindEnv(key, strings.ReplaceAll(key, ".", "_"), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	normalize(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logger.GetLogger().Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"database", logger.MaskConnectionString(cfg.Database.URL()),
		"storage", cfg.Storage.Enabled,
		"email", cfg.Email.Enabled,
		"reconcileEvery", cfg.Reconcile.Interval())
	return &cfg, nil
}

// normalize turns off features whose credentials are missing.
func normalize(cfg *Config) {
	log := logger.GetLogger()
	if cfg.Email.Enabled && cfg.Email.ResendAPIKey == "" {
		log.Warn("Resend API key not set, disabling notification e-mails")
		cfg.Email.Enabled = false
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is empty; relying on trusted auth")
	}
}

var configValidator = validator.New()

// fieldMessages gives readable errors for the checks operators hit most.
var fieldMessages = map[string]string{
	"Supabase.JWTSecret":    "supabase JWT secret must be at least 32 characters long",
	"Supabase.URL":          "supabase URL is required",
	"Supabase.ServiceKey":   "supabase service key is required",
	"Storage.Bucket":        "storage bucket is required when storage is enabled",
	"Storage.PublicBaseURL": "storage public base URL is required when storage is enabled",
	"Email.FromAddress":     "email from address is required when email is enabled",
}

func validateConfig(cfg *Config) error {
	if err := configValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			if msg, ok := fieldMessages[field]; ok {
				msgs = append(msgs, msg)
				continue
			}
			msgs = append(msgs, fmt.Sprintf("%s fails %q", field, fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}
	return nil
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
