package services

import (
	"context"
	"time"

	"github.com/campusconnect/campus-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const probeTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter exposes a circuit breaker state ("closed", "half-open", "open").
type BreakerReporter interface {
	BreakerState() string
}

// HealthService probes Postgres, Redis and the Supabase lost-and-found
// backend. Postgres is the only critical component.
type HealthService struct {
	db       Pinger
	redis    redis.Cmdable
	supabase BreakerReporter
	version  string
	started  time.Time
	log      *zap.Logger
}

// NewHealthService builds the service. redisClient and supabase may be nil.
func NewHealthService(db Pinger, redisClient redis.Cmdable, supabase BreakerReporter, version string, logger *zap.Logger) *HealthService {
	return &HealthService{
		db:       db,
		redis:    redisClient,
		supabase: supabase,
		version:  version,
		started:  time.Now(),
		log:      logger.Named("HealthService"),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := map[string]types.HealthComponent{
		"database": h.probe(ctx, "database", true, h.db.Ping),
	}
	if h.redis != nil {
		components["redis"] = h.probe(ctx, "redis", false, func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
	}
	if h.supabase != nil {
		components["supabase"] = breakerComponent(h.supabase.BreakerState())
	}

	return types.HealthCheck{
		Status:     types.RollupHealth(components),
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
	}
}

// IsReady reports whether Postgres answers.
func (h *HealthService) IsReady(ctx context.Context) bool {
	return h.probe(ctx, "database", true, h.db.Ping).Status == types.HealthStatusUp
}

func (h *HealthService) probe(ctx context.Context, name string, critical bool, ping func(context.Context) error) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	c := types.HealthComponent{
		Status:    types.HealthStatusUp,
		Critical:  critical,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		h.log.Warn("Health probe failed", zap.String("component", name), zap.Error(err))
		c.Status = types.HealthStatusDown
		c.Details = name + " unreachable"
	}
	return c
}

func breakerComponent(state string) types.HealthComponent {
	switch state {
	case "closed":
		return types.HealthComponent{Status: types.HealthStatusUp}
	case "half-open":
		return types.HealthComponent{Status: types.HealthStatusDegraded, Details: "circuit half-open"}
	default:
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "circuit " + state}
	}
}
