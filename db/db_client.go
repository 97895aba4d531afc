// Package db owns the PostgreSQL connection pool and the embedded schema migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// NewPool builds a pgxpool from the database config and waits until the
// database answers a ping, retrying a few times for slow container starts.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	log := logger.GetLogger()

	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.ConnMaxLife != "" {
		life, err := time.ParseDuration(cfg.ConnMaxLife)
		if err != nil {
			return nil, fmt.Errorf("invalid CONN_MAX_LIFE %q: %w", cfg.ConnMaxLife, err)
		}
		poolCfg.MaxConnLifetime = life
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			pool.Close()
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempt, err)
		}
		log.Warnw("Database ping failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(connectBackoff * time.Duration(attempt)):
		}
	}

	log.Infow("Connected to database",
		"url", logger.MaskConnectionString(cfg.URL()),
		"maxConns", poolCfg.MaxConns)
	return pool, nil
}
