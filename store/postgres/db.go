// Package postgres implements the store interfaces on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DB is the part of *pgxpool.Pool the stores use. pgxmock.PgxPoolIface satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is implemented by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// now is swapped in tests.
var now = time.Now

// driftLog is swapped in tests.
var driftLog = func() *zap.Logger { return logger.Named("Store") }

// logDrift records a row whose stored counter disagreed with what was served.
func logDrift(entity, id string, stored, served int) {
	driftLog().Warn("Patched counter drift on read",
		zap.String("entity", entity),
		zap.String("id", id),
		zap.Int("stored", stored),
		zap.Int("served", served))
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// rollback is deferred after Begin. It is a no-op once the tx has committed.
func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}
