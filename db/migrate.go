package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func newMigrator(dbURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, pgx5URL(dbURL))
	if err != nil {
		return nil, fmt.Errorf("connect migrator: %w", err)
	}
	return m, nil
}

// RunMigrations brings the schema to the newest embedded version. Running it
// against an up to date database does nothing.
func RunMigrations(dbURL string) error {
	log := logger.GetLogger()
	m, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := recoverDirty(m); err != nil {
		return err
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("Schema already current")
		return nil
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}
	if v, _, err := m.Version(); err == nil {
		log.Infow("Schema migrated", "version", v)
	}
	return nil
}

// recoverDirty rolls a half-applied version back to the one before it, so
// the next Up retries it. Version 1 is cleared entirely.
func recoverDirty(m *migrate.Migrate) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if !dirty {
		return nil
	}
	target := int(v) - 1
	if target < 1 {
		target = -1
	}
	logger.GetLogger().Warnw("Schema left dirty by a failed run, retrying", "dirtyVersion", v, "forceTo", target)
	if err := m.Force(target); err != nil {
		return fmt.Errorf("force schema version %d: %w", target, err)
	}
	return nil
}

// pgx5URL rewrites a postgres URL to the scheme registered by the pgx/v5
// migrate driver.
func pgx5URL(dbURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dbURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dbURL
}
