package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", pgx5URL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h:5432/db", pgx5URL("postgresql://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://already", pgx5URL("pgx5://already"))
}

func TestMigrationsAreEmbeddedInPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
			ups++
		case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}
