package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"cookbook/internal/logging"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func events(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m["event"].(string))
	}
	return out
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS recipes").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_recipes_popularity").WillReturnResult(sqlmock.NewResult(0, 0))

		var buf bytes.Buffer
		err = EnsureSchema(ctx, db, logging.New(&buf, time.UTC), "db.local")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, []string{
			"db_migration_start",
			"db_migration_step",
			"db_migration_step",
			"db_migration_success",
		}, events(t, &buf))
	})

	t.Run("is safe to run twice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for i := 0; i < 2; i++ {
			mock.ExpectExec("CREATE TABLE IF NOT EXISTS recipes").WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec("CREATE INDEX IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		logger := logging.New(&bytes.Buffer{}, time.UTC)
		require.NoError(t, EnsureSchema(ctx, db, logger, "db.local"))
		require.NoError(t, EnsureSchema(ctx, db, logger, "db.local"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the failing step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS recipes").WillReturnError(errors.New("permission denied"))

		var buf bytes.Buffer
		err = EnsureSchema(ctx, db, logging.New(&buf, time.UTC), "db.local")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migration step create_table_recipes failed: permission denied")
		assert.NoError(t, mock.ExpectationsWereMet())

		got := events(t, &buf)
		assert.Equal(t, "db_migration_failed", got[len(got)-1])
		assert.Contains(t, buf.String(), `"level":"error"`)
	})
}
