package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cookbook/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// Every step is idempotent so the whole list runs on each startup.
var steps = []migrationStep{
	{
		Name: "create_table_recipes",
		SQL: `CREATE TABLE IF NOT EXISTS recipes (
  id           BIGSERIAL PRIMARY KEY,
  title        TEXT      NOT NULL CHECK (btrim(title) <> ''),
  views        INTEGER   NOT NULL DEFAULT 0 CHECK (views >= 0),
  cooking_time INTEGER   NOT NULL,
  ingredients  TEXT      NOT NULL,
  instructions TEXT      NOT NULL
);`,
	},
	{
		Name: "create_index_recipes_popularity",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_recipes_popularity ON recipes (views DESC, cooking_time ASC);`,
	},
}

// EnsureSchema creates the recipes table and its indexes when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *logging.Logger, dbHost string) error {
	start := time.Now()

	logger.Log(map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
		"steps":     len(steps),
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Log(map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Log(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logger.Log(map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
