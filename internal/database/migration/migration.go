package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"paperhub/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_papers",
		SQL: `CREATE TABLE IF NOT EXISTS papers (
  seq               BIGSERIAL   NOT NULL,
  id                TEXT        PRIMARY KEY,
  title             TEXT        NOT NULL,
  subject           TEXT        NOT NULL,
  year              TEXT        NOT NULL,
  semester          TEXT        NOT NULL,
  university        TEXT        NOT NULL,
  stored_filename   TEXT        NOT NULL UNIQUE,
  original_filename TEXT        NOT NULL,
  mime_type         TEXT        NOT NULL,
  size_bytes        BIGINT      NOT NULL CHECK (size_bytes >= 0),
  uploaded_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  download_count    BIGINT      NOT NULL DEFAULT 0 CHECK (download_count >= 0)
);`,
	},
	{
		Name: "create_index_papers_seq",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_papers_seq ON papers (seq);`,
	},
	{
		Name: "create_index_papers_subject",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_subject ON papers (lower(subject));`,
	},
	{
		Name: "create_index_papers_year",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_year ON papers (year);`,
	},
}

// EnsureMigrated checks if the 'papers' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()

	log.Info("", map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.papers') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		log.Error("", err, map[string]any{
			"component":   "database",
			"event":       "db_migration_failed",
			"status":      "error",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration", map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Info("", map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("", err, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("", map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("", map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
