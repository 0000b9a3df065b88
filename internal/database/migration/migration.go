package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_papers",
		SQL: `CREATE TABLE IF NOT EXISTS papers (
  id                   BIGSERIAL   PRIMARY KEY,
  owner_id             BIGINT      NOT NULL,
  teacher_id           BIGINT      NOT NULL,
  version              TEXT        NOT NULL,
  status               TEXT        NOT NULL,
  storage_key          TEXT        NOT NULL UNIQUE,
  size                 BIGINT      NOT NULL CHECK (size >= 0),
  detail               TEXT        NOT NULL DEFAULT '',
  submitted_by_id      BIGINT      NOT NULL,
  submitted_by_name    TEXT        NOT NULL,
  submitted_by_role    TEXT        NOT NULL,
  operated_by          TEXT        NOT NULL,
  operated_time        TIMESTAMPTZ NOT NULL,
  review_cycle_started BOOLEAN     NOT NULL DEFAULT false,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_paper_history",
		SQL: `CREATE TABLE IF NOT EXISTS paper_history (
  id                BIGSERIAL   PRIMARY KEY,
  paper_id          BIGINT      NOT NULL REFERENCES papers (id) ON DELETE CASCADE,
  version           TEXT        NOT NULL,
  size              BIGINT      NOT NULL CHECK (size >= 0),
  status            TEXT        NOT NULL,
  detail            TEXT        NOT NULL DEFAULT '',
  storage_key       TEXT        NOT NULL,
  submitted_by_id   BIGINT      NOT NULL,
  submitted_by_name TEXT        NOT NULL,
  submitted_by_role TEXT        NOT NULL,
  operated_by       TEXT        NOT NULL,
  operated_time     TIMESTAMPTZ NOT NULL,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_papers_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_owner_id ON papers (owner_id);`,
	},
	{
		Name: "create_index_papers_teacher_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_papers_teacher_id ON papers (teacher_id);`,
	},
	{
		Name: "create_index_paper_history_paper_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_paper_history_paper_created ON paper_history (paper_id, created_at DESC);`,
	},
}

// EnsureMigrated checks if the 'papers' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.papers') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
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

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
