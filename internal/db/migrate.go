package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS curriculum_nodes (
		section       TEXT NOT NULL,
		node_id       TEXT NOT NULL,
		level         TEXT NOT NULL
		              CHECK(level IN ('chapter','topic','subtopic')),
		parent_id     TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		ord           INTEGER NOT NULL DEFAULT 0,
		category      TEXT NOT NULL DEFAULT 'good'
		              CHECK(category IN ('must','good','nice')),
		foundational  INTEGER NOT NULL DEFAULT 0,
		estimated_min INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (section, node_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_curriculum_parent ON curriculum_nodes(section, parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_curriculum_level ON curriculum_nodes(level)`,

	`CREATE TABLE IF NOT EXISTS study_items (
		section       TEXT NOT NULL,
		item_id       TEXT NOT NULL,
		level         TEXT NOT NULL
		              CHECK(level IN ('chapter','topic','subtopic')),
		parent_id     TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL DEFAULT '',
		ord           INTEGER NOT NULL DEFAULT 0,
		category      TEXT NOT NULL DEFAULT 'good'
		              CHECK(category IN ('must','good','nice')),
		foundational  INTEGER NOT NULL DEFAULT 0,
		estimated_min INTEGER NOT NULL DEFAULT 0,
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (section, item_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_study_items_parent ON study_items(section, parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_study_items_level ON study_items(level)`,

	`CREATE TABLE IF NOT EXISTS queue_entries (
		seq           TEXT PRIMARY KEY,
		sort_key      INTEGER NOT NULL,
		section       TEXT NOT NULL,
		chapter_id    TEXT NOT NULL,
		chapter_name  TEXT NOT NULL,
		topic_id      TEXT NOT NULL,
		topic_name    TEXT NOT NULL,
		minutes       INTEGER NOT NULL DEFAULT 0,
		scheduled_min INTEGER NOT NULL DEFAULT 0,
		completed_min INTEGER NOT NULL DEFAULT 0,
		state         TEXT NOT NULL DEFAULT 'queued'
		              CHECK(state IN ('queued','in_progress','done','removed')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_queue_sort ON queue_entries(sort_key)`,
	`CREATE INDEX IF NOT EXISTS idx_queue_state ON queue_entries(state)`,

	`CREATE TABLE IF NOT EXISTS queue_subtopics (
		entry_seq TEXT NOT NULL REFERENCES queue_entries(seq) ON DELETE CASCADE,
		sub_idx   INTEGER NOT NULL,
		item_id   TEXT NOT NULL,
		name      TEXT NOT NULL,
		minutes   INTEGER NOT NULL,
		PRIMARY KEY (entry_seq, sub_idx)
	)`,

	// A subtopic index can be scheduled on at most one day: the primary key
	// is the addressing invariant.
	`CREATE TABLE IF NOT EXISTS queue_scheduled (
		entry_seq TEXT NOT NULL REFERENCES queue_entries(seq) ON DELETE CASCADE,
		sub_idx   INTEGER NOT NULL,
		day       TEXT NOT NULL,
		PRIMARY KEY (entry_seq, sub_idx)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_queue_scheduled_day ON queue_scheduled(day)`,

	`CREATE TABLE IF NOT EXISTS queue_completed (
		entry_seq TEXT NOT NULL REFERENCES queue_entries(seq) ON DELETE CASCADE,
		sub_idx   INTEGER NOT NULL,
		PRIMARY KEY (entry_seq, sub_idx)
	)`,

	`CREATE TABLE IF NOT EXISTS week_plans (
		week_key          TEXT PRIMARY KEY,
		default_daily_min INTEGER NOT NULL,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS week_days (
		week_key TEXT NOT NULL REFERENCES week_plans(week_key) ON DELETE CASCADE,
		day      TEXT NOT NULL,
		cap_min  INTEGER NOT NULL DEFAULT 0,
		off      INTEGER NOT NULL DEFAULT 0,
		done     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (week_key, day)
	)`,

	`CREATE TABLE IF NOT EXISTS slices (
		id               TEXT PRIMARY KEY,
		week_key         TEXT NOT NULL REFERENCES week_plans(week_key) ON DELETE CASCADE,
		day              TEXT NOT NULL,
		entry_seq        TEXT NOT NULL,
		topic_id         TEXT NOT NULL,
		sub_idx          INTEGER,
		sub_id           TEXT NOT NULL DEFAULT '',
		minutes          INTEGER NOT NULL,
		section          TEXT NOT NULL DEFAULT '',
		chapter_id       TEXT NOT NULL DEFAULT '',
		chapter_name     TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL DEFAULT '',
		completed        INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'scheduled'
		                 CHECK(status IN ('scheduled','completed')),
		completed_at     TEXT,
		percent_complete INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_slices_day ON slices(week_key, day)`,
	`CREATE INDEX IF NOT EXISTS idx_slices_entry ON slices(entry_seq)`,

	`CREATE TABLE IF NOT EXISTS plan_meta (
		id                  TEXT PRIMARY KEY DEFAULT 'default',
		start_date          TEXT NOT NULL DEFAULT '',
		exam_date           TEXT NOT NULL DEFAULT '',
		daily_min           INTEGER NOT NULL DEFAULT 120,
		current_day         TEXT NOT NULL DEFAULT '',
		has_completed_setup INTEGER NOT NULL DEFAULT 0,
		updated_at          TEXT NOT NULL DEFAULT ''
	)`,

	// Seed the single plan meta row
	`INSERT OR IGNORE INTO plan_meta (id, updated_at) VALUES ('default', '')`,
}
