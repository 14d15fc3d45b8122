package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each start.
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
	if err := migrateBackfillBacklogSequences(db); err != nil {
		return fmt.Errorf("backfilling backlog sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'USER'
		           CHECK(role IN ('USER','ADMIN','SUPERADMIN')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS spaces (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		methodology TEXT NOT NULL DEFAULT 'KANBAN'
		            CHECK(methodology IN ('KANBAN','SCRUM')),
		owner_id    TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`ALTER TABLE spaces ADD COLUMN git_repo_url TEXT`,

	`CREATE TABLE IF NOT EXISTS space_members (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		space_id   TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		scrum_role TEXT,
		joined_at  TEXT NOT NULL,
		UNIQUE(space_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS backlog_items (
		id              TEXT PRIMARY KEY,
		space_id        TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		description     TEXT,
		created_by_id   TEXT NOT NULL,
		assignee_id     TEXT,
		sequence_number INTEGER NOT NULL,
		position        INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		UNIQUE(space_id, sequence_number)
	)`,

	`CREATE TABLE IF NOT EXISTS backlog_sequences (
		space_id TEXT PRIMARY KEY REFERENCES spaces(id) ON DELETE CASCADE,
		next_seq INTEGER NOT NULL CHECK(next_seq >= 1)
	)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id         TEXT PRIMARY KEY,
		space_id   TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'PLANNING'
		           CHECK(status IN ('PLANNING','PLANNED','ACTIVE','COMPLETED')),
		goal       TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sprint_backlog_items (
		id              TEXT PRIMARY KEY,
		sprint_id       TEXT NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		backlog_item_id TEXT NOT NULL REFERENCES backlog_items(id) ON DELETE CASCADE,
		story_points    INTEGER,
		position        INTEGER NOT NULL DEFAULT 0,
		added_at        TEXT NOT NULL,
		UNIQUE(sprint_id, backlog_item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                     TEXT PRIMARY KEY,
		backlog_item_id        TEXT REFERENCES backlog_items(id) ON DELETE CASCADE,
		sprint_backlog_item_id TEXT REFERENCES sprint_backlog_items(id) ON DELETE CASCADE,
		assignee_id            TEXT,
		created_at             TEXT NOT NULL,
		CHECK((backlog_item_id IS NULL) <> (sprint_backlog_item_id IS NULL))
	)`,

	`CREATE TABLE IF NOT EXISTS columns (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		space_id   TEXT REFERENCES spaces(id) ON DELETE CASCADE,
		sprint_id  TEXT REFERENCES sprints(id) ON DELETE CASCADE,
		wip_limit  INTEGER CHECK(wip_limit IS NULL OR wip_limit >= 0),
		created_at TEXT NOT NULL,
		CHECK((space_id IS NULL) <> (sprint_id IS NULL))
	)`,

	`CREATE TABLE IF NOT EXISTS columns_tasks (
		task_id   TEXT PRIMARY KEY REFERENCES tasks(id) ON DELETE CASCADE,
		column_id TEXT NOT NULL REFERENCES columns(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL DEFAULT 0,
		moved_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		user_id    TEXT PRIMARY KEY,
		space_id   TEXT REFERENCES spaces(id) ON DELETE SET NULL,
		sprint_id  TEXT REFERENCES sprints(id) ON DELETE SET NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_space_members_user ON space_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_backlog_items_space ON backlog_items(space_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_space_status ON sprints(space_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_sprint_backlog_items_sprint ON sprint_backlog_items(sprint_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_backlog_item ON tasks(backlog_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_sprint_backlog_item ON tasks(sprint_backlog_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_columns_space ON columns(space_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_columns_sprint ON columns(sprint_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_columns_tasks_column ON columns_tasks(column_id, position)`,
}

// migrateBackfillBacklogSequences seeds allocator rows for spaces that already
// hold backlog items but predate the backlog_sequences table.
func migrateBackfillBacklogSequences(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO backlog_sequences (space_id, next_seq)
		SELECT space_id, MAX(sequence_number) + 1
		FROM backlog_items
		GROUP BY space_id`)
	if err != nil {
		return fmt.Errorf("seeding backlog_sequences: %w", err)
	}
	return nil
}
