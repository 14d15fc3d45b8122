package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"users", "spaces", "space_members", "backlog_items", "backlog_sequences",
		"sprints", "sprint_backlog_items", "tasks", "columns", "columns_tasks", "sessions",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_backlog_items_space",
		"idx_sprints_space_status",
		"idx_columns_space",
		"idx_columns_sprint",
		"idx_columns_tasks_column",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func seedSpace(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO spaces (id, name, methodology, owner_id, created_at)
		VALUES (?, 'S', 'KANBAN', 'u1', '2025-01-01T00:00:00Z')`, id)
	require.NoError(t, err)
}

func TestSchema_TaskRequiresExactlyOneLink(t *testing.T) {
	db := openTestDB(t)
	seedSpace(t, db, "s1")
	_, err := db.Exec(`INSERT INTO backlog_items (id, space_id, title, created_by_id, sequence_number, created_at)
		VALUES ('bi1', 's1', 'Story', 'u1', 1, '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tasks (id, created_at) VALUES ('t0', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "task without any link must be rejected")

	_, err = db.Exec(`INSERT INTO tasks (id, backlog_item_id, created_at) VALUES ('t1', 'bi1', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestSchema_ColumnRequiresExactlyOneOwner(t *testing.T) {
	db := openTestDB(t)
	seedSpace(t, db, "s1")

	_, err := db.Exec(`INSERT INTO columns (id, name, created_at) VALUES ('c0', 'Orphan', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO columns (id, name, space_id, created_at) VALUES ('c1', 'To Do', 's1', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_BackfillsBacklogSequences(t *testing.T) {
	db := openTestDB(t)
	seedSpace(t, db, "s1")
	_, err := db.Exec(`INSERT INTO backlog_items (id, space_id, title, created_by_id, sequence_number, created_at)
		VALUES ('bi7', 's1', 'Legacy', 'u1', 7, '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var next int
	require.NoError(t, db.QueryRow(`SELECT next_seq FROM backlog_sequences WHERE space_id = 's1'`).Scan(&next))
	assert.Equal(t, 8, next)
}
