package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
)

// SQLiteBacklogSequenceRepo allocates per-space backlog sequence numbers
// atomically using the backlog_sequences table.
type SQLiteBacklogSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteBacklogSequenceRepo creates a new SQLiteBacklogSequenceRepo.
func NewSQLiteBacklogSequenceRepo(conn db.DBTX) *SQLiteBacklogSequenceRepo {
	return &SQLiteBacklogSequenceRepo{db: conn}
}

// NextSequence returns the next "#N" for a space. The first call for a space
// seeds the allocator from the highest existing sequence number.
func (r *SQLiteBacklogSequenceRepo) NextSequence(ctx context.Context, spaceID string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO backlog_sequences (space_id, next_seq)
		SELECT ?, COALESCE(MAX(sequence_number), 0) + 1
		FROM backlog_items WHERE space_id = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, spaceID, spaceID); err != nil {
		return 0, fmt.Errorf("seeding backlog sequence for %s: %w", spaceID, err)
	}

	var next int
	allocQuery := `UPDATE backlog_sequences
		SET next_seq = next_seq + 1
		WHERE space_id = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, spaceID).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next sequence for space %s: %w", spaceID, err)
	}

	return next, nil
}
