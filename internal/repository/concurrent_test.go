package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory
// so the test exercises WAL mode and the real pool settings.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_SequenceAllocation checks that backlog items created
// from many goroutines still receive distinct, gap-free sequence numbers.
func TestConcurrentAccess_SequenceAllocation(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)

	owner, space := seedSpace(t, ctx, database)

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					seq, err := NewSQLiteBacklogSequenceRepo(tx).NextSequence(ctx, space.ID)
					if err != nil {
						return err
					}
					item := testutil.NewTestBacklogItem(space.ID, owner.ID, fmt.Sprintf("w%d-%d", worker, i), seq)
					return NewSQLiteBacklogItemRepo(tx).Create(ctx, item)
				})
				if err != nil {
					t.Errorf("worker %d: create item %d: %v", worker, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	items, err := NewSQLiteBacklogItemRepo(database).ListBySpace(ctx, space.ID)
	require.NoError(t, err)
	require.Len(t, items, workers*perWorker)

	seqs := make([]int, 0, len(items))
	for _, it := range items {
		seqs = append(seqs, it.Sequence)
	}
	sort.Ints(seqs)
	for i, s := range seqs {
		assert.Equal(t, i+1, s)
	}
}

// TestConcurrentAccess_ReadDuringWrite runs board reads while a writer keeps
// moving tasks between columns.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	owner, space := seedSpace(t, ctx, database)
	colRepo := NewSQLiteColumnRepo(database)
	todo := testutil.NewTestColumn(space.ID, "Todo", 0)
	done := testutil.NewTestColumn(space.ID, "Done", 1)
	require.NoError(t, colRepo.Create(ctx, todo))
	require.NoError(t, colRepo.Create(ctx, done))

	item := testutil.NewTestBacklogItem(space.ID, owner.ID, "Story", 1)
	require.NoError(t, NewSQLiteBacklogItemRepo(database).Create(ctx, item))
	task := testutil.NewTestTask(item.ID)
	require.NoError(t, NewSQLiteTaskRepo(database).Create(ctx, task))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			target := todo.ID
			if i%2 == 1 {
				target = done.ID
			}
			move := domain.ColumnTask{TaskID: task.ID, ColumnID: target, Position: i, MovedAt: time.Now().UTC()}
			if err := colRepo.MoveTask(ctx, move); err != nil {
				t.Errorf("writer: move %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				var mappings int
				err := database.QueryRowContext(ctx,
					`SELECT COUNT(*) FROM columns_tasks WHERE task_id = ?`, task.ID).Scan(&mappings)
				if err != nil {
					t.Errorf("reader %d: count mappings: %v", reader, err)
					return
				}
				if mappings > 1 {
					t.Errorf("reader %d: task mapped %d times", reader, mappings)
					return
				}
			}
		}(r)
	}
	wg.Wait()

	placement, err := NewSQLiteTaskRepo(database).GetPlacement(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, done.ID, placement.ColumnID)
}
