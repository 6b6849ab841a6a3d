package book

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *PostgresRepo {
	db := testutil.OpenDB(t, "books")
	return NewPostgresRepo(db, 5*time.Second)
}

func TestPostgresRepo_CRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := &Book{ID: 5, Title: "Unlocking Android", ISBN: "1933988673", PageCount: 416, Authors: []string{"Robi Sen", "Charlie Collins"}}
	require.NoError(t, repo.Create(ctx, b))
	assert.False(t, b.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Robi Sen", "Charlie Collins"}, got.Authors)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())

	assert.ErrorIs(t, repo.Create(ctx, &Book{ID: 5}), ErrConflict)

	// Store-assigned IDs continue past explicit ones.
	fresh := &Book{Title: "Fresh"}
	require.NoError(t, repo.Create(ctx, fresh))
	assert.Greater(t, fresh.ID, 5)

	got.Title = "Unlocking Android, 2nd"
	got.Authors = nil
	require.NoError(t, repo.Update(ctx, &got))
	again, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Unlocking Android, 2nd", again.Title)
	assert.Equal(t, []string{}, again.Authors)

	assert.ErrorIs(t, repo.Update(ctx, &Book{ID: 999}), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, 5))
	assert.ErrorIs(t, repo.Delete(ctx, 5), ErrNotFound)
	_, err = repo.GetByID(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostgresRepo_ListPage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, &Book{ID: i, Title: "t"}))
	}

	books, err := repo.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ids(books))

	books, err = repo.ListPage(ctx, 10, 2)
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(all))
}

func TestPostgresRepo_InsertMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &Book{ID: 1, Title: "existing"}))

	existing, err := repo.ExistingIDs(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true}, existing)

	batch := []Book{
		{ID: 1, Title: "ignored", CreatedAt: now, UpdatedAt: now},
		{ID: 2, Title: "two", ISBN: NullISBN, Authors: []string{"A"}, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Title: "three", CreatedAt: now, UpdatedAt: now},
	}
	inserted, err := repo.InsertMissing(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// A second run over the same payload adds nothing.
	inserted, err = repo.InsertMissing(ctx, batch)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "existing", all[0].Title)
	assert.Equal(t, NullISBN, all[1].ISBN)
	assert.True(t, now.Equal(all[1].CreatedAt))
}

func TestPostgresRepo_SequenceNeverMovesBackwards(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batch := make([]Book, 10)
	for i := range batch {
		batch[i] = Book{ID: i + 1, Title: "synced"}
	}
	_, err := repo.InsertMissing(ctx, batch)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, 10))

	// A resync now sees MAX(id) = 9 but the sequence already handed out 10.
	_, err = repo.InsertMissing(ctx, []Book{{ID: 3, Title: "skipped"}})
	require.NoError(t, err)

	fresh := &Book{Title: "assigned"}
	require.NoError(t, repo.Create(ctx, fresh))
	assert.Equal(t, 11, fresh.ID)
}

func TestPostgresRepo_AssignedIDWaitsForExplicitInsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Stand in for a sync that is midway through its transaction.
	tx, err := repo.db.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, lockIDAllocationSQL, IDAllocationLock)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO books (id, title) SELECT g, 'synced' FROM generate_series(1, 400) g`)
	require.NoError(t, err)

	done := make(chan error, 1)
	fresh := &Book{Title: "assigned"}
	go func() { done <- repo.Create(ctx, fresh) }()

	select {
	case err := <-done:
		t.Fatalf("Create finished while the explicit insert was open: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	_, err = tx.Exec(ctx, syncIDSequenceSQL)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	require.NoError(t, <-done)
	assert.Equal(t, 401, fresh.ID)

	next := &Book{Title: "next"}
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, 402, next.ID)
}

func TestPostgresRepo_ConcurrentExplicitAndAssignedInserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const syncs, creates, perSync = 4, 20, 50

	var wg sync.WaitGroup
	errs := make(chan error, syncs+creates)
	for s := 0; s < syncs; s++ {
		batch := make([]Book, perSync)
		for i := range batch {
			batch[i] = Book{ID: s*perSync + i + 1, Title: fmt.Sprintf("sync %d", s)}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.InsertMissing(ctx, batch)
			errs <- err
		}()
	}
	for c := 0; c < creates; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &Book{Title: "assigned"})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, syncs*perSync+creates)
}
