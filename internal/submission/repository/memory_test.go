package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/config"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_InsertGetUpdate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	s := &submission.Submission{ClientEmail: "client@x.com", MortgageStatementKey: "submissions/1-abc123.pdf"}
	require.NoError(t, r.Insert(ctx, s))
	require.Equal(t, int64(1), s.ID)
	require.False(t, s.CreatedAt.IsZero())

	got, err := r.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, "client@x.com", got.ClientEmail)
	require.False(t, got.EmailSent)
	require.Nil(t, got.EmailSentAt)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.UpdateEmailStatus(ctx, s.ID, true, at))
	got, err = r.Get(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, got.EmailSent)
	require.NotNil(t, got.EmailSentAt)
	require.True(t, got.EmailSentAt.Equal(at))

	require.NoError(t, r.UpdateEmailStatus(ctx, s.ID, false, at))
	got, _ = r.Get(ctx, s.ID)
	require.False(t, got.EmailSent)
	require.Nil(t, got.EmailSentAt)

	ok, err := r.DocumentKeyExists(ctx, "submissions/1-abc123.pdf")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.DocumentKeyExists(ctx, "submissions/2-zzzzzz.pdf")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryRepo_NotFound(t *testing.T) {
	r := NewMemoryRepo()
	_, err := r.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.UpdateEmailStatus(context.Background(), 42, true, time.Now()), ErrNotFound)
}

func TestMemoryRepo_ConcurrentInsertUniqueIDs(t *testing.T) {
	r := NewMemoryRepo()
	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &submission.Submission{}
			if err := r.Insert(context.Background(), s); err == nil {
				ids <- s.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
}

func TestOpen_MemoryDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "memory"}}
	repo, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &MemoryRepo{}, repo)
	require.NoError(t, repo.Ping(context.Background()))
}
