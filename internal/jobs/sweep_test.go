package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/cleanup"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) Run(context.Context) (cleanup.Report, error) {
	f.calls++
	return cleanup.Report{Scanned: 3, Removed: 1}, f.err
}

func TestNewSweepOrphansTask(t *testing.T) {
	task := NewSweepOrphansTask(0)
	require.Equal(t, TypeSweepOrphans, task.Type())
	require.Empty(t, task.Payload())
}

func TestHandleSweepOrphans(t *testing.T) {
	sw := &fakeSweeper{}
	mux := asynq.NewServeMux()
	RegisterHandlers(mux, sw)

	require.NoError(t, mux.ProcessTask(context.Background(), NewSweepOrphansTask(time.Minute)))
	require.Equal(t, 1, sw.calls)

	sw.err = errors.New("list failed")
	require.Error(t, mux.ProcessTask(context.Background(), NewSweepOrphansTask(time.Minute)))
	require.Equal(t, 2, sw.calls)
}

func TestSweepOrphansTask_ReenqueueAfterArchive(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	opt := asynq.RedisClientOpt{Addr: m.Addr()}
	client := asynq.NewClient(opt)
	defer client.Close()
	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	info, err := client.Enqueue(NewSweepOrphansTask(time.Minute))
	require.NoError(t, err)

	// a second sweep is refused while the first one still holds the lock
	_, err = client.Enqueue(NewSweepOrphansTask(time.Minute))
	require.ErrorIs(t, err, asynq.ErrDuplicateTask)

	require.NoError(t, inspector.ArchiveTask(info.Queue, info.ID))

	m.FastForward(time.Minute + time.Second)
	_, err = client.Enqueue(NewSweepOrphansTask(time.Minute))
	require.NoError(t, err)
}
