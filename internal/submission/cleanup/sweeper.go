package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/storage"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/metrics"
)

// ObjectStore lists and deletes stored documents.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

// References answers whether a submission points at a stored document.
type References interface {
	DocumentKeyExists(ctx context.Context, key string) (bool, error)
}

// Sweeper removes uploaded documents that no submission references, which
// happens when the insert after an upload fails and the inline remove fails too.
type Sweeper struct {
	store  ObjectStore
	refs   References
	prefix string
	grace  time.Duration
	now    func() time.Time
}

// Report summarises one sweep.
type Report struct {
	Scanned int
	Young   int
	Kept    int
	Removed int
	Errors  int
}

// NewSweeper builds a sweeper. Objects younger than grace are never touched so
// an in-flight submission is not raced.
func NewSweeper(store ObjectStore, refs References, prefix string, grace time.Duration) *Sweeper {
	return &Sweeper{store: store, refs: refs, prefix: prefix, grace: grace, now: time.Now}
}

func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	var rep Report
	objects, err := s.store.List(ctx, s.prefix)
	if err != nil {
		return rep, fmt.Errorf("list %s: %w", s.prefix, err)
	}
	cutoff := s.now().Add(-s.grace)
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Scanned++
		if obj.LastModified.After(cutoff) {
			rep.Young++
			continue
		}
		ok, err := s.refs.DocumentKeyExists(ctx, obj.Key)
		if err != nil {
			rep.Errors++
			logger.Warnf("sweeper: lookup %s: %v", obj.Key, err)
			continue
		}
		if ok {
			rep.Kept++
			continue
		}
		if err := s.store.Remove(ctx, obj.Key); err != nil {
			rep.Errors++
			logger.Warnf("sweeper: remove %s: %v", obj.Key, err)
			continue
		}
		rep.Removed++
		metrics.OrphansRemoved.Inc()
		logger.Infof("sweeper: removed orphan %s (%d bytes)", obj.Key, obj.Size)
	}
	return rep, nil
}
