package repository

import (
	"context"
	"sync"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
)

// MemoryRepo keeps submissions in process memory. Used when no database is
// configured and in unit tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*submission.Submission
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*submission.Submission)}
}

func (m *MemoryRepo) Insert(_ context.Context, s *submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	s.ID = m.nextID
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MemoryRepo) UpdateEmailStatus(_ context.Context, id int64, sent bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	applyEmailStatus(s, sent, at)
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id int64) (*submission.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryRepo) DocumentKeyExists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.MortgageStatementKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

// Len returns the number of stored submissions.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
