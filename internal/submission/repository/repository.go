package repository

import (
	"context"
	"errors"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
)

var ErrNotFound = errors.New("submission not found")

// Repository persists submissions. Insert assigns ID, CreatedAt and UpdatedAt
// on the passed record.
type Repository interface {
	Insert(ctx context.Context, s *submission.Submission) error
	UpdateEmailStatus(ctx context.Context, id int64, sent bool, at time.Time) error
	Get(ctx context.Context, id int64) (*submission.Submission, error)
	DocumentKeyExists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

// applyEmailStatus sets the notification fields; the timestamp is only kept
// when the email actually went out.
func applyEmailStatus(s *submission.Submission, sent bool, at time.Time) {
	s.EmailSent = sent
	if sent {
		t := at
		s.EmailSentAt = &t
	} else {
		s.EmailSentAt = nil
	}
	s.UpdatedAt = at
}
