package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/email"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/repository"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/metrics"
)

// Failure stage codes reported to clients alongside the generic message.
const (
	StageUpload       = "upload_failed"
	StagePersist      = "persist_failed"
	StageStatusUpdate = "status_update_failed"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrStorageDisabled = errors.New("object storage is not configured")
)

// StageError reports which downstream call aborted a create.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// Storage is the part of the object store the service writes to.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

type Options struct {
	// Recipient receives every submission summary.
	Recipient        string
	MaxDocumentBytes int64
	RecomputeTotal   bool

	Now       func() time.Time
	NewSuffix func() string
}

// Service runs the submission create procedure.
type Service struct {
	repo     repository.Repository
	store    Storage
	notifier email.Notifier
	opts     Options
}

// New wires the service. store may be nil, in which case submissions that
// carry a document fail at the upload stage.
func New(repo repository.Repository, store Storage, notifier email.Notifier, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewSuffix == nil {
		opts.NewSuffix = submission.RandomSuffix
	}
	return &Service{repo: repo, store: store, notifier: notifier, opts: opts}
}

// Create validates the document, uploads it, inserts the record, notifies the
// loan officer and records whether that worked. Only a validation problem or
// a failed upload, insert or status update returns an error.
func (s *Service) Create(ctx context.Context, req *submission.CreateRequest) (*submission.Result, error) {
	start := time.Now()
	defer func() { metrics.SubmissionDuration.Observe(time.Since(start).Seconds()) }()

	var doc []byte
	if req.HasDocument() {
		var err error
		doc, err = submission.DecodeDocument(req.MortgageStatementData)
		if err != nil {
			return nil, s.invalid(submission.NewValidationError("mortgageStatementData", "must be base64 encoded"))
		}
		if limit := s.opts.MaxDocumentBytes; limit > 0 && int64(len(doc)) > limit {
			return nil, s.invalid(submission.NewValidationError("mortgageStatementData",
				fmt.Sprintf("must not exceed %d bytes", limit)))
		}
	}

	rec := req.ToSubmission()
	if s.opts.RecomputeTotal {
		total := submission.SumAmounts(req.DebtComponents()...)
		if !submission.SameAmount(total, rec.TotalMonthlyDebt) {
			logger.Warnf("submission: client total %q differs from computed %q for %s", rec.TotalMonthlyDebt, total, rec.ClientEmail)
		}
		rec.TotalMonthlyDebt = total
	}

	if doc != nil {
		if s.store == nil {
			return nil, s.fail(StageUpload, ErrStorageDisabled)
		}
		key := submission.DocumentKey(s.opts.Now(), s.opts.NewSuffix(), req.MortgageStatementFilename)
		url, err := s.store.Put(ctx, key, doc, req.DocumentMimeType())
		if err != nil {
			return nil, s.fail(StageUpload, fmt.Errorf("put %s: %w", key, err))
		}
		metrics.DocumentUploadBytes.Observe(float64(len(doc)))
		rec.MortgageStatementURL = url
		rec.MortgageStatementKey = key
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		if rec.MortgageStatementKey != "" {
			if rmErr := s.store.Remove(context.WithoutCancel(ctx), rec.MortgageStatementKey); rmErr != nil {
				logger.Warnf("submission: could not remove %s after failed insert: %v", rec.MortgageStatementKey, rmErr)
			}
		}
		return nil, s.fail(StagePersist, err)
	}

	sent := s.notify(ctx, rec)

	if err := s.repo.UpdateEmailStatus(ctx, rec.ID, sent, s.opts.Now()); err != nil {
		return nil, s.fail(StageStatusUpdate, fmt.Errorf("submission %d: %w", rec.ID, err))
	}

	metrics.Submissions.WithLabelValues("success").Inc()
	logger.Infof("submission %d created (document=%t emailSent=%t)", rec.ID, rec.MortgageStatementKey != "", sent)
	return &submission.Result{Success: true, SubmissionID: rec.ID, EmailSent: sent}, nil
}

// notify never fails the request; every problem, including a panic in the
// transport, reads as "not sent".
func (s *Service) notify(ctx context.Context, rec *submission.Submission) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("submission %d: notifier panic: %v", rec.ID, r)
			sent = false
		}
		result := "failed"
		if sent {
			result = "sent"
		}
		metrics.Notifications.WithLabelValues(result).Inc()
	}()

	if s.notifier == nil {
		logger.Warnf("submission %d: no notifier configured", rec.ID)
		return false
	}
	html, err := email.Format(email.DataFromSubmission(rec), s.opts.Now())
	if err != nil {
		logger.Errorf("submission %d: %v", rec.ID, err)
		return false
	}
	if err := s.notifier.Send(ctx, s.opts.Recipient, email.Subject(rec.ClientEmail), html); err != nil {
		logger.Errorf("submission %d: send email: %v", rec.ID, err)
		return false
	}
	return true
}

// Get returns a stored submission.
func (s *Service) Get(ctx context.Context, id int64) (*submission.Submission, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) invalid(err *submission.ValidationError) error {
	metrics.Submissions.WithLabelValues("validation_error").Inc()
	return err
}

func (s *Service) fail(stage string, err error) error {
	metrics.Submissions.WithLabelValues(stage).Inc()
	logger.Errorf("submission: %s: %v", stage, err)
	return &StageError{Stage: stage, Err: err}
}
