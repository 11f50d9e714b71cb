package repository

import (
	"context"
	"errors"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"gorm.io/gorm"
)

// GormRepo stores submissions in a relational database through gorm.
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo migrates the submissions table and returns the repository.
func NewGormRepo(db *gorm.DB) (*GormRepo, error) {
	if err := db.AutoMigrate(&submission.Submission{}); err != nil {
		return nil, err
	}
	return &GormRepo{db: db}, nil
}

func (g *GormRepo) Insert(ctx context.Context, s *submission.Submission) error {
	s.ID = 0
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *GormRepo) UpdateEmailStatus(ctx context.Context, id int64, sent bool, at time.Time) error {
	var sentAt *time.Time
	if sent {
		sentAt = &at
	}
	res := g.db.WithContext(ctx).
		Model(&submission.Submission{}).
		Where("id = ?", id).
		Updates(map[string]any{"email_sent": sent, "email_sent_at": sentAt, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormRepo) Get(ctx context.Context, id int64) (*submission.Submission, error) {
	var s submission.Submission
	if err := g.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (g *GormRepo) DocumentKeyExists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := g.db.WithContext(ctx).
		Model(&submission.Submission{}).
		Where("mortgage_statement_key = ?", key).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

func (g *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
