package repository

import (
	"context"
	"fmt"

	"github.com/genevafi/healthcheck/backend/go-services/internal/config"
	"github.com/genevafi/healthcheck/backend/go-services/internal/database"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
)

const mongoConnectAttempts = 5

// Open returns the repository selected by DATABASE_DRIVER and a func that
// releases its connections.
func Open(ctx context.Context, cfg *config.Config) (Repository, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.OpenPostgres(cfg.Database, cfg.Server.Environment == "development")
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewGormRepo(db)
		if err != nil {
			return nil, nil, fmt.Errorf("migrate submissions: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		logger.Infof("persistence: postgres")
		return repo, closeFn, nil
	case "mongo":
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB, mongoConnectAttempts)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		logger.Infof("persistence: mongodb database=%s", cfg.MongoDB.Database)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		logger.Warn("persistence: in-memory store, submissions are lost on restart")
		return NewMemoryRepo(), func() {}, nil
	}
}
