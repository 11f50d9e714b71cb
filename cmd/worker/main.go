package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/genevafi/healthcheck/backend/go-services/internal/config"
	"github.com/genevafi/healthcheck/backend/go-services/internal/jobs"
	"github.com/genevafi/healthcheck/backend/go-services/internal/storage"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/cleanup"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/repository"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	"github.com/hibiken/asynq"
)

func main() {
	once := flag.Bool("once", false, "run one orphan sweep and exit")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		logger.UseJSON(true)
	}
	if cfg.Storage.Endpoint == "" {
		logger.Fatalf("MINIO_ENDPOINT is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.RequireSharedDatabase(); err != nil {
		logger.Fatalf("%v", err)
	}

	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open persistence: %v", err)
	}
	defer closeRepo()

	store, err := storage.NewMinIOStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize object storage: %v", err)
	}
	sweeper := cleanup.NewSweeper(store, repo, cfg.Sweeper.Prefix, cfg.Sweeper.Grace)

	if *once {
		rep, err := sweeper.Run(ctx)
		if err != nil {
			logger.Fatalf("sweep failed: %v", err)
		}
		logger.Infof("sweep done: scanned=%d young=%d kept=%d removed=%d errors=%d",
			rep.Scanned, rep.Young, rep.Kept, rep.Removed, rep.Errors)
		return
	}

	addr := cfg.Redis.Addr()
	if addr == "" {
		logger.Fatalf("REDIS_HOST is required to run the scheduled worker (use -once without Redis)")
	}
	redisOpt := asynq.RedisClientOpt{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}

	scheduler := asynq.NewScheduler(redisOpt, nil)
	entryID, err := scheduler.Register(cfg.Sweeper.Cron, jobs.NewSweepOrphansTask(cfg.Sweeper.Lock))
	if err != nil {
		logger.Fatalf("failed to register sweep schedule %q: %v", cfg.Sweeper.Cron, err)
	}
	logger.Infof("scheduled %s (%s) entry=%s", jobs.TypeSweepOrphans, cfg.Sweeper.Cron, entryID)

	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 1})
	mux := asynq.NewServeMux()
	jobs.RegisterHandlers(mux, sweeper)

	if err := scheduler.Start(); err != nil {
		logger.Fatalf("scheduler start: %v", err)
	}
	if err := srv.Start(mux); err != nil {
		logger.Fatalf("worker start: %v", err)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
	scheduler.Shutdown()
	srv.Shutdown()
}
