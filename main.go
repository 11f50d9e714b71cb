package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/handlers"
	"github.com/genevafi/healthcheck/backend/go-services/internal/config"
	"github.com/genevafi/healthcheck/backend/go-services/internal/email"
	"github.com/genevafi/healthcheck/backend/go-services/internal/storage"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/handler"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/repository"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/service"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/metrics"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		logger.UseJSON(true)
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: driver=%s notify=%s storage=%v redis=%v admin=%v",
		cfg.Database.Driver, cfg.Notify.Mode, cfg.Storage.Endpoint != "", cfg.Redis.Addr() != "", cfg.Admin.APIKey != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open persistence: %v", err)
	}
	defer closeRepo()
	checks := map[string]handlers.Check{"database": repo.Ping}

	// store stays a nil interface when MinIO is not configured
	var store service.Storage
	if cfg.Storage.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		if err != nil {
			logger.Fatalf("failed to initialize object storage: %v", err)
		}
		store = st
		checks["storage"] = st.Ping
	} else {
		logger.Warn("MINIO_ENDPOINT not set; submissions with a mortgage statement will be rejected")
	}

	notifier, err := email.NewNotifier(cfg.Notify)
	if err != nil {
		logger.Fatalf("failed to initialize notifier: %v", err)
	}

	svc := service.New(repo, store, notifier, service.Options{
		Recipient:        cfg.Notify.Recipient,
		MaxDocumentBytes: cfg.Submission.MaxDocumentBytes,
		RecomputeTotal:   cfg.Submission.RecomputeTotal,
	})

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var createMW []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			createMW = append(createMW, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			createMW = append(createMW, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r := gin.New()
	r.Use(corsMiddleware(), middleware.RequestID(), middleware.RequestLogger(logger.Z()), gin.Recovery())

	handlers.RegisterHealth(r, checks)
	handlers.RegisterSwagger(r)
	handler.RegisterSubmissionRoutes(r, svc, handler.Options{
		MaxBodyBytes:     handler.BodyLimitFor(cfg.Submission.MaxDocumentBytes),
		AdminAPIKey:      cfg.Admin.APIKey,
		CreateMiddleware: createMW,
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting intake service on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}

// corsMiddleware lets the public form post from another origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.APIKeyHeader+", "+middleware.RequestIDHeader)
		h.Set("Access-Control-Expose-Headers", "Content-Length, "+middleware.RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
