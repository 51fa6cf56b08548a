package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkpress/blog-engine/internal/config"
	"github.com/inkpress/blog-engine/internal/db"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/metrics"
	"github.com/inkpress/blog-engine/internal/projector"
	"github.com/inkpress/blog-engine/internal/repository"
)

// The subscriber is the read side of the notification pipeline: it consumes
// events published by the API process and projects them into the feed table.
// It shares the database and Redis with the API but runs as its own process,
// so a slow projection never adds latency to a write request.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	proj := projector.New(
		repository.NewPgNotificationRepository(pool),
		repository.NewPgUserRepository(pool),
		repository.NewPgBlogRepository(pool),
		logger,
		m.ProjectorHooks(),
	)
	channel := events.NewRedisChannel(rdb, logger)

	// Consumer context; cancelled on shutdown signal.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// One subscription loop per event kind. Subscribe blocks until the
	// context is cancelled, so the group only drains on shutdown or on a
	// subscription that could not be established.
	g, gCtx := errgroup.WithContext(runCtx)
	for _, kind := range []domain.EventKind{
		domain.EventContentPublished,
		domain.EventCommentCreated,
		domain.EventReplyCreated,
		domain.EventUserSignedUp,
	} {
		kind := kind
		g.Go(func() error {
			logger.Info("subscribing", zap.String("kind", string(kind)))
			return channel.Subscribe(gCtx, kind, proj.Handle)
		})
	}

	// Metrics and liveness listener.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	srv := &http.Server{Addr: ":" + cfg.SubscriberPort, Handler: mux}
	go func() {
		logger.Info("subscriber metrics listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case <-gCtx.Done():
		logger.Error("subscription loop exited early")
	}

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("subscriber stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", zap.Error(err))
	}

	logger.Info("subscriber stopped cleanly")
}
