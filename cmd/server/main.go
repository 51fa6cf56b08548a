package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/api"
	"github.com/inkpress/blog-engine/internal/background"
	"github.com/inkpress/blog-engine/internal/cache"
	"github.com/inkpress/blog-engine/internal/config"
	"github.com/inkpress/blog-engine/internal/db"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/listing"
	"github.com/inkpress/blog-engine/internal/mailer"
	"github.com/inkpress/blog-engine/internal/metrics"
	"github.com/inkpress/blog-engine/internal/repository"
	"github.com/inkpress/blog-engine/internal/service"
	"github.com/inkpress/blog-engine/internal/subscription"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- redis ----
	rdb, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	blogRepo := repository.NewPgBlogRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)
	notifRepo := repository.NewPgNotificationRepository(pool)

	gateway := listing.NewGateway(cache.NewRedisStore(rdb), cfg.CacheTTL, logger, m.GatewayHooks())
	channel := events.NewRedisChannel(rdb, logger)
	resolver := subscription.NewResolver(userRepo, logger)

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})
	if !sender.Configured() {
		logger.Warn("SMTP not configured, outgoing mail disabled")
	}
	dispatcher := mailer.NewBulkDispatcher(sender, cfg.MailConcurrency, cfg.MailRatePerSec, logger, m.MailHooks())

	tasks := background.NewRunner(logger)

	onPublished, onFailed := m.EventHooks()
	publishHooks := service.PublishHooks{OnPublished: onPublished, OnFailed: onFailed}

	blogSvc := service.NewBlogService(blogRepo, userRepo, gateway, channel, resolver, dispatcher, tasks, cfg.ClientURL, logger, publishHooks)
	commentSvc := service.NewCommentService(commentRepo, blogRepo, userRepo, channel, logger, publishHooks)
	userSvc := service.NewUserService(userRepo, channel, dispatcher, tasks, logger, publishHooks)
	notifSvc := service.NewNotificationService(notifRepo, userRepo, cfg.FeedPageSize)

	// ---- HTTP server ----
	router := api.NewRouter(api.Services{
		Blogs:         blogSvc,
		Comments:      commentSvc,
		Users:         userSvc,
		Notifications: notifSvc,
	}, reg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Wait for detached tasks (mail fan-outs) still in flight.
	tasks.Wait()

	logger.Info("server stopped cleanly")
}
