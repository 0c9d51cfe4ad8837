package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/practice-scheduler/internal/db"
	"github.com/BruksfildServices01/practice-scheduler/internal/infra/checkout"
	infraRepo "github.com/BruksfildServices01/practice-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/practice-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/practice-scheduler/internal/infra/webhook"
	"github.com/BruksfildServices01/practice-scheduler/internal/jobs"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
	"github.com/BruksfildServices01/practice-scheduler/internal/reminder"
	"github.com/BruksfildServices01/practice-scheduler/internal/routes"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
	ucPayment "github.com/BruksfildServices01/practice-scheduler/internal/usecase/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet
		logging.New(os.Stderr, "error").Error("config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	timezone.SetDefault(cfg.DefaultTimezone)

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Error("database", "error", err)
		os.Exit(1)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Logger: logger,
		Audit:  auditDispatcher,
	}

	// ======================================================
	// INTEGRAÇÕES OPCIONAIS
	// ======================================================
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("redis url", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, submit guard will fail open", "error", err)
		}
		cancel()

		deps.Locker = rdb
	}

	mp, err := checkout.NewMercadoPago(cfg.MercadoPagoToken, cfg.CheckoutNotification)
	if err != nil {
		logger.Error("mercadopago", "error", err)
		os.Exit(1)
	}
	if mp != nil {
		deps.Checkout = mp
	}

	if s3 := storage.NewS3(cfg.Storage); s3 != nil {
		deps.Storage = s3
	}

	gateway := webhook.New(cfg.MessagingHook, cfg.MessagingToken)
	deps.Messaging = gateway

	logger.Info("integrations",
		"redis", deps.Locker != nil,
		"checkout", deps.Checkout != nil,
		"storage", deps.Storage != nil,
		"messaging", gateway.Enabled(),
	)

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := jobs.NewScheduler(logger, 5*time.Minute)

	sweep := ucPayment.NewSweepOverdue(infraRepo.NewPaymentGormRepository(db), nil)
	if err := scheduler.Add(cfg.OverdueCron, "overdue_sweep", func(ctx context.Context) (int, error) {
		n, err := sweep.Execute(ctx)
		return int(n), err
	}); err != nil {
		logger.Error("invalid OVERDUE_CRON", "spec", cfg.OverdueCron, "error", err)
		os.Exit(1)
	}

	if gateway.Enabled() {
		worker := reminder.NewWorker(infraRepo.NewReminderGormStore(db), gateway, cfg.ReminderLead)
		if err := scheduler.Add(cfg.ReminderCron, "reminders", worker.Run); err != nil {
			logger.Error("invalid REMINDER_CRON", "spec", cfg.ReminderCron, "error", err)
			os.Exit(1)
		}
	}

	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	scheduler.Stop(ctx)

	if err := auditDispatcher.Close(ctx); err != nil {
		logger.Warn("audit queue not drained", "error", err)
	}

	if rdb != nil {
		_ = rdb.Close()
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server exited")
}
