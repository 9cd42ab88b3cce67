package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sovouthea1111/hr-system-api/internal/config"
	"github.com/sovouthea1111/hr-system-api/internal/email"
	"github.com/sovouthea1111/hr-system-api/internal/repository/postgres"
	cleanupWorker "github.com/sovouthea1111/hr-system-api/internal/worker"
	"github.com/sovouthea1111/hr-system-api/pkg/logger"
	"github.com/sovouthea1111/hr-system-api/pkg/messaging/redis"
	"github.com/sovouthea1111/hr-system-api/pkg/metrics"
	"github.com/sovouthea1111/hr-system-api/pkg/worker"
)

const (
	healthAddr           = ":8081"
	cleanupRetentionDays = 30
	cleanupInterval      = time.Hour
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.FromZerolog(log.Logger)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	baseRepo := postgres.NewBaseRepository(db)
	deliveryRepo := postgres.NewDeliveryRepository(baseRepo)

	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	dispatcher := worker.NewDispatcher(
		deliveryRepo,
		emailSvc,
		broker,
		worker.DispatcherConfig{
			BatchSize:     cfg.Worker.BatchSize,
			PollInterval:  cfg.Worker.PollInterval,
			RetryAttempts: cfg.Worker.RetryAttempts,
			RetryDelay:    cfg.Worker.RetryDelay,
		},
		appLogger,
		metrics.NewMetrics("hr_system", "worker"),
	)

	cleanup := cleanupWorker.NewCleanupWorker(deliveryRepo, cleanupRetentionDays, cleanupInterval, appLogger)

	setupHealthCheck(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	go cleanup.Start(ctx)
	dispatcher.Start(ctx)
}

func setupHealthCheck(l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(healthAddr, mux); err != nil {
			l.Fatal(err, "health check server failed")
		}
	}()
}
