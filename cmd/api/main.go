package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	authHandler "github.com/sovouthea1111/hr-system-api/internal/handler/auth"
	healthHandler "github.com/sovouthea1111/hr-system-api/internal/handler/health"
	leaveHandler "github.com/sovouthea1111/hr-system-api/internal/handler/leave"
	notificationHandler "github.com/sovouthea1111/hr-system-api/internal/handler/notification"

	"github.com/sovouthea1111/hr-system-api/internal/config"
	"github.com/sovouthea1111/hr-system-api/internal/middleware"
	"github.com/sovouthea1111/hr-system-api/internal/repository/postgres"
	"github.com/sovouthea1111/hr-system-api/internal/router"
	authService "github.com/sovouthea1111/hr-system-api/internal/service/auth"
	leaveService "github.com/sovouthea1111/hr-system-api/internal/service/leave"
	notificationService "github.com/sovouthea1111/hr-system-api/internal/service/notification"
	"github.com/sovouthea1111/hr-system-api/pkg/auth"
	"github.com/sovouthea1111/hr-system-api/pkg/logger"
	"github.com/sovouthea1111/hr-system-api/pkg/messaging/redis"
	"github.com/sovouthea1111/hr-system-api/pkg/metrics"
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

	appMetrics := metrics.NewMetrics("hr_system", "api")

	// Repositories
	baseRepo := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(baseRepo)
	leaveRepo := postgres.NewLeaveRepository(baseRepo)
	notificationRepo := postgres.NewNotificationRepository(baseRepo)
	deliveryRepo := postgres.NewDeliveryRepository(baseRepo)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, cfg.JWT.Issuer)
	authSvc := authService.NewService(userRepo, jwtSvc)
	leaveSvc := leaveService.NewService(leaveRepo, userRepo, notificationRepo, deliveryRepo, broker, appMetrics, appLogger)
	notificationSvc := notificationService.NewService(notificationRepo, leaveRepo, userRepo, appLogger)

	// Handlers
	authH := authHandler.NewHandler(authSvc)
	leaveH := leaveHandler.NewHandler(leaveSvc, userRepo)
	notificationH := notificationHandler.NewHandler(notificationSvc, leaveSvc, appMetrics)
	healthH := healthHandler.NewHandler(db)

	r := router.NewRouter(authSvc, authH, leaveH, notificationH, healthH, router.RouterConfig{
		RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
		RateBurst:     cfg.Server.RateLimitBurst,
		CORSConfig:    corsConfig(cfg),
		MetricsPrefix: "hr_system_http",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	return corsCfg
}
