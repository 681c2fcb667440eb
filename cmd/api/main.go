package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ridelink/verify-api/internal/config"
	"github.com/ridelink/verify-api/internal/handler"
	"github.com/ridelink/verify-api/internal/infrastructure/identity"
	infraRedis "github.com/ridelink/verify-api/internal/infrastructure/redis"
	"github.com/ridelink/verify-api/internal/infrastructure/sms"
	"github.com/ridelink/verify-api/internal/repository"
	"github.com/ridelink/verify-api/internal/service/verification"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("Starting RideLink verification API...")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := infraRedis.NewClient(infraRedis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		slog.Error("Redis connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Redis connected")

	identityClient, err := identity.NewClient(cfg.Identity)
	if err != nil {
		slog.Error("Identity client init failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Identity client initialized", slog.String("issuer", cfg.Identity.TokenIssuer))

	userRepo := repository.NewUserRepository(db.Pool)
	auditRepo := repository.NewAuditRepository(db.Pool)

	smsClient := sms.NewTwilioClient(cfg.Twilio)

	verificationService := verification.NewService(cfg.Identity, redisClient, userRepo, auditRepo, smsClient, identityClient)
	slog.Info("Verification service initialized")

	healthHandler := handler.NewHealthHandler(db, redisClient)
	verificationHandler := handler.NewVerificationHandler(verificationService)

	router := handler.NewRouter(cfg, healthHandler, verificationHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server starting", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	srv.Shutdown(shutdownCtx)
	redisClient.Close()
	db.Close()
	slog.Info("Server stopped")
}
