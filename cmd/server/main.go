package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sampleapp/internal/app"
	"sampleapp/internal/config"
	"sampleapp/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Init(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Run()
	}()

	logger.Info("sampleapp listening", startupFields(cfg))

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	case err := <-serverErr:
		if err != nil {
			logger.Error("http server failed", map[string]any{
				"error": err.Error(),
			})
			exitCode = 1
		}
	}

	// A second signal during the drain kills the process.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
		exitCode = 1
	}
	cancel()

	logger.Info("sampleapp stopped", map[string]any{
		"exit_code": exitCode,
	})
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func startupFields(cfg config.Config) map[string]any {
	throttle := "memory"
	if cfg.RedisAddr != "" {
		throttle = "redis"
	}

	fields := map[string]any{
		"port":             cfg.AppPort,
		"store":            cfg.StoreDriver,
		"session_ttl":      cfg.SessionTTL.String(),
		"session_header":   cfg.SessionHeader,
		"login_throttle":   throttle,
		"refresh_workers":  cfg.RefreshWorkers,
		"refresh_capacity": cfg.RefreshQueueSize,
	}
	if cfg.StoreDriver == config.StoreDriverMongo {
		fields["mongo_database"] = cfg.MongoDatabase
	}
	return fields
}
