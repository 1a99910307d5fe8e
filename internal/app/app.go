package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sampleapp/internal/config"
	"sampleapp/internal/logger"
)

type App struct {
	httpServer *http.Server
	stack      *httpStack
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	stack, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           stack.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		httpServer: server,
		stack:      stack,
	}, nil
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (a *App) Run() error {
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. The
// refreshes those requests queued are then written before the store
// connections close.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)

	logger.Info("draining session refreshes", map[string]any{
		"pending": a.stack.refresher.Pending(),
	})

	return errors.Join(err, a.stack.close(ctx))
}
