package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sampleapp/internal/api"
	"sampleapp/internal/auth/credentials"
	"sampleapp/internal/auth/handler"
	"sampleapp/internal/config"
	"sampleapp/internal/logger"
	"sampleapp/internal/metrics"
	"sampleapp/internal/middleware"
	"sampleapp/internal/session"
)

// httpStack is everything setupHTTP builds that must be released on
// shutdown.
type httpStack struct {
	router    *gin.Engine
	refresher *session.Refresher
	infra     *Infra
}

// close drains pending refreshes before the store goes away.
func (s *httpStack) close(ctx context.Context) error {
	s.refresher.Stop()
	return s.infra.Close(ctx)
}

func setupHTTP(ctx context.Context, cfg config.Config) (*httpStack, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	refresher := session.NewRefresher(infra.Store, session.RefresherConfig{
		Workers:   cfg.RefreshWorkers,
		QueueSize: cfg.RefreshQueueSize,
		Timeout:   cfg.RefreshTimeout,
		OnFailure: func(userID string, err error) {
			collector.RecordRefreshFailure()
			logger.Warn("session refresh failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		},
	})
	refresher.Start()

	validator := session.NewValidator(infra.Store, refresher, cfg.SessionTTL)

	authMiddleware := middleware.NewAuthMiddleware(
		middleware.DefaultRoutes(),
		validator,
		cfg.SessionHeader,
	)
	authMiddleware.OnOutcome = collector.RecordAuthOutcome

	accounts := credentials.NewService(infra.Store, credentials.NewHasher(cfg.BcryptCost))
	authHandler := handler.NewHandler(accounts, infra.Store, infra.Limiter, cfg.SessionTTL).
		WithRecorder(collector)
	apiHandler := api.NewHandler(cfg.AppPort, infra.Store, infra.Store)

	// ----------------------------
	// Router
	// ----------------------------

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		refresher.Stop()
		_ = infra.Close(context.Background())
		return nil, err
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(collector),
	)
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg)))
	}

	// Every request, matched or not, passes the gate; the route table
	// decides which ones need a session.
	router.Use(middleware.GinRequireAuth(authMiddleware))

	// ----------------------------
	// Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)
	apiHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	for _, route := range router.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	return &httpStack{
		router:    router,
		refresher: refresher,
		infra:     infra,
	}, nil
}

func corsConfig(cfg config.Config) cors.Config {
	return cors.Config{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			middleware.RequestIDHeader,
			cfg.SessionHeader,
		},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
}
