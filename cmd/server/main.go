// Package main is the entry point for the UNLAYR WhatsApp server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/audit"
	"github.com/AniketThakur-404/chatapp/internal/bot"
	"github.com/AniketThakur-404/chatapp/internal/clock"
	"github.com/AniketThakur-404/chatapp/internal/config"
	"github.com/AniketThakur-404/chatapp/internal/handler"
	"github.com/AniketThakur-404/chatapp/internal/logging"
	"github.com/AniketThakur-404/chatapp/internal/metrics"
	"github.com/AniketThakur-404/chatapp/internal/middleware"
	"github.com/AniketThakur-404/chatapp/internal/ratelimit"
	"github.com/AniketThakur-404/chatapp/internal/shutdown"
	"github.com/AniketThakur-404/chatapp/internal/whatsapp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logging.New(&logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Environment,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.Logger
	defer func() { _ = logger.Sync() }()

	logger.Info("starting UNLAYR WhatsApp server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Environment),
	)

	// Initialize metrics and audit trail
	m := metrics.NewMetrics()
	auditLog := audit.NewLogger(logger)

	// Initialize the conversation engine
	store := bot.NewStore()
	engine := bot.NewEngine(store, bot.NewPriceBook(), clock.New(), logger).
		WithMetrics(m).
		WithAudit(auditLog)

	// Initialize the WhatsApp Cloud API client
	sender := whatsapp.New(&whatsapp.Config{
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		APIURL:        cfg.WhatsApp.APIURL,
		Timeout:       cfg.WhatsApp.SendTimeout,
	}, logger)

	// Initialize per-sender message limits on top of the defaults
	senderLimitCfg := ratelimit.DefaultSenderLimitConfig()
	if cfg.SenderLimit.MaxPerMinute > 0 {
		senderLimitCfg.MaxPerMinute = cfg.SenderLimit.MaxPerMinute
	}
	if cfg.SenderLimit.MaxPerHour > 0 {
		senderLimitCfg.MaxPerHour = cfg.SenderLimit.MaxPerHour
	}
	senderLimiter := ratelimit.NewSenderLimiter(senderLimitCfg, logger)
	logger.Info("initialized sender message limits",
		zap.Int("max_per_minute", senderLimitCfg.MaxPerMinute),
		zap.Int("max_per_hour", senderLimitCfg.MaxPerHour),
	)

	// Initialize handlers
	h := handler.New(handler.Config{
		Engine:        engine,
		Store:         store,
		Sender:        sender,
		SenderLimiter: senderLimiter,
		VerifyToken:   cfg.WhatsApp.VerifyToken,
		Metrics:       m,
		Logger:        logger,
	})

	// Initialize HTTP-level rate limiting and request correlation
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	correlation := middleware.NewRequestCorrelation(logger)

	// Initialize router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(correlation.Middleware) // First: add correlation IDs
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit(rateLimiter))
	r.Use(middleware.BodySizeLimiterWebhook())
	r.Use(m.Middleware)

	// Operational endpoints
	r.Handle("/metrics", m.Handler())
	r.Handle("/log/level", log)

	// Serve static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, "web/static/index.html")
	})

	// Register routes
	h.RegisterRoutes(r)

	// Create server
	addr := cfg.Server.Address()
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	auditLog.ServiceStarted(cfg.Server.Environment)

	// Initialize shutdown coordinator
	coord := shutdown.NewCoordinator(cfg.Shutdown.Timeout, logger)

	coord.Register(shutdown.PhaseDrain, "http-server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})
	coord.Register(shutdown.PhaseWorkers, "in-flight-sends", func(ctx context.Context) error {
		// Detached send goroutines carry their own timeout. Give the
		// tail of them a moment to land before the process exits.
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	coord.Register(shutdown.PhaseCleanup, "logger", func(ctx context.Context) error {
		_ = logger.Sync()
		return nil
	})

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("received shutdown signal")
	auditLog.ServiceStopping("signal")

	if err := coord.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown completed with errors", zap.Error(err))
	}
}
