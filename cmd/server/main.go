// BiasGuard - Ethical AI Guardrail Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/biasguard/internal/api"
	"github.com/ashureev/biasguard/internal/config"
	"github.com/ashureev/biasguard/internal/feed"
	"github.com/ashureev/biasguard/internal/guardrail"
	"github.com/ashureev/biasguard/internal/history"
	"github.com/ashureev/biasguard/internal/identity"
	"github.com/ashureev/biasguard/internal/middleware"
	"github.com/ashureev/biasguard/internal/model"
	"github.com/ashureev/biasguard/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	clf, lexicon, err := model.Load(cfg.ModelPath)
	if err != nil {
		slog.Error("Failed to load model", "error", err, "path", cfg.ModelPath)
		os.Exit(1)
	}
	if cfg.ModelPath == "" {
		slog.Info("Using built-in model")
	} else {
		slog.Info("Model loaded successfully", "path", cfg.ModelPath)
	}

	// Initialize services.
	auditor := guardrail.New(clf, lexicon)
	sessions := history.NewSessions(cfg.HistoryLimit)
	hub := feed.NewHub(logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// Initialize handlers.
	baseHandler := api.NewHandler(auditor, sessions, hub)
	auditHandler := api.NewAuditHandler(baseHandler)
	healthHandler := api.NewHealthHandler(baseHandler, cfg)
	wsHandler := feed.NewWebSocketHandler(hub, cfg.AllowedOrigins, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)
	auditHandler.RegisterRoutes(r, limiter.Middleware)

	// WebSocket endpoint.
	r.Get("/ws/audits", wsHandler.ServeHTTP)

	// Serve embedded dashboard.
	web.Mount(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// No WriteTimeout: the audit feed holds connections open. Request contexts
	// derive from ctx so feed connections end on shutdown.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	// Start background sweepers.
	sessions.StartSweeper(ctx, cfg.SessionTTL, time.Minute)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Prune(10 * time.Minute); n > 0 {
					slog.Debug("Pruned idle rate limiters", "count", n)
				}
			}
		}
	}()
	slog.Info("Session sweeper started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
