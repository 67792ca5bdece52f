package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"absencer/internal/auth"
	"absencer/internal/config"
	"absencer/internal/db"
	"absencer/internal/metrics"
	"absencer/internal/middleware"
	"absencer/internal/process"
	"absencer/internal/runs"
	"absencer/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	store := storage.New(cfg.DataDir)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	ctx := context.Background()

	var history *runs.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		history = runs.NewStore(pool)
		if err := history.EnsureSchema(ctx); err != nil {
			slog.Error("run history schema failed", "err", err)
			os.Exit(1)
		}
	}

	pipeline := process.NewPipeline(store, collector, history)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if history != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := history.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Get("/metrics", collector.Handler().ServeHTTP)
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := auth.NewHandler(cfg.JWTSecret, cfg.AdminPasswordHash, cfg.TokenTTL)
		r.With(middleware.RateLimit(10, time.Minute)).Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			process.NewHandler(pipeline, cfg.RunHistoryLimit).RegisterRoutes(r)
		})
	})

	slog.Info("absencer server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
