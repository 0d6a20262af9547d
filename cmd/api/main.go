// Package main is the entry point for the Flight Search API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pkordes/flight-search/backend/internal/config"
	"github.com/pkordes/flight-search/backend/internal/database"
	"github.com/pkordes/flight-search/backend/internal/handler"
	"github.com/pkordes/flight-search/backend/internal/middleware"
	"github.com/pkordes/flight-search/backend/internal/service"
	"github.com/pkordes/flight-search/backend/internal/session"
	"github.com/pkordes/flight-search/backend/internal/snapshot"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	ctx := context.Background()
	store, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database connection established", "dialect", string(store.Dialect))

	if err := store.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repos := store.Repos()

	if cfg.SeedSnapshot {
		n, err := snapshot.Seed(ctx, repos.Airports)
		if err != nil {
			slog.Error("failed to seed airport snapshot", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			slog.Info("airport snapshot loaded", "version", snapshot.Version, "airports", n)
		}
	}

	// --- Services ---------------------------------------------------------
	routes := service.NewRouteService(repos.Airports)
	favorites := service.NewFavoriteService(repos.Favorites, logger)
	prefs := service.NewPreferenceService(repos.Preferences)
	sessions := session.NewManager(routes, favorites, prefs, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(routes, favorites, sessions, store, logger)
	r.Mount("/", handler.Handler(srv))

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout does not cover /sessions/{id}/stream: the websocket
	// connection is hijacked and sets its own per-write deadlines.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Closing the sessions ends every websocket stream, which Shutdown
	// does not wait for.
	sessions.Close()
	favorites.Close()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
