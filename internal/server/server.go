// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer, the composition root. main.go hands it a
// config and a logger; New builds the dependency chain:
//
//	sqlite.DB → RecipeService → RecipeHandler → routes
//
// and Start runs it until SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/recipes-api/internal/config"
	"github.com/sakif/recipes-api/internal/handler"
	"github.com/sakif/recipes-api/internal/middleware"
	sqliteRepo "github.com/sakif/recipes-api/internal/repository/sqlite"
	"github.com/sakif/recipes-api/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection. Start closes it after the HTTP server
// has drained, so no request is cut off mid-query.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, runs the startup initialization and wires the routes.
//
// STARTUP INITIALIZATION:
// With cfg.ResetOnStart (the default) the recipes table is dropped and reseeded
// here, before a single request can be accepted.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	recipeService := service.NewRecipeService(db, logger)
	if err := recipeService.Initialize(ctx, cfg.ResetOnStart); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing recipes: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(recipeService)

	return s, nil
}

// Handler exposes the router, mainly so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /recipes       → Create recipe
// GET    /recipes       → List recipes
// GET    /recipes/{id}  → Get one recipe
// PATCH  /recipes/{id}  → Replace a recipe (all five fields)
// DELETE /recipes/{id}  → Delete a recipe
// GET    /health        → Liveness
// GET    /ready         → Readiness (database ping)
// GET    /metrics       → Prometheus metrics
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns the ID everything after it logs
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Metrics: counts and times each request
// 5. Recoverer: innermost, so a panic becomes a 500 that Logger and Metrics still see
func (s *Server) setupRoutes(recipeService *service.RecipeService) {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics)
	s.router.Use(chimiddleware.Recoverer)

	recipeHandler := handler.NewRecipeHandler(recipeService, s.logger)
	healthHandler := handler.NewHealthHandler(recipeService, s.logger)

	s.router.Route("/recipes", func(r chi.Router) {
		r.Post("/", recipeHandler.HandleCreate)
		r.Get("/", recipeHandler.HandleList)
		r.Get("/{id}", recipeHandler.HandleGetByID)
		r.Patch("/{id}", recipeHandler.HandleUpdate)
		r.Delete("/{id}", recipeHandler.HandleDelete)
	})

	s.router.Get("/health", healthHandler.HandleHealth)
	s.router.Get("/ready", healthHandler.HandleReady)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("reset_on_start", s.config.ResetOnStart),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
