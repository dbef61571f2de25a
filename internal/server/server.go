// Package server wires the handlers, middleware, and routes together and
// owns the HTTP server lifecycle. All dependencies are assembled in New —
// the composition root — so main stays minimal and tests can build the
// same stack against an in-memory store.
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
	"github.com/go-chi/cors"

	"github.com/sakif/tastebud/internal/auth"
	"github.com/sakif/tastebud/internal/config"
	"github.com/sakif/tastebud/internal/handler"
	"github.com/sakif/tastebud/internal/middleware"
	"github.com/sakif/tastebud/internal/model"
	sqliteRepo "github.com/sakif/tastebud/internal/repository/sqlite"
)

// Server holds the router and the resources it owns. The database handle
// belongs to the server and is closed during shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the store, builds the token service, and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// Router exposes the configured handler chain, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources outside of Start's own shutdown
// path (again, mainly for tests).
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The API is consumed by a separate frontend origin, so CORS stays as
	// permissive as the original deployment's.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	authHandler := handler.NewAuthHandler(s.db, s.db, tokens, s.logger)
	userHandler := handler.NewUserHandler(s.db, s.logger)
	prefHandler := handler.NewPreferenceHandler(s.db, s.logger)
	restHandler := handler.NewRestaurantHandler(s.db, s.db, s.logger)

	requireAuthed := auth.Require(tokens, model.RoleUser, model.RoleAdmin)
	requireAdmin := auth.Require(tokens, model.RoleAdmin)

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/restaurants", restHandler.HandleList)

		// Any authenticated role
		r.Group(func(r chi.Router) {
			r.Use(requireAuthed)
			r.Get("/restaurants/recommended", restHandler.HandleRecommendations)
			r.Get("/user/preferences", prefHandler.HandleGet)
			r.Put("/user/preferences", prefHandler.HandleUpdate)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/users", userHandler.HandleList)
			r.Delete("/users/{user_id}", userHandler.HandleDelete)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s, and
// close the database so the WAL is flushed and the file lock released.
func (s *Server) Start() error {
	defer s.db.Close()

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
			slog.String("database", s.config.DBPath),
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
