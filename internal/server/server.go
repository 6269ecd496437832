// Package server wires the application together and runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → Server.New():
//	  sqlite.DB ─┬→ AuthService ─→ AuthHandler     → /api/auth/*
//	             ├→ TaxonomyService → TaxonomyHandler → /api/services/*
//	             └→ HealthHandler                  → /healthz
//	  TokenService / PasswordService / CookieManager from config.Auth
//
// This is the composition root: every dependency is built here and nowhere
// else, and each layer receives only the interfaces it needs.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/taskmate/internal/auth"
	"github.com/sakif/taskmate/internal/config"
	"github.com/sakif/taskmate/internal/handler"
	"github.com/sakif/taskmate/internal/middleware"
	sqliteRepo "github.com/sakif/taskmate/internal/repository/sqlite"
	"github.com/sakif/taskmate/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed when Start returns or Close is called.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds every service and handler, and registers
// the routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and mounts the routers.
//
// ROUTE STRUCTURE:
//
//	GET  /healthz
//	POST /api/auth/register              (customer)
//	POST /api/auth/register/customer
//	POST /api/auth/register/provider
//	POST /api/auth/login
//	POST /api/auth/logout
//	GET  /api/auth/me                    (session cookie required)
//	GET  /api/services/categories
//	GET  /api/services/categories/{categoryId}/subcategories
//
// MIDDLEWARE ORDER:
// RequestID first so the logger can print it, CORS before routing so
// preflight requests never reach a handler, Recoverer last so a panic is
// still logged as a 500.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords, err := auth.NewPasswordService(s.config.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password service: %w", err)
	}
	cookies := auth.NewCookieManager(s.config.IsProduction(), tokens.TTL())

	authService := service.NewAuthService(s.db, s.db, s.db, tokens, passwords, s.logger)
	taxonomyService := service.NewTaxonomyService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, cookies, s.logger)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.HTTP.AllowedOrigins))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Mount("/api/auth", authHandler.Routes(auth.RequireAuth(tokens)))
	s.router.Mount("/api/services", taxonomyHandler.Routes())

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to the configured shutdown timeout and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
		IdleTimeout:  s.config.HTTP.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.HTTP.Port),
			slog.String("env", s.config.Env),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
