// Package server is the composition root: it wires the database, services,
// handlers, and middleware into a chi router and owns the HTTP lifecycle.
//
// The dependency chain assembled here:
//
//	sqlite.DB → services (auth, product, favorite) → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services. Nothing below this package knows the
// concrete wiring.
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

	"github.com/sakif/marketplace-api/internal/auth"
	"github.com/sakif/marketplace-api/internal/handler"
	"github.com/sakif/marketplace-api/internal/middleware"
	sqliteRepo "github.com/sakif/marketplace-api/internal/repository/sqlite"
	"github.com/sakif/marketplace-api/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router, the database connection, and the HTTP lifecycle.
// The DB is closed during shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds the dependency graph,
// and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
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

// setupRoutes configures middleware, builds handlers, and lays out the
// route table.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register        → create account, returns token
//	POST   /api/auth/login           → authenticate, returns token
//	GET    /api/products             → list catalog (public)
//	GET    /api/products/{id}        → fetch one product (public)
//	POST   /api/products             → create (bearer)
//	PUT    /api/products/{id}        → partial update (bearer)
//	DELETE /api/products/{id}        → delete (bearer)
//	GET    /api/favorites            → list own favorites (bearer)
//	GET    /api/favorites/{id}/check → is product favorited (bearer)
//	POST   /api/favorites/{id}       → add favorite (bearer)
//	DELETE /api/favorites/{id}       → remove favorite (bearer)
//	GET    /api/health               → liveness
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return err
	}

	// Global middleware, in order: request ID for tracing, real client IP
	// behind proxies, panic recovery (500 instead of a crashed process),
	// request logging.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The SPA is served from a different origin in development, so the API
	// answers preflight requests. Authorization must be an allowed header
	// or the browser strips the bearer token.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Build the dependency graph. Handlers never touch the database; the
	// services never touch HTTP.
	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
	productService := service.NewProductService(s.db, s.logger)
	favoriteService := service.NewFavoriteService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	productHandler := handler.NewProductHandler(productService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Get("/products", productHandler.HandleList)
		r.Get("/products/{id}", productHandler.HandleGet)

		// Any authenticated account may mutate any product — the catalog
		// has no per-owner restriction.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/products", productHandler.HandleCreate)
			r.Put("/products/{id}", productHandler.HandleUpdate)
			r.Delete("/products/{id}", productHandler.HandleDelete)

			r.Get("/favorites", favoriteHandler.HandleList)
			r.Get("/favorites/{id}/check", favoriteHandler.HandleCheck)
			r.Post("/favorites/{id}", favoriteHandler.HandleAdd)
			r.Delete("/favorites/{id}", favoriteHandler.HandleRemove)
		})
	})

	// Unmatched routes get the same JSON error shape as everything else.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found","message":"Route not found"}`))
	})

	return nil
}

// Handler returns the configured router. Used by tests to drive the full
// stack through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database connection). Start
// does this itself on shutdown; Close exists for callers that never Start,
// such as tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
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
