// Package api provides the HTTP server of the Scalingo dashboard.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/narvanalabs/scalingo-dashboard/internal/api/handlers"
	"github.com/narvanalabs/scalingo-dashboard/internal/api/health"
	"github.com/narvanalabs/scalingo-dashboard/internal/api/middleware"
	"github.com/narvanalabs/scalingo-dashboard/internal/audit"
	"github.com/narvanalabs/scalingo-dashboard/internal/logs"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
	"github.com/narvanalabs/scalingo-dashboard/pkg/config"
)

// Version is the current version of the dashboard.
// This should be set at build time using ldflags.
var Version = "dev"

// Deps are the services the server routes to.
type Deps struct {
	Scalingo handlers.ScalingoAPI
	Sessions *session.Manager
	Audit    *audit.Recorder
	Broker   *logs.Broker

	// Health components, pinged by GET /health.
	ScalingoPinger health.Pinger
	StorePinger    health.Pinger
}

// Server represents the dashboard HTTP server.
type Server struct {
	router        chi.Router
	mu            sync.Mutex
	httpServer    *http.Server
	deps          Deps
	config        *config.Config
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new server with the given dependencies.
func NewServer(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		deps:   deps,
		config: cfg,
		logger: logger,
	}

	s.healthChecker = health.NewChecker(Version)
	s.healthChecker.Register("scalingo", deps.ScalingoPinger, true)
	if deps.StorePinger != nil {
		s.healthChecker.Register("audit_store", deps.StorePinger, false)
	}

	s.setupRouter()
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))

	r.Get("/health", s.healthChecker.Handler())

	secure := s.config.Session.CookieSecure
	auth := middleware.NewAuthMiddleware(s.deps.Sessions, s.logger)
	authHandler := handlers.NewAuthHandler(s.deps.Sessions, secure, s.logger)
	pages := handlers.NewPageHandler(s.deps.Scalingo, s.deps.Sessions, s.deps.Audit, s.config.Logs.DefaultLines, secure, s.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(auth.Authenticate).Get("/me", authHandler.Me)
	})

	// HTML pages
	r.Get("/login", pages.LoginPage)
	r.Post("/login", pages.LoginSubmit)
	r.Post("/logout", pages.Logout)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession("/login"))
		r.Get("/", pages.Dashboard)
		r.Get("/applications/{id}", pages.AppDetail)
		r.Post("/applications/{id}/actions", pages.AppAction)
	})

	// JSON API
	apps := handlers.NewAppHandler(s.deps.Scalingo, s.deps.Audit, s.logger)
	logHandler := handlers.NewLogHandler(s.deps.Scalingo, s.deps.Broker, s.config.Logs.DefaultLines, s.logger)
	deployments := handlers.NewDeploymentHandler(s.deps.Scalingo, s.logger)
	domains := handlers.NewDomainHandler(s.deps.Scalingo, s.logger)

	r.Route("/api/scalingo/applications", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Use(auth.Authenticate)

		r.With(chimiddleware.Timeout(60*time.Second)).Get("/", apps.List)
		r.Route("/{id}", func(r chi.Router) {
			// The websocket outlives any request timeout.
			r.Get("/logs/ws", logHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Timeout(60 * time.Second))
				r.Get("/", apps.Get)
				r.Post("/", apps.Action)
				r.Get("/actions", apps.Actions)
				r.Get("/logs", logHandler.Get)
				r.Get("/deployments", deployments.List)
				r.Get("/deployments/{deploymentId}/output", deployments.Output)
				r.Get("/domains", domains.List)
			})
		})
	})

	s.router = r
}

// Start starts the HTTP server and blocks until ctx is done or the server fails.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("starting dashboard server", "addr", addr, "version", Version)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down dashboard server")
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() chi.Router {
	return s.router
}
