// Package server provides HTTP server wiring and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/assessments"
	"github.com/MoizAnsari7/itest-backend/internal/cache"
	"github.com/MoizAnsari7/itest-backend/internal/config"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/invitations"
	"github.com/MoizAnsari7/itest-backend/internal/notify"
	"github.com/MoizAnsari7/itest-backend/internal/questions"
	"github.com/MoizAnsari7/itest-backend/internal/ratelimit"
	"github.com/MoizAnsari7/itest-backend/internal/reviews"
	"github.com/MoizAnsari7/itest-backend/internal/store"
	"github.com/MoizAnsari7/itest-backend/internal/users"
)

// ErrMissingDep is returned by New when a required dependency is nil.
var ErrMissingDep = errors.New("missing required dependency")

// Deps holds all server dependencies.
type Deps struct {
	// Required: entity store.
	Store store.Store

	// Required: password hashing and token issuance.
	UserAuth *identity.UserAuth
	Tokens   *identity.TokenIssuer

	// Optional: invitation notifier (nil disables notifications).
	Notifier notify.Notifier
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	logger     *slog.Logger
	deps       *Deps

	loginLimiter *ratelimit.Limiter
	loginCounter *cache.Memory

	usersHandler       *users.Handler
	questionsHandler   *questions.Handler
	assessmentsHandler *assessments.Handler
	invitationsHandler *invitations.Handler
	reviewsHandler     *reviews.Handler
}

// New creates a new Server with the given configuration.
// Returns an error if required dependencies are missing.
func New(cfg *config.Config, logger *slog.Logger, deps *Deps) (*Server, error) {
	if err := validateDeps(deps); err != nil {
		return nil, err
	}

	usersSvc := users.NewService(deps.Store, deps.UserAuth, deps.Tokens)
	questionsSvc := questions.NewService(deps.Store)
	assessmentsSvc := assessments.NewService(deps.Store)
	invitationsSvc := invitations.NewService(deps.Store, deps.Notifier, logger)
	reviewsSvc := reviews.NewService(deps.Store)

	s := &Server{
		cfg:                cfg,
		logger:             logger,
		deps:               deps,
		usersHandler:       users.NewHandler(usersSvc),
		questionsHandler:   questions.NewHandler(questionsSvc),
		assessmentsHandler: assessments.NewHandler(assessmentsSvc),
		invitationsHandler: invitations.NewHandler(invitationsSvc),
		reviewsHandler:     reviews.NewHandler(reviewsSvc),
	}

	if cfg.RateLimit.Enabled {
		s.loginCounter = cache.NewMemory(time.Minute)
		s.loginLimiter = ratelimit.New(s.loginCounter, &ratelimit.Config{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "login:",
		})
	}

	router := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server. It blocks until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		"addr", s.cfg.ListenAddr,
		"store_driver", s.cfg.Store.Driver,
		"notify_driver", s.cfg.Notify.Driver,
	)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if s.loginCounter != nil {
		defer s.loginCounter.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

// validateDeps checks that all required dependencies are provided.
func validateDeps(deps *Deps) error {
	if deps == nil {
		return errors.New("deps is nil")
	}
	if deps.Store == nil {
		return fmt.Errorf("%w: Store", ErrMissingDep)
	}
	if deps.UserAuth == nil {
		return fmt.Errorf("%w: UserAuth", ErrMissingDep)
	}
	if deps.Tokens == nil {
		return fmt.Errorf("%w: Tokens", ErrMissingDep)
	}
	return nil
}
