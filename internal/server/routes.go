package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MoizAnsari7/itest-backend/internal/api"
)

// setupRoutes builds the router with the full middleware chain:
// RequestID -> request logger -> access log -> recoverer -> auth.
func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.requestLoggerMiddleware)
	r.Use(s.accessLogMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(s.authMiddleware)

	r.Get("/healthz", api.HealthHandler)

	authRoutes := http.Handler(s.usersHandler.AuthRoutes())
	if s.loginLimiter != nil {
		authRoutes = s.loginLimiter.Middleware(authRoutes)
	}
	r.Mount("/auth", authRoutes)
	r.Mount("/users", s.usersHandler.UserRoutes())
	r.Mount("/profiles", s.usersHandler.ProfileRoutes())
	r.Mount("/question-types", s.questionsHandler.QuestionTypeRoutes())
	r.Mount("/questions", s.questionsHandler.QuestionRoutes())
	r.Mount("/options", s.questionsHandler.OptionRoutes())
	r.Mount("/tests", s.assessmentsHandler.TestRoutes())
	r.Mount("/assessments", s.assessmentsHandler.AssessmentRoutes())
	r.Mount("/test-invitations", s.invitationsHandler.Routes())
	r.Mount("/reviews", s.reviewsHandler.Routes())

	return r
}
