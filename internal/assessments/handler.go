package assessments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MoizAnsari7/itest-backend/internal/api"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Handler exposes tests and assessments over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates an assessments handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// TestRoutes returns the router for the /tests surface.
func (h *Handler) TestRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateTest)
	r.Get("/", h.handleListTests)
	r.Get("/{id}", h.handleGetTest)
	r.Put("/{id}", h.handleUpdateTest)
	r.Delete("/{id}", h.handleDeleteTest)
	return r
}

// AssessmentRoutes returns the router for the /assessments surface.
func (h *Handler) AssessmentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateAssessment)
	r.Get("/", h.handleListAssessments)
	r.Get("/{id}", h.handleGetAssessment)
	r.Put("/{id}", h.handleUpdateAssessment)
	r.Delete("/{id}", h.handleDeleteAssessment)
	r.Post("/{id}/clone", h.handleCloneAssessment)
	return r
}

type testRequest struct {
	Questions      []store.TestQuestion `json:"questions"`
	TimeAllocation int                  `json:"timeAllocation"`
	IsLibraryTest  bool                 `json:"isLibraryTest"`
}

func (h *Handler) handleCreateTest(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	t, err := h.svc.CreateTest(r.Context(), p, TestRequest{
		Questions:      req.Questions,
		TimeAllocation: req.TimeAllocation,
		IsLibraryTest:  req.IsLibraryTest,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleListTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.svc.ListTests(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if tests == nil {
		tests = []*store.Test{}
	}
	api.WriteJSON(w, http.StatusOK, tests)
}

func (h *Handler) handleGetTest(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleUpdateTest(w http.ResponseWriter, r *http.Request) {
	if _, err := identity.RequirePrincipal(r.Context()); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	t, err := h.svc.UpdateTest(r.Context(), chi.URLParam(r, "id"), TestRequest{
		Questions:      req.Questions,
		TimeAllocation: req.TimeAllocation,
		IsLibraryTest:  req.IsLibraryTest,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleDeleteTest(w http.ResponseWriter, r *http.Request) {
	if _, err := identity.RequirePrincipal(r.Context()); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	if err := h.svc.DeleteTest(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Test deleted"})
}

type assessmentRequest struct {
	Sections     []store.AssessmentSection `json:"sections"`
	Instructions string                    `json:"instructions"`
}

func (h *Handler) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	a, err := h.svc.CreateAssessment(r.Context(), p, AssessmentRequest{
		Sections:     req.Sections,
		Instructions: req.Instructions,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := h.svc.ListAssessments(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if assessments == nil {
		assessments = []*store.Assessment{}
	}
	api.WriteJSON(w, http.StatusOK, assessments)
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAssessment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	if _, err := identity.RequirePrincipal(r.Context()); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	a, err := h.svc.UpdateAssessment(r.Context(), chi.URLParam(r, "id"), AssessmentRequest{
		Sections:     req.Sections,
		Instructions: req.Instructions,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	if _, err := identity.RequirePrincipal(r.Context()); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	if err := h.svc.DeleteAssessment(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Assessment deleted"})
}

func (h *Handler) handleCloneAssessment(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	a, err := h.svc.Clone(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, a)
}
