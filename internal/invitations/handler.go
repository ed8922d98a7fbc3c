package invitations

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MoizAnsari7/itest-backend/internal/api"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Handler exposes the invitation lifecycle over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates an invitations handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes returns the router for the /test-invitations surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleIssue)
	r.Get("/", h.handleList)
	r.Post("/sweep", h.handleSweep)
	r.Get("/assessment/{id}", h.handleListByAssessment)
	r.Get("/{id}", h.handleGet)
	r.Post("/{id}/accept", h.handleAccept)
	r.Post("/{id}/reject", h.handleReject)
	r.Post("/{id}/complete", h.handleComplete)
	r.Post("/{id}/incidents", h.handleRecordIncident)
	return r
}

type issueRequest struct {
	Assessment string    `json:"assessment"`
	User       string    `json:"user"`
	ValidFrom  time.Time `json:"validFrom"`
	ValidUntil time.Time `json:"validUntil"`
	Passkey    string    `json:"passkey,omitempty"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	inv, err := h.svc.Issue(r.Context(), p, IssueRequest{
		AssessmentID: req.Assessment,
		CandidateID:  req.User,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		Passkey:      req.Passkey,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, inv)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.svc.List(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if invitations == nil {
		invitations = []*store.TestInvitation{}
	}
	api.WriteJSON(w, http.StatusOK, invitations)
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if err := identity.RequireRole(p, store.RoleHR, store.RoleAdmin); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	count, err := h.svc.SweepExpired(r.Context(), h.svc.now())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"expired": count})
}

func (h *Handler) handleListByAssessment(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.svc.ListByAssessment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if invitations == nil {
		invitations = []*store.TestInvitation{}
	}
	api.WriteJSON(w, http.StatusOK, invitations)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

type acceptRequest struct {
	Passkey string `json:"passkey"`
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	inv, err := h.svc.Accept(r.Context(), chi.URLParam(r, "id"), req.Passkey)
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

type completeRequest struct {
	Score  float64            `json:"score"`
	Status store.ResultStatus `json:"status"`
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	inv, err := h.svc.Complete(r.Context(), chi.URLParam(r, "id"), req.Score, req.Status)
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

type incidentRequest struct {
	Description string `json:"description"`
}

func (h *Handler) handleRecordIncident(w http.ResponseWriter, r *http.Request) {
	var req incidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	inv, err := h.svc.RecordIncident(r.Context(), chi.URLParam(r, "id"), req.Description)
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}
