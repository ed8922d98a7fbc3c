package reviews

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MoizAnsari7/itest-backend/internal/api"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Handler exposes reviews over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a reviews handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes returns the router for the /reviews surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleSubmit)
	r.Get("/", h.handleList)
	r.Get("/assessment/{id}", h.handleListByAssessment)
	return r
}

type submitRequest struct {
	TestInvitation string `json:"testInvitation"`
	Rating         int    `json:"rating"`
	Comments       string `json:"comments,omitempty"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	rev, err := h.svc.Submit(r.Context(), p, SubmitRequest{
		TestInvitationID: req.TestInvitation,
		Rating:           req.Rating,
		Comments:         req.Comments,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, rev)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		api.WriteBadRequest(w, api.ReasonValidationFailed, err.Error())
		return
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.Review{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleListByAssessment(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByAssessment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.Review{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// parseFilter reads listing filters from query parameters:
// minRating, maxRating, from, to (RFC 3339), candidate.
func parseFilter(r *http.Request) (Filter, error) {
	var filter Filter
	q := r.URL.Query()

	if v := q.Get("minRating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errInvalidParam("minRating")
		}
		filter.MinRating = n
	}
	if v := q.Get("maxRating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errInvalidParam("maxRating")
		}
		filter.MaxRating = n
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidParam("from")
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidParam("to")
		}
		filter.To = &t
	}
	filter.CandidateID = q.Get("candidate")

	return filter, nil
}

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid query parameter: %s", name)
}
