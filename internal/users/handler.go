package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MoizAnsari7/itest-backend/internal/api"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Handler exposes accounts, profiles, and login over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a users handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// UserRoutes returns the router for the /users surface.
func (h *Handler) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateUser)
	r.Get("/", h.handleListUsers)
	r.Get("/{id}", h.handleGetUser)
	r.Put("/{id}", h.handleUpdateUser)
	r.Delete("/{id}", h.handleDeleteUser)
	return r
}

// ProfileRoutes returns the router for the /profiles surface.
func (h *Handler) ProfileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateProfile)
	r.Get("/", h.handleListProfiles)
	r.Get("/{id}", h.handleGetProfile)
	r.Get("/user/{userID}", h.handleGetProfileByUser)
	r.Put("/{id}", h.handleUpdateProfile)
	r.Delete("/{id}", h.handleDeleteProfile)
	return r
}

// AuthRoutes returns the router for the /auth surface. These routes are
// mounted outside the bearer-token middleware.
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	return r
}

type userRequest struct {
	Email        string     `json:"email"`
	Password     string     `json:"password,omitempty"`
	Number       string     `json:"number,omitempty"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Organization string     `json:"organization,omitempty"`
	Role         store.Role `json:"role"`
}

func (r userRequest) toServiceRequest() UserRequest {
	return UserRequest{
		Email:        r.Email,
		Password:     r.Password,
		Number:       r.Number,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Organization: r.Organization,
		Role:         r.Role,
	}
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	u, err := h.svc.CreateUser(r.Context(), req.toServiceRequest())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListUsers(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.User{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), chi.URLParam(r, "id"), req.toServiceRequest())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if err := identity.RequireRole(p, store.RoleAdmin); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

type profileRequest struct {
	User       string        `json:"user"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Education  string        `json:"education"`
	Experience string        `json:"experience,omitempty"`
	Skills     []string      `json:"skills"`
	Resume     string        `json:"resume,omitempty"`
	Address    store.Address `json:"address"`
}

func (r profileRequest) toServiceRequest() ProfileRequest {
	return ProfileRequest{
		UserID:     r.User,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Education:  r.Education,
		Experience: r.Experience,
		Skills:     r.Skills,
		Resume:     r.Resume,
		Address:    r.Address,
	}
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	prof, err := h.svc.CreateProfile(r.Context(), req.toServiceRequest())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, prof)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListProfiles(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.CandidateProfile{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, prof)
}

func (h *Handler) handleGetProfileByUser(w http.ResponseWriter, r *http.Request) {
	prof, err := h.svc.GetProfileByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, prof)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	prof, err := h.svc.UpdateProfile(r.Context(), chi.URLParam(r, "id"), req.toServiceRequest())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, prof)
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted"})
}
