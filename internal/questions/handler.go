package questions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MoizAnsari7/itest-backend/internal/api"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Handler exposes the question bank over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a questions handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// QuestionRoutes returns the router for the /questions surface.
func (h *Handler) QuestionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateQuestion)
	r.Get("/", h.handleListQuestions)
	r.Get("/{id}", h.handleGetQuestion)
	r.Put("/{id}", h.handleUpdateQuestion)
	r.Delete("/{id}", h.handleDeleteQuestion)
	return r
}

// QuestionTypeRoutes returns the router for the /question-types surface.
func (h *Handler) QuestionTypeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateQuestionType)
	r.Get("/", h.handleListQuestionTypes)
	r.Get("/{id}", h.handleGetQuestionType)
	r.Put("/{id}", h.handleUpdateQuestionType)
	r.Delete("/{id}", h.handleDeleteQuestionType)
	return r
}

// OptionRoutes returns the router for the /options surface.
func (h *Handler) OptionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreateOption)
	r.Get("/", h.handleListOptions)
	r.Get("/{id}", h.handleGetOption)
	r.Put("/{id}", h.handleUpdateOption)
	r.Delete("/{id}", h.handleDeleteOption)
	return r
}

type questionRequest struct {
	QuestionText    string           `json:"questionText"`
	QuestionType    string           `json:"questionType"`
	Options         []string         `json:"options"`
	DifficultyLevel store.Difficulty `json:"difficultyLevel"`
	Instruction     string           `json:"instruction,omitempty"`
	ParagraphText   string           `json:"paragraphText,omitempty"`
	FillInTheBlanks string           `json:"fillInTheBlanks,omitempty"`
}

func (r questionRequest) toServiceRequest() QuestionRequest {
	return QuestionRequest{
		QuestionText:    r.QuestionText,
		QuestionType:    r.QuestionType,
		OptionIDs:       r.Options,
		Difficulty:      r.DifficultyLevel,
		Instruction:     r.Instruction,
		ParagraphText:   r.ParagraphText,
		FillInTheBlanks: r.FillInTheBlanks,
	}
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	q, err := h.svc.CreateQuestion(r.Context(), p, req.toServiceRequest())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		Difficulty:   store.Difficulty(q.Get("difficultyLevel")),
		QuestionType: q.Get("questionType"),
		CreatedBy:    q.Get("createdBy"),
	}
	if v := q.Get("isLibraryQuestion"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			api.WriteBadRequest(w, api.ReasonValidationFailed, "invalid query parameter: isLibraryQuestion")
			return
		}
		filter.IsLibrary = &b
	}

	list, err := h.svc.ListQuestions(r.Context(), filter)
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.Question{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.GetQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	q, err := h.svc.UpdateQuestion(r.Context(), p, chi.URLParam(r, "id"), req.toServiceRequest())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	p, err := identity.RequirePrincipal(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Question deleted"})
}

type questionTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) handleCreateQuestionType(w http.ResponseWriter, r *http.Request) {
	var req questionTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	qt, err := h.svc.CreateQuestionType(r.Context(), QuestionTypeRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, qt)
}

func (h *Handler) handleListQuestionTypes(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListQuestionTypes(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.QuestionType{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetQuestionType(w http.ResponseWriter, r *http.Request) {
	qt, err := h.svc.GetQuestionType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, qt)
}

func (h *Handler) handleUpdateQuestionType(w http.ResponseWriter, r *http.Request) {
	var req questionTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	qt, err := h.svc.UpdateQuestionType(r.Context(), chi.URLParam(r, "id"), QuestionTypeRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, qt)
}

func (h *Handler) handleDeleteQuestionType(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteQuestionType(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Question type deleted"})
}

type optionRequest struct {
	Content       string `json:"content"`
	IsRightAnswer bool   `json:"isRightAnswer"`
	IsMultiSelect bool   `json:"isMultiSelect"`
}

func (h *Handler) handleCreateOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	o, err := h.svc.CreateOption(r.Context(), OptionRequest{
		Content:       req.Content,
		IsRightAnswer: req.IsRightAnswer,
		IsMultiSelect: req.IsMultiSelect,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) handleListOptions(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListOptions(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.Option{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetOption(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetOption(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) handleUpdateOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, api.ReasonBadRequest, "failed to parse request body")
		return
	}

	o, err := h.svc.UpdateOption(r.Context(), chi.URLParam(r, "id"), OptionRequest{
		Content:       req.Content,
		IsRightAnswer: req.IsRightAnswer,
		IsMultiSelect: req.IsMultiSelect,
	})
	if err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) handleDeleteOption(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOption(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Option deleted"})
}
