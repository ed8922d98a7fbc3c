// Package questions manages the question bank: question types,
// questions, and answer options.
package questions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// maxInstructionLength bounds the optional guidance text on a question.
const maxInstructionLength = 500

// Service implements question bank management.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates a questions service.
func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// QuestionTypeRequest carries the parameters for creating or updating a
// question type.
type QuestionTypeRequest struct {
	Name        string
	Description string
}

// CreateQuestionType registers one of the supported question formats.
func (s *Service) CreateQuestionType(ctx context.Context, req QuestionTypeRequest) (*store.QuestionType, error) {
	if !store.ValidQuestionTypeName(req.Name) {
		return nil, errs.Validationf("invalid question type name %q", req.Name)
	}

	qt := &store.QuestionType{
		ID:          store.NewID(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.CreateQuestionType(ctx, qt); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errs.Validationf("question type %q already exists", req.Name)
		}
		return nil, fmt.Errorf("failed to create question type: %w", err)
	}
	return qt, nil
}

// GetQuestionType returns a single question type by id.
func (s *Service) GetQuestionType(ctx context.Context, id string) (*store.QuestionType, error) {
	qt, err := s.store.GetQuestionType(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("question type %s not found", id)
		}
		return nil, fmt.Errorf("failed to get question type: %w", err)
	}
	return qt, nil
}

// ListQuestionTypes returns all question types.
func (s *Service) ListQuestionTypes(ctx context.Context) ([]*store.QuestionType, error) {
	return s.store.ListQuestionTypes(ctx)
}

// UpdateQuestionType updates a question type's description. The name is
// part of the enum and may also be changed to another valid name.
func (s *Service) UpdateQuestionType(ctx context.Context, id string, req QuestionTypeRequest) (*store.QuestionType, error) {
	if !store.ValidQuestionTypeName(req.Name) {
		return nil, errs.Validationf("invalid question type name %q", req.Name)
	}

	qt, err := s.GetQuestionType(ctx, id)
	if err != nil {
		return nil, err
	}

	qt.Name = req.Name
	qt.Description = req.Description
	if err := s.store.UpdateQuestionType(ctx, qt); err != nil {
		return nil, fmt.Errorf("failed to update question type: %w", err)
	}
	return qt, nil
}

// DeleteQuestionType removes a question type.
func (s *Service) DeleteQuestionType(ctx context.Context, id string) error {
	if err := s.store.DeleteQuestionType(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("question type %s not found", id)
		}
		return fmt.Errorf("failed to delete question type: %w", err)
	}
	return nil
}

// QuestionRequest carries the parameters for creating a question. The
// question type is referenced by enum name, not id, matching the API
// surface.
type QuestionRequest struct {
	QuestionText    string
	QuestionType    string
	OptionIDs       []string
	Difficulty      store.Difficulty
	Instruction     string
	ParagraphText   string
	FillInTheBlanks string
}

// CreateQuestion adds a question to the library. Requires the
// technical_expert or admin role.
func (s *Service) CreateQuestion(ctx context.Context, p identity.Principal, req QuestionRequest) (*store.Question, error) {
	if err := identity.RequireRole(p, store.RoleTechnicalExpert, store.RoleAdmin); err != nil {
		return nil, err
	}

	if req.QuestionText == "" {
		return nil, errs.Validationf("questionText is required")
	}
	if !store.ValidDifficulty(req.Difficulty) {
		return nil, errs.Validationf("invalid difficulty level %q", req.Difficulty)
	}
	if len(req.Instruction) > maxInstructionLength {
		return nil, errs.Validationf("instruction must be at most %d characters", maxInstructionLength)
	}

	qt, err := s.store.GetQuestionTypeByName(ctx, req.QuestionType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.Validationf("invalid question type")
		}
		return nil, fmt.Errorf("failed to look up question type: %w", err)
	}

	q := &store.Question{
		ID:              store.NewID(),
		QuestionText:    req.QuestionText,
		QuestionTypeID:  qt.ID,
		OptionIDs:       req.OptionIDs,
		DifficultyLevel: req.Difficulty,
		CreatedBy:       p.UserID,
		Instruction:     req.Instruction,
		IsLibrary:       true,
		CreatedAt:       s.now(),
	}

	// Type-specific payloads are only carried for the matching type.
	if qt.Name == store.QuestionTypeParagraph {
		q.ParagraphText = req.ParagraphText
	}
	if qt.Name == store.QuestionTypeFillInTheBlanks {
		q.FillInTheBlanks = req.FillInTheBlanks
	}

	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// GetQuestion returns a single question by id.
func (s *Service) GetQuestion(ctx context.Context, id string) (*store.Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("question %s not found", id)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// Filter narrows question listings. The question type is referenced by
// enum name and resolved to its id before the store query.
type Filter struct {
	Difficulty   store.Difficulty
	QuestionType string
	CreatedBy    string
	IsLibrary    *bool
}

// ListQuestions returns questions matching the filter.
func (s *Service) ListQuestions(ctx context.Context, filter Filter) ([]*store.Question, error) {
	sf := store.QuestionFilter{
		Difficulty: filter.Difficulty,
		CreatedBy:  filter.CreatedBy,
		IsLibrary:  filter.IsLibrary,
	}

	if filter.QuestionType != "" {
		qt, err := s.store.GetQuestionTypeByName(ctx, filter.QuestionType)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return []*store.Question{}, nil
			}
			return nil, fmt.Errorf("failed to look up question type: %w", err)
		}
		sf.QuestionTypeID = qt.ID
	}

	return s.store.ListQuestions(ctx, sf)
}

// UpdateQuestion replaces a question's editable fields.
func (s *Service) UpdateQuestion(ctx context.Context, p identity.Principal, id string, req QuestionRequest) (*store.Question, error) {
	if err := identity.RequireRole(p, store.RoleTechnicalExpert, store.RoleAdmin); err != nil {
		return nil, err
	}

	if req.QuestionText == "" {
		return nil, errs.Validationf("questionText is required")
	}
	if !store.ValidDifficulty(req.Difficulty) {
		return nil, errs.Validationf("invalid difficulty level %q", req.Difficulty)
	}
	if len(req.Instruction) > maxInstructionLength {
		return nil, errs.Validationf("instruction must be at most %d characters", maxInstructionLength)
	}

	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	qt, err := s.store.GetQuestionTypeByName(ctx, req.QuestionType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.Validationf("invalid question type")
		}
		return nil, fmt.Errorf("failed to look up question type: %w", err)
	}

	q.QuestionText = req.QuestionText
	q.QuestionTypeID = qt.ID
	q.OptionIDs = req.OptionIDs
	q.DifficultyLevel = req.Difficulty
	q.Instruction = req.Instruction
	q.ParagraphText = ""
	q.FillInTheBlanks = ""
	if qt.Name == store.QuestionTypeParagraph {
		q.ParagraphText = req.ParagraphText
	}
	if qt.Name == store.QuestionTypeFillInTheBlanks {
		q.FillInTheBlanks = req.FillInTheBlanks
	}

	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes a question.
func (s *Service) DeleteQuestion(ctx context.Context, p identity.Principal, id string) error {
	if err := identity.RequireRole(p, store.RoleTechnicalExpert, store.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("question %s not found", id)
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// OptionRequest carries the parameters for creating or updating an
// answer option.
type OptionRequest struct {
	Content       string
	IsRightAnswer bool
	IsMultiSelect bool
}

// CreateOption creates an answer option.
func (s *Service) CreateOption(ctx context.Context, req OptionRequest) (*store.Option, error) {
	if req.Content == "" {
		return nil, errs.Validationf("content is required")
	}

	o := &store.Option{
		ID:            store.NewID(),
		Content:       req.Content,
		IsRightAnswer: req.IsRightAnswer,
		IsMultiSelect: req.IsMultiSelect,
	}
	if err := s.store.CreateOption(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create option: %w", err)
	}
	return o, nil
}

// GetOption returns a single option by id.
func (s *Service) GetOption(ctx context.Context, id string) (*store.Option, error) {
	o, err := s.store.GetOption(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("option %s not found", id)
		}
		return nil, fmt.Errorf("failed to get option: %w", err)
	}
	return o, nil
}

// ListOptions returns all options.
func (s *Service) ListOptions(ctx context.Context) ([]*store.Option, error) {
	return s.store.ListOptions(ctx)
}

// UpdateOption replaces an option's content.
func (s *Service) UpdateOption(ctx context.Context, id string, req OptionRequest) (*store.Option, error) {
	if req.Content == "" {
		return nil, errs.Validationf("content is required")
	}

	o, err := s.GetOption(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Content = req.Content
	o.IsRightAnswer = req.IsRightAnswer
	o.IsMultiSelect = req.IsMultiSelect
	if err := s.store.UpdateOption(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update option: %w", err)
	}
	return o, nil
}

// DeleteOption removes an option.
func (s *Service) DeleteOption(ctx context.Context, id string) error {
	if err := s.store.DeleteOption(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("option %s not found", id)
		}
		return fmt.Errorf("failed to delete option: %w", err)
	}
	return nil
}
