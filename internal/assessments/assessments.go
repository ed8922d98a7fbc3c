// Package assessments manages tests and the assessments composed from
// them. An assessment's total time is derived state: the sum of its
// section tests' time allocations, recomputed on every write.
package assessments

import (
	"context"
	"errors"
	"fmt"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Service implements test and assessment management.
type Service struct {
	store store.Store
}

// NewService creates an assessments service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// TestRequest carries the parameters for creating or updating a test.
type TestRequest struct {
	Questions      []store.TestQuestion
	TimeAllocation int
	IsLibraryTest  bool
}

func validateTestRequest(req TestRequest) error {
	if req.TimeAllocation <= 0 {
		return errs.Validationf("timeAllocation must be positive")
	}
	seen := make(map[int]bool, len(req.Questions))
	for _, q := range req.Questions {
		if q.QuestionID == "" {
			return errs.Validationf("question is required for every entry")
		}
		if q.Order <= 0 {
			return errs.Validationf("question order must be positive")
		}
		if seen[q.Order] {
			return errs.Validationf("duplicate question order %d", q.Order)
		}
		seen[q.Order] = true
	}
	return nil
}

// CreateTest creates a test. TotalQuestions is derived from the
// question list.
func (s *Service) CreateTest(ctx context.Context, p identity.Principal, req TestRequest) (*store.Test, error) {
	if err := validateTestRequest(req); err != nil {
		return nil, err
	}

	t := &store.Test{
		ID:             store.NewID(),
		Questions:      req.Questions,
		TimeAllocation: req.TimeAllocation,
		TotalQuestions: len(req.Questions),
		CreatedBy:      p.UserID,
		IsLibraryTest:  req.IsLibraryTest,
	}
	if err := s.store.CreateTest(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}
	return t, nil
}

// GetTest returns a single test by id.
func (s *Service) GetTest(ctx context.Context, id string) (*store.Test, error) {
	t, err := s.store.GetTest(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("test %s not found", id)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return t, nil
}

// ListTests returns all tests.
func (s *Service) ListTests(ctx context.Context) ([]*store.Test, error) {
	return s.store.ListTests(ctx)
}

// UpdateTest replaces a test's content, re-deriving TotalQuestions.
func (s *Service) UpdateTest(ctx context.Context, id string, req TestRequest) (*store.Test, error) {
	if err := validateTestRequest(req); err != nil {
		return nil, err
	}

	t, err := s.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Questions = req.Questions
	t.TimeAllocation = req.TimeAllocation
	t.TotalQuestions = len(req.Questions)
	t.IsLibraryTest = req.IsLibraryTest
	if err := s.store.UpdateTest(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update test: %w", err)
	}
	return t, nil
}

// DeleteTest removes a test.
func (s *Service) DeleteTest(ctx context.Context, id string) error {
	if err := s.store.DeleteTest(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("test %s not found", id)
		}
		return fmt.Errorf("failed to delete test: %w", err)
	}
	return nil
}

// AssessmentRequest carries the parameters for creating or updating an
// assessment.
type AssessmentRequest struct {
	Sections     []store.AssessmentSection
	Instructions string
}

// totalTime sums the time allocations of the referenced tests.
// Every referenced test must exist.
func (s *Service) totalTime(ctx context.Context, sections []store.AssessmentSection) (int, error) {
	seen := make(map[int]bool, len(sections))
	var total int
	for _, section := range sections {
		if section.TestID == "" {
			return 0, errs.Validationf("test is required for every section")
		}
		if section.Order <= 0 {
			return 0, errs.Validationf("section order must be positive")
		}
		if seen[section.Order] {
			return 0, errs.Validationf("duplicate section order %d", section.Order)
		}
		seen[section.Order] = true

		t, err := s.store.GetTest(ctx, section.TestID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return 0, errs.NotFoundf("test %s not found", section.TestID)
			}
			return 0, fmt.Errorf("failed to look up test: %w", err)
		}
		total += t.TimeAllocation
	}
	return total, nil
}

// CreateAssessment creates an assessment with derived TotalTime.
func (s *Service) CreateAssessment(ctx context.Context, p identity.Principal, req AssessmentRequest) (*store.Assessment, error) {
	total, err := s.totalTime(ctx, req.Sections)
	if err != nil {
		return nil, err
	}

	a := &store.Assessment{
		ID:           store.NewID(),
		Sections:     req.Sections,
		Instructions: req.Instructions,
		TotalTime:    total,
		CreatedBy:    p.UserID,
	}
	if err := s.store.CreateAssessment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return a, nil
}

// GetAssessment returns a single assessment by id.
func (s *Service) GetAssessment(ctx context.Context, id string) (*store.Assessment, error) {
	a, err := s.store.GetAssessment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("assessment %s not found", id)
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// ListAssessments returns all assessments.
func (s *Service) ListAssessments(ctx context.Context) ([]*store.Assessment, error) {
	return s.store.ListAssessments(ctx)
}

// UpdateAssessment replaces an assessment's content, re-deriving
// TotalTime.
func (s *Service) UpdateAssessment(ctx context.Context, id string, req AssessmentRequest) (*store.Assessment, error) {
	a, err := s.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.totalTime(ctx, req.Sections)
	if err != nil {
		return nil, err
	}

	a.Sections = req.Sections
	a.Instructions = req.Instructions
	a.TotalTime = total
	if err := s.store.UpdateAssessment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update assessment: %w", err)
	}
	return a, nil
}

// DeleteAssessment removes an assessment.
func (s *Service) DeleteAssessment(ctx context.Context, id string) error {
	if err := s.store.DeleteAssessment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("assessment %s not found", id)
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return nil
}

// Clone copies an assessment under a new id, owned by the caller.
func (s *Service) Clone(ctx context.Context, p identity.Principal, id string) (*store.Assessment, error) {
	src, err := s.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := &store.Assessment{
		ID:           store.NewID(),
		Sections:     append([]store.AssessmentSection(nil), src.Sections...),
		Instructions: src.Instructions,
		TotalTime:    src.TotalTime,
		CreatedBy:    p.UserID,
	}
	if err := s.store.CreateAssessment(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to clone assessment: %w", err)
	}
	return clone, nil
}
