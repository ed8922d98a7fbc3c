// Package reviews implements the review gate: a candidate may review an
// assessment only once the referenced invitation has completed.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// maxCommentLength bounds the optional feedback text.
const maxCommentLength = 500

// Service implements review submission and listing.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates a review service.
func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitRequest carries the parameters for submitting a review.
type SubmitRequest struct {
	TestInvitationID string
	Rating           int
	Comments         string
}

// Submit creates a review bound to a completed invitation.
//
// The invitation must exist and be in state completed; the rating must
// be between 1 and 5. Reviews are immutable once created: there is no
// update or delete path.
func (s *Service) Submit(ctx context.Context, p identity.Principal, req SubmitRequest) (*store.Review, error) {
	if req.TestInvitationID == "" {
		return nil, errs.Validationf("testInvitation is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errs.Validationf("rating must be between 1 and 5")
	}
	if len(req.Comments) > maxCommentLength {
		return nil, errs.Validationf("comments must be at most %d characters", maxCommentLength)
	}

	inv, err := s.store.GetInvitation(ctx, req.TestInvitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("invitation %s not found", req.TestInvitationID)
		}
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}
	if inv.Status != store.InvitationCompleted {
		return nil, errs.Preconditionf("assessment must be completed to submit a review")
	}

	rev := &store.Review{
		ID:               store.NewID(),
		TestInvitationID: req.TestInvitationID,
		CandidateID:      p.UserID,
		Rating:           req.Rating,
		Comments:         req.Comments,
		CreatedAt:        s.now(),
	}
	if err := s.store.CreateReview(ctx, rev); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return rev, nil
}

// Filter narrows review listings.
type Filter struct {
	MinRating   int
	MaxRating   int
	From        *time.Time
	To          *time.Time
	CandidateID string
}

// List returns reviews matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*store.Review, error) {
	if filter.MinRating < 0 || filter.MinRating > 5 || filter.MaxRating < 0 || filter.MaxRating > 5 {
		return nil, errs.Validationf("rating bounds must be between 1 and 5")
	}
	return s.store.ListReviews(ctx, store.ReviewFilter{
		MinRating:   filter.MinRating,
		MaxRating:   filter.MaxRating,
		From:        filter.From,
		To:          filter.To,
		CandidateID: filter.CandidateID,
	})
}

// ListByAssessment returns the reviews for a given assessment.
//
// The join is explicit: resolve the assessment's invitation ids first,
// then fetch the reviews bound to those invitations.
func (s *Service) ListByAssessment(ctx context.Context, assessmentID string) ([]*store.Review, error) {
	if _, err := s.store.GetAssessment(ctx, assessmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("assessment %s not found", assessmentID)
		}
		return nil, fmt.Errorf("failed to look up assessment: %w", err)
	}

	invitations, err := s.store.ListInvitations(ctx, store.InvitationFilter{AssessmentID: assessmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	ids := make([]string, 0, len(invitations))
	for _, inv := range invitations {
		ids = append(ids, inv.ID)
	}

	return s.store.ListReviews(ctx, store.ReviewFilter{InvitationIDs: ids})
}
