// Package invitations owns the test-invitation lifecycle: passkey
// issuance, validity-window enforcement, status transitions, and the
// expiry sweep.
package invitations

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/notify"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// passkeyPattern is the wire format of a passkey: 32 lowercase hex chars.
var passkeyPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Service implements the invitation lifecycle against the entity store.
//
// All mutation is last-writer-wins at single-document granularity; there
// are no multi-document transactions and no retries. The expiry sweep is
// an explicit operation: List invokes it inline so that reads observe
// up-to-date statuses, but callers may also run it on a timer.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an invitation lifecycle service.
func NewService(st store.Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Service{
		store:    st,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueRequest carries the parameters for issuing an invitation.
// Passkey is optional; when empty a fresh one is generated.
type IssueRequest struct {
	AssessmentID string
	CandidateID  string
	ValidFrom    time.Time
	ValidUntil   time.Time
	Passkey      string
}

// Issue creates a new invitation in state pending.
//
// The issuer must hold the hr or admin role. The validity window must be
// strictly in the future and non-empty, and both the assessment and the
// candidate must exist. Notification delivery is best-effort: a failure
// is logged and the created invitation stands.
func (s *Service) Issue(ctx context.Context, p identity.Principal, req IssueRequest) (*store.TestInvitation, error) {
	if err := identity.RequireRole(p, store.RoleHR, store.RoleAdmin); err != nil {
		return nil, err
	}

	if req.AssessmentID == "" {
		return nil, errs.Validationf("assessment is required")
	}
	if req.CandidateID == "" {
		return nil, errs.Validationf("user is required")
	}

	now := s.now()
	if !req.ValidFrom.After(now) {
		return nil, errs.Validationf("validFrom must be in the future")
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, errs.Validationf("validUntil must be after validFrom")
	}

	if _, err := s.store.GetAssessment(ctx, req.AssessmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("assessment %s not found", req.AssessmentID)
		}
		return nil, fmt.Errorf("failed to look up assessment: %w", err)
	}

	candidate, err := s.store.GetUser(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("user %s not found", req.CandidateID)
		}
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}

	// Only one passkey is ever issued per invitation; a caller-supplied
	// key is kept as-is, never regenerated.
	passkey := req.Passkey
	if passkey == "" {
		passkey, err = generatePasskey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate passkey: %w", err)
		}
	} else if !passkeyPattern.MatchString(passkey) {
		return nil, errs.Validationf("passkey must be a 32-character lowercase hex string")
	}

	inv := &store.TestInvitation{
		ID:           store.NewID(),
		AssessmentID: req.AssessmentID,
		CandidateID:  req.CandidateID,
		CreatedBy:    p.UserID,
		Passkey:      passkey,
		Status:       store.InvitationPending,
		Result:       store.Result{Status: store.ResultNotAttempted},
		SentAt:       now,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
	}

	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errs.Validationf("passkey already in use")
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	if err := s.notifier.SendInvitation(ctx, candidate.Email, inv.Passkey); err != nil {
		s.logger.Warn("failed to send invitation notification",
			"invitation_id", inv.ID, "error", err)
	}

	return inv, nil
}

// SweepExpired transitions every pending or accepted invitation whose
// validUntil is at or before now to expired. The boundary is exclusive
// on the valid side: validUntil == now means expired.
//
// Idempotent: already-expired invitations are untouched, so re-running
// with the same or a later now changes no additional records.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListInvitations(ctx, store.InvitationFilter{
		Statuses:  []store.InvitationStatus{store.InvitationPending, store.InvitationAccepted},
		DueBefore: &now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list invitations due for expiry: %w", err)
	}

	var expired int
	for _, inv := range due {
		inv.Status = store.InvitationExpired
		if err := s.store.UpdateInvitation(ctx, inv); err != nil {
			return expired, fmt.Errorf("failed to expire invitation %s: %w", inv.ID, err)
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("expired invitations", "count", expired)
	}
	return expired, nil
}

// Accept transitions a pending invitation to accepted.
//
// The presented passkey must match and the clock must be inside the
// validity window. An invitation past its window is expired on the way
// in (lazy sweep at single-document granularity).
func (s *Service) Accept(ctx context.Context, id, passkey string) (*store.TestInvitation, error) {
	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if inv, err = s.expireIfDue(ctx, inv, now); err != nil {
		return nil, err
	}

	if inv.Status != store.InvitationPending {
		return nil, errs.InvalidStatef("invitation is %s", inv.Status)
	}
	if now.Before(inv.ValidFrom) {
		return nil, errs.InvalidStatef("invitation is not yet valid")
	}
	if subtle.ConstantTimeCompare([]byte(inv.Passkey), []byte(passkey)) != 1 {
		return nil, errs.Validationf("invalid passkey")
	}

	inv.Status = store.InvitationAccepted
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	return inv, nil
}

// Reject transitions a pending invitation to rejected.
func (s *Service) Reject(ctx context.Context, id string) (*store.TestInvitation, error) {
	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv, err = s.expireIfDue(ctx, inv, s.now()); err != nil {
		return nil, err
	}

	if inv.Status != store.InvitationPending {
		return nil, errs.InvalidStatef("invitation is %s", inv.Status)
	}

	inv.Status = store.InvitationRejected
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	return inv, nil
}

// Complete transitions an accepted invitation to completed, recording
// the result and the completion time. Valid only from accepted;
// completed is terminal, so repeat calls fail.
func (s *Service) Complete(ctx context.Context, id string, score float64, result store.ResultStatus) (*store.TestInvitation, error) {
	if result != store.ResultPassed && result != store.ResultFailed {
		return nil, errs.Validationf("result status must be passed or failed")
	}

	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if inv, err = s.expireIfDue(ctx, inv, now); err != nil {
		return nil, err
	}

	if inv.Status != store.InvitationAccepted {
		return nil, errs.InvalidStatef("invitation is %s", inv.Status)
	}

	inv.Status = store.InvitationCompleted
	inv.CompletedAt = &now
	inv.Result = store.Result{Score: score, Status: result}
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	return inv, nil
}

// RecordIncident appends an entry to the invitation's incident log.
// Valid in any non-terminal state.
func (s *Service) RecordIncident(ctx context.Context, id, description string) (*store.TestInvitation, error) {
	if description == "" {
		return nil, errs.Validationf("description is required")
	}

	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status.Terminal() {
		return nil, errs.InvalidStatef("invitation is %s", inv.Status)
	}

	inv.Incidents = append(inv.Incidents, store.Incident{
		Description: description,
		Timestamp:   s.now(),
	})
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	return inv, nil
}

// Get returns a single invitation by id.
func (s *Service) Get(ctx context.Context, id string) (*store.TestInvitation, error) {
	return s.get(ctx, id)
}

// List returns all invitations, sweeping expired ones first so the
// returned statuses reflect the current clock.
func (s *Service) List(ctx context.Context) ([]*store.TestInvitation, error) {
	if _, err := s.SweepExpired(ctx, s.now()); err != nil {
		return nil, err
	}
	return s.store.ListInvitations(ctx, store.InvitationFilter{})
}

// ListByAssessment returns the invitations referencing an assessment.
func (s *Service) ListByAssessment(ctx context.Context, assessmentID string) ([]*store.TestInvitation, error) {
	return s.store.ListInvitations(ctx, store.InvitationFilter{AssessmentID: assessmentID})
}

func (s *Service) get(ctx context.Context, id string) (*store.TestInvitation, error) {
	inv, err := s.store.GetInvitation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("invitation %s not found", id)
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// expireIfDue applies the lazy expiry rule to a single invitation: a
// non-terminal invitation whose validUntil is at or before now becomes
// expired and is persisted before the caller's transition is attempted.
func (s *Service) expireIfDue(ctx context.Context, inv *store.TestInvitation, now time.Time) (*store.TestInvitation, error) {
	if inv.Status.Terminal() || inv.ValidUntil.After(now) {
		return inv, nil
	}
	inv.Status = store.InvitationExpired
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to expire invitation: %w", err)
	}
	return inv, nil
}

// generatePasskey creates a cryptographically secure random passkey:
// 16 random bytes as 32 lowercase hex characters.
func generatePasskey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
