package invitations_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/invitations"
	"github.com/MoizAnsari7/itest-backend/internal/store"
	"github.com/MoizAnsari7/itest-backend/internal/store/memory"
)

func newTestHandler(t *testing.T) (*invitations.Handler, *invitations.Service) {
	t.Helper()
	st := memory.New()
	if err := st.CreateAssessment(context.Background(), &store.Assessment{ID: "asmt-1"}); err != nil {
		t.Fatalf("failed to seed assessment: %v", err)
	}
	if err := st.CreateUser(context.Background(), &store.User{
		ID:    "cand-1",
		Email: "candidate@example.com",
		Role:  store.RoleUser,
	}); err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
	svc := invitations.NewService(st, nil, testLogger).WithClock(func() time.Time { return fixedClock })
	return invitations.NewHandler(svc), svc
}

func doRequest(h *invitations.Handler, method, target string, body any, p *identity.Principal) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if p != nil {
		req = req.WithContext(identity.WithPrincipal(req.Context(), *p))
	}
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func TestHandleIssue_Created(t *testing.T) {
	h, _ := newTestHandler(t)

	body := map[string]any{
		"assessment": "asmt-1",
		"user":       "cand-1",
		"validFrom":  fixedClock.Add(time.Hour).Format(time.RFC3339),
		"validUntil": fixedClock.Add(48 * time.Hour).Format(time.RFC3339),
	}
	w := doRequest(h, http.MethodPost, "/", body, &hrPrincipal)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var inv store.TestInvitation
	if err := json.NewDecoder(w.Body).Decode(&inv); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if inv.Status != store.InvitationPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}
	if inv.Passkey == "" {
		t.Error("passkey is empty")
	}
}

func TestHandleIssue_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(h, http.MethodPost, "/", map[string]any{"assessment": "asmt-1"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestHandleIssue_ForbiddenForPlainUser(t *testing.T) {
	h, _ := newTestHandler(t)

	body := map[string]any{
		"assessment": "asmt-1",
		"user":       "cand-1",
		"validFrom":  fixedClock.Add(time.Hour).Format(time.RFC3339),
		"validUntil": fixedClock.Add(48 * time.Hour).Format(time.RFC3339),
	}
	w := doRequest(h, http.MethodPost, "/", body, &userPrincipal)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleIssue_InvalidWindow(t *testing.T) {
	h, _ := newTestHandler(t)

	body := map[string]any{
		"assessment": "asmt-1",
		"user":       "cand-1",
		"validFrom":  fixedClock.Add(-time.Hour).Format(time.RFC3339),
		"validUntil": fixedClock.Add(48 * time.Hour).Format(time.RFC3339),
	}
	w := doRequest(h, http.MethodPost, "/", body, &hrPrincipal)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleAcceptCompleteFlow(t *testing.T) {
	h, svc := newTestHandler(t)

	inv, err := svc.Issue(context.Background(), hrPrincipal, invitations.IssueRequest{
		AssessmentID: "asmt-1",
		CandidateID:  "cand-1",
		ValidFrom:    fixedClock.Add(time.Hour),
		ValidUntil:   fixedClock.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	svc.WithClock(func() time.Time { return fixedClock.Add(2 * time.Hour) })

	w := doRequest(h, http.MethodPost, "/"+inv.ID+"/accept", map[string]string{"passkey": inv.Passkey}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(h, http.MethodPost, "/"+inv.ID+"/complete", map[string]any{"score": 85.5, "status": "passed"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got store.TestInvitation
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Status != store.InvitationCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.Result.Score != 85.5 {
		t.Errorf("score = %v, want 85.5", got.Result.Score)
	}
}

func TestHandleAccept_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(h, http.MethodPost, "/no-such-id/accept", map[string]string{"passkey": "x"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleSweep_RoleGated(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(h, http.MethodPost, "/sweep", nil, &userPrincipal)
	if w.Code != http.StatusForbidden {
		t.Errorf("user sweep: expected 403, got %d", w.Code)
	}

	w = doRequest(h, http.MethodPost, "/sweep", nil, &hrPrincipal)
	if w.Code != http.StatusOK {
		t.Errorf("hr sweep: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleList_EmptyIsArray(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(h, http.MethodGet, "/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}
