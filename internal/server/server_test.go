package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MoizAnsari7/itest-backend/internal/config"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/server"
	"github.com/MoizAnsari7/itest-backend/internal/store"
	"github.com/MoizAnsari7/itest-backend/internal/store/memory"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestServer(t *testing.T) (*server.Server, *identity.TokenIssuer, store.Store) {
	t.Helper()
	st := memory.New()
	auth := identity.NewUserAuth(bcrypt.MinCost)
	tokens := identity.NewTokenIssuer("test-secret", time.Hour)

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"

	srv, err := server.New(cfg, testLogger, &server.Deps{
		Store:    st,
		UserAuth: auth,
		Tokens:   tokens,
	})
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	return srv, tokens, st
}

func TestNew_MissingDeps(t *testing.T) {
	cfg := config.Default()

	_, err := server.New(cfg, testLogger, &server.Deps{})
	if !errors.Is(err, server.ErrMissingDep) {
		t.Errorf("got %v, want ErrMissingDep", err)
	}

	_, err = server.New(cfg, testLogger, &server.Deps{Store: memory.New()})
	if !errors.Is(err, server.ErrMissingDep) {
		t.Errorf("got %v, want ErrMissingDep", err)
	}
}

func TestHealthzIsPublic(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, tokens, st := newTestServer(t)

	// No token.
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}

	// Valid token.
	if err := st.CreateUser(context.Background(), &store.User{
		ID:    "admin-1",
		Email: "admin@example.com",
		Role:  store.RoleAdmin,
	}); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	token, err := tokens.Issue(&store.User{ID: "admin-1", Role: store.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginIsPublic(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// A user does not exist yet, so the credentials are wrong, but the
	// route itself must be reachable without a token.
	body, _ := json.Marshal(map[string]string{"email": "x@example.com", "password": "pw"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad credentials, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginFlow(t *testing.T) {
	srv, _, st := newTestServer(t)

	adminToken := registerAndLogin(t, srv, st, "admin@example.com", "adminpw", store.RoleAdmin)

	// The fresh token grants access to a protected route.
	req := httptest.NewRequest(http.MethodGet, "/assessments", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

// registerAndLogin seeds a user directly in the store and logs it in
// through the public route, returning the bearer token.
func registerAndLogin(t *testing.T, srv *server.Server, st store.Store, email, password string, role store.Role) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := st.CreateUser(context.Background(), &store.User{
		ID:           "u-" + email,
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		PasswordHash: string(hash),
	}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return resp.Token
}
