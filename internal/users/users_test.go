package users_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
	"github.com/MoizAnsari7/itest-backend/internal/store/memory"
	"github.com/MoizAnsari7/itest-backend/internal/users"
)

func newTestService(t *testing.T) (*users.Service, *memory.Driver) {
	t.Helper()
	st := memory.New()
	auth := identity.NewUserAuth(bcrypt.MinCost)
	tokens := identity.NewTokenIssuer("test-secret", time.Hour)
	return users.NewService(st, auth, tokens), st
}

func validUserRequest() users.UserRequest {
	return users.UserRequest{
		Email:     "alice@example.com",
		Password:  "s3cret",
		FirstName: "Alice",
		LastName:  "Doe",
		Role:      store.RoleHR,
	}
}

func TestCreateUser_Success(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), validUserRequest())
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Error("password stored unhashed")
	}
	if u.Role != store.RoleHR {
		t.Errorf("role = %q, want hr", u.Role)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	req := validUserRequest()
	req.Email = ""
	if _, err := svc.CreateUser(context.Background(), req); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("missing email: got %v, want ErrValidation", err)
	}

	req = validUserRequest()
	req.Role = "superuser"
	if _, err := svc.CreateUser(context.Background(), req); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("invalid role: got %v, want ErrValidation", err)
	}

	req = validUserRequest()
	req.Password = ""
	if _, err := svc.CreateUser(context.Background(), req); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("missing password: got %v, want ErrValidation", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), validUserRequest()); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), validUserRequest()); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("duplicate email: got %v, want ErrValidation", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateUser(context.Background(), validUserRequest())
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, u, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("token is empty")
	}
	if u.ID != created.ID {
		t.Errorf("user id = %q, want %q", u.ID, created.ID)
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("wrong password: got %v, want ErrUnauthenticated", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("unknown email: got %v, want ErrUnauthenticated", err)
	}
}

func TestUpdateUser_KeepsPasswordWhenOmitted(t *testing.T) {
	svc, st := newTestService(t)

	u, err := svc.CreateUser(context.Background(), validUserRequest())
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	req := validUserRequest()
	req.Password = ""
	req.FirstName = "Alicia"
	if _, err := svc.UpdateUser(context.Background(), u.ID, req); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	stored, err := st.GetUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if stored.FirstName != "Alicia" {
		t.Errorf("firstName = %q, want Alicia", stored.FirstName)
	}
	if stored.PasswordHash != u.PasswordHash {
		t.Error("password hash changed without a new password")
	}
}

func validProfileRequest(userID string) users.ProfileRequest {
	return users.ProfileRequest{
		UserID:    userID,
		FirstName: "Alice",
		LastName:  "Doe",
		Email:     "alice@example.com",
		Skills:    []string{"go", "sql"},
	}
}

func TestCreateProfile_OnePerUser(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), validUserRequest())
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := svc.CreateProfile(context.Background(), validProfileRequest(u.ID)); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if _, err := svc.CreateProfile(context.Background(), validProfileRequest(u.ID)); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("second profile: got %v, want ErrValidation", err)
	}
}

func TestCreateProfile_RequiresExistingUser(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateProfile(context.Background(), validProfileRequest("no-such-user")); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile_BumpsUpdatedAtAndKeepsUser(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), validUserRequest())
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	prof, err := svc.CreateProfile(context.Background(), validProfileRequest(u.ID))
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	later := prof.UpdatedAt.Add(time.Hour)
	svc.WithClock(func() time.Time { return later })

	req := validProfileRequest("someone-else")
	req.Education = "MSc"
	updated, err := svc.UpdateProfile(context.Background(), prof.ID, req)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.UserID != u.ID {
		t.Errorf("userID = %q, the bound user must not change", updated.UserID)
	}
	if updated.Education != "MSc" {
		t.Errorf("education = %q, want MSc", updated.Education)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Errorf("updatedAt = %v, want %v", updated.UpdatedAt, later)
	}
}

func TestGetProfileByUser(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), validUserRequest())
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	prof, err := svc.CreateProfile(context.Background(), validProfileRequest(u.ID))
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	got, err := svc.GetProfileByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetProfileByUser failed: %v", err)
	}
	if got.ID != prof.ID {
		t.Errorf("profile id = %q, want %q", got.ID, prof.ID)
	}

	if _, err := svc.GetProfileByUser(context.Background(), "no-such-user"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
