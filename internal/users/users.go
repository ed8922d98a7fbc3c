// Package users manages platform accounts and candidate profiles, and
// implements login.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Service implements account and profile management.
type Service struct {
	store  store.Store
	auth   *identity.UserAuth
	tokens *identity.TokenIssuer
	now    func() time.Time
}

// NewService creates a users service.
func NewService(st store.Store, auth *identity.UserAuth, tokens *identity.TokenIssuer) *Service {
	return &Service{store: st, auth: auth, tokens: tokens, now: time.Now}
}

// WithClock replaces the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// UserRequest carries the parameters for creating or updating a user.
type UserRequest struct {
	Email        string
	Password     string
	Number       string
	FirstName    string
	LastName     string
	Organization string
	Role         store.Role
}

func validateUserRequest(req UserRequest) error {
	if req.Email == "" {
		return errs.Validationf("email is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return errs.Validationf("firstName and lastName are required")
	}
	if !store.ValidRole(req.Role) {
		return errs.Validationf("invalid role %q", req.Role)
	}
	return nil
}

// CreateUser registers an account. Email addresses are unique.
func (s *Service) CreateUser(ctx context.Context, req UserRequest) (*store.User, error) {
	if err := validateUserRequest(req); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, errs.Validationf("password is required")
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &store.User{
		ID:           store.NewID(),
		Email:        req.Email,
		Number:       req.Number,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Organization: req.Organization,
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errs.Validationf("email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetUser returns a single user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*store.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]*store.User, error) {
	return s.store.ListUsers(ctx)
}

// UpdateUser replaces a user's editable fields. The password is only
// rehashed when a new one is supplied.
func (s *Service) UpdateUser(ctx context.Context, id string, req UserRequest) (*store.User, error) {
	if err := validateUserRequest(req); err != nil {
		return nil, err
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Email = req.Email
	u.Number = req.Number
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Organization = req.Organization
	u.Role = req.Role
	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errs.Validationf("email already registered")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("user %s not found", id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *store.User, error) {
	if email == "" || password == "" {
		return "", nil, errs.Validationf("email and password are required")
	}

	u, err := s.auth.Authenticate(ctx, s.store, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return "", nil, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthenticated)
		}
		return "", nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, u, nil
}

// ProfileRequest carries the parameters for creating or updating a
// candidate profile.
type ProfileRequest struct {
	UserID     string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Education  string
	Experience string
	Skills     []string
	Resume     string
	Address    store.Address
}

func validateProfileRequest(req ProfileRequest) error {
	if req.UserID == "" {
		return errs.Validationf("user is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return errs.Validationf("firstName and lastName are required")
	}
	if req.Email == "" {
		return errs.Validationf("email is required")
	}
	return nil
}

// CreateProfile creates a candidate profile. At most one profile may
// exist per user.
func (s *Service) CreateProfile(ctx context.Context, req ProfileRequest) (*store.CandidateProfile, error) {
	if err := validateProfileRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("user %s not found", req.UserID)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := s.now()
	prof := &store.CandidateProfile{
		ID:         store.NewID(),
		UserID:     req.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Education:  req.Education,
		Experience: req.Experience,
		Skills:     req.Skills,
		Resume:     req.Resume,
		Address:    req.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateProfile(ctx, prof); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errs.Validationf("Profile already exists for this user.")
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return prof, nil
}

// GetProfile returns a single candidate profile by id.
func (s *Service) GetProfile(ctx context.Context, id string) (*store.CandidateProfile, error) {
	prof, err := s.store.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("profile %s not found", id)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return prof, nil
}

// GetProfileByUser returns the profile bound to a user, if any.
func (s *Service) GetProfileByUser(ctx context.Context, userID string) (*store.CandidateProfile, error) {
	prof, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFoundf("no profile for user %s", userID)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return prof, nil
}

// ListProfiles returns all candidate profiles.
func (s *Service) ListProfiles(ctx context.Context) ([]*store.CandidateProfile, error) {
	return s.store.ListProfiles(ctx)
}

// UpdateProfile replaces a profile's editable fields and bumps UpdatedAt.
// The bound user cannot change.
func (s *Service) UpdateProfile(ctx context.Context, id string, req ProfileRequest) (*store.CandidateProfile, error) {
	prof, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	req.UserID = prof.UserID
	if err := validateProfileRequest(req); err != nil {
		return nil, err
	}

	prof.FirstName = req.FirstName
	prof.LastName = req.LastName
	prof.Email = req.Email
	prof.Phone = req.Phone
	prof.Education = req.Education
	prof.Experience = req.Experience
	prof.Skills = req.Skills
	prof.Resume = req.Resume
	prof.Address = req.Address
	prof.UpdatedAt = s.now()

	if err := s.store.UpdateProfile(ctx, prof); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return prof, nil
}

// DeleteProfile removes a candidate profile.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if err := s.store.DeleteProfile(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NotFoundf("profile %s not found", id)
		}
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
