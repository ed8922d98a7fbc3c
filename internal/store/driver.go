// Package store provides persistence primitives and driver abstractions.
package store

import (
	"context"
	"errors"
	"time"
)

// Common errors for store operations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrClosed        = errors.New("store closed")
)

// Driver defines the interface for a persistence backend.
// Implementations must be safe for concurrent use.
type Driver interface {
	// Init initializes the driver (create tables, load data, etc).
	Init(ctx context.Context) error

	// Close releases resources held by the driver.
	Close() error

	// Name returns the driver name (sqlite, memory).
	Name() string

	Store
}

// Store is the full set of collection operations backed by a driver.
type Store interface {
	UserStore
	ProfileStore
	QuestionTypeStore
	QuestionStore
	OptionStore
	TestStore
	AssessmentStore
	InvitationStore
	ReviewStore
}

// UserStore defines operations for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
}

// ProfileStore defines operations for candidate profile persistence.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *CandidateProfile) error
	GetProfile(ctx context.Context, id string) (*CandidateProfile, error)
	GetProfileByUser(ctx context.Context, userID string) (*CandidateProfile, error)
	ListProfiles(ctx context.Context) ([]*CandidateProfile, error)
	UpdateProfile(ctx context.Context, profile *CandidateProfile) error
	DeleteProfile(ctx context.Context, id string) error
}

// QuestionTypeStore defines operations for question type persistence.
type QuestionTypeStore interface {
	CreateQuestionType(ctx context.Context, qt *QuestionType) error
	GetQuestionType(ctx context.Context, id string) (*QuestionType, error)
	GetQuestionTypeByName(ctx context.Context, name string) (*QuestionType, error)
	ListQuestionTypes(ctx context.Context) ([]*QuestionType, error)
	UpdateQuestionType(ctx context.Context, qt *QuestionType) error
	DeleteQuestionType(ctx context.Context, id string) error
}

// QuestionFilter narrows question listings. Zero values mean "any".
type QuestionFilter struct {
	Difficulty     Difficulty
	QuestionTypeID string
	CreatedBy      string
	IsLibrary      *bool
}

// QuestionStore defines operations for question persistence.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *Question) error
	GetQuestion(ctx context.Context, id string) (*Question, error)
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]*Question, error)
	UpdateQuestion(ctx context.Context, q *Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

// OptionStore defines operations for option persistence.
type OptionStore interface {
	CreateOption(ctx context.Context, o *Option) error
	GetOption(ctx context.Context, id string) (*Option, error)
	ListOptions(ctx context.Context) ([]*Option, error)
	UpdateOption(ctx context.Context, o *Option) error
	DeleteOption(ctx context.Context, id string) error
}

// TestStore defines operations for test persistence.
type TestStore interface {
	CreateTest(ctx context.Context, t *Test) error
	GetTest(ctx context.Context, id string) (*Test, error)
	ListTests(ctx context.Context) ([]*Test, error)
	UpdateTest(ctx context.Context, t *Test) error
	DeleteTest(ctx context.Context, id string) error
}

// AssessmentStore defines operations for assessment persistence.
type AssessmentStore interface {
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id string) (*Assessment, error)
	ListAssessments(ctx context.Context) ([]*Assessment, error)
	UpdateAssessment(ctx context.Context, a *Assessment) error
	DeleteAssessment(ctx context.Context, id string) error
}

// InvitationFilter narrows invitation listings. Zero values mean "any".
// DueBefore matches invitations whose validUntil is at or before the
// given instant (the expiry boundary is exclusive on the valid side).
type InvitationFilter struct {
	Statuses     []InvitationStatus
	DueBefore    *time.Time
	AssessmentID string
	CandidateID  string
}

// InvitationStore defines operations for invitation persistence.
// Invitations are never deleted: the record is the audit trail.
type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *TestInvitation) error
	GetInvitation(ctx context.Context, id string) (*TestInvitation, error)
	ListInvitations(ctx context.Context, filter InvitationFilter) ([]*TestInvitation, error)
	UpdateInvitation(ctx context.Context, inv *TestInvitation) error
}

// ReviewFilter narrows review listings. Zero values mean "any".
type ReviewFilter struct {
	MinRating     int
	MaxRating     int
	From          *time.Time
	To            *time.Time
	CandidateID   string
	InvitationIDs []string
}

// ReviewStore defines operations for review persistence.
// Reviews are immutable once created: no update or delete operations.
type ReviewStore interface {
	CreateReview(ctx context.Context, rev *Review) error
	GetReview(ctx context.Context, id string) (*Review, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]*Review, error)
}
