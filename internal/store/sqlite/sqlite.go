// Package sqlite implements a SQLite-based persistence driver using GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MoizAnsari7/itest-backend/internal/store"
)

func init() {
	store.Register("sqlite", NewDriver)
}

// Driver implements the store.Driver interface using SQLite via GORM.
type Driver struct {
	dataDir string
	db      *gorm.DB
}

// NewDriver creates a new SQLite driver instance.
func NewDriver(cfg *store.DriverConfig) (store.Driver, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir is required for sqlite driver")
	}

	return &Driver{
		dataDir: cfg.DataDir,
	}, nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "sqlite"
}

// Init initializes the SQLite database and runs AutoMigrate.
func (d *Driver) Init(ctx context.Context) error {
	dbPath := filepath.Join(d.dataDir, "itest.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	d.db = db

	// AutoMigrate creates/updates tables based on model structs
	if err := db.AutoMigrate(
		&store.User{},
		&store.CandidateProfile{},
		&store.QuestionType{},
		&store.Option{},
		&store.Question{},
		&store.Test{},
		&store.Assessment{},
		&store.TestInvitation{},
		&store.Review{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// create inserts a record, translating duplicate-key failures.
func (d *Driver) create(ctx context.Context, value any) error {
	result := d.db.WithContext(ctx).Create(value)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return store.ErrAlreadyExists
		}
		return result.Error
	}
	return nil
}

// first loads a single record by condition, translating not-found.
func (d *Driver) first(ctx context.Context, dest any, query string, args ...any) error {
	result := d.db.WithContext(ctx).First(dest, append([]any{query}, args...)...)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return store.ErrNotFound
		}
		return result.Error
	}
	return nil
}

// deleteByID deletes a record by primary key, reporting not-found.
func (d *Driver) deleteByID(ctx context.Context, model any, id string) error {
	result := d.db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UserStore implementation

func (d *Driver) CreateUser(ctx context.Context, user *store.User) error {
	return d.create(ctx, user)
}

func (d *Driver) GetUser(ctx context.Context, id string) (*store.User, error) {
	var user store.User
	if err := d.first(ctx, &user, "id = ?", id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Driver) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	var user store.User
	if err := d.first(ctx, &user, "email = ?", email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Driver) ListUsers(ctx context.Context) ([]*store.User, error) {
	var users []*store.User
	result := d.db.WithContext(ctx).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (d *Driver) UpdateUser(ctx context.Context, user *store.User) error {
	result := d.db.WithContext(ctx).Save(user)
	return result.Error
}

func (d *Driver) DeleteUser(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.User{}, id)
}

// ProfileStore implementation

func (d *Driver) CreateProfile(ctx context.Context, profile *store.CandidateProfile) error {
	return d.create(ctx, profile)
}

func (d *Driver) GetProfile(ctx context.Context, id string) (*store.CandidateProfile, error) {
	var profile store.CandidateProfile
	if err := d.first(ctx, &profile, "id = ?", id); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (d *Driver) GetProfileByUser(ctx context.Context, userID string) (*store.CandidateProfile, error) {
	var profile store.CandidateProfile
	if err := d.first(ctx, &profile, "user_id = ?", userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (d *Driver) ListProfiles(ctx context.Context) ([]*store.CandidateProfile, error) {
	var profiles []*store.CandidateProfile
	result := d.db.WithContext(ctx).Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (d *Driver) UpdateProfile(ctx context.Context, profile *store.CandidateProfile) error {
	result := d.db.WithContext(ctx).Save(profile)
	return result.Error
}

func (d *Driver) DeleteProfile(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.CandidateProfile{}, id)
}

// QuestionTypeStore implementation

func (d *Driver) CreateQuestionType(ctx context.Context, qt *store.QuestionType) error {
	return d.create(ctx, qt)
}

func (d *Driver) GetQuestionType(ctx context.Context, id string) (*store.QuestionType, error) {
	var qt store.QuestionType
	if err := d.first(ctx, &qt, "id = ?", id); err != nil {
		return nil, err
	}
	return &qt, nil
}

func (d *Driver) GetQuestionTypeByName(ctx context.Context, name string) (*store.QuestionType, error) {
	var qt store.QuestionType
	if err := d.first(ctx, &qt, "name = ?", name); err != nil {
		return nil, err
	}
	return &qt, nil
}

func (d *Driver) ListQuestionTypes(ctx context.Context) ([]*store.QuestionType, error) {
	var qts []*store.QuestionType
	result := d.db.WithContext(ctx).Find(&qts)
	if result.Error != nil {
		return nil, result.Error
	}
	return qts, nil
}

func (d *Driver) UpdateQuestionType(ctx context.Context, qt *store.QuestionType) error {
	result := d.db.WithContext(ctx).Save(qt)
	return result.Error
}

func (d *Driver) DeleteQuestionType(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.QuestionType{}, id)
}

// QuestionStore implementation

func (d *Driver) CreateQuestion(ctx context.Context, q *store.Question) error {
	return d.create(ctx, q)
}

func (d *Driver) GetQuestion(ctx context.Context, id string) (*store.Question, error) {
	var q store.Question
	if err := d.first(ctx, &q, "id = ?", id); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *Driver) ListQuestions(ctx context.Context, filter store.QuestionFilter) ([]*store.Question, error) {
	query := d.db.WithContext(ctx)
	if filter.Difficulty != "" {
		query = query.Where("difficulty_level = ?", filter.Difficulty)
	}
	if filter.QuestionTypeID != "" {
		query = query.Where("question_type_id = ?", filter.QuestionTypeID)
	}
	if filter.CreatedBy != "" {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.IsLibrary != nil {
		query = query.Where("is_library = ?", *filter.IsLibrary)
	}

	var questions []*store.Question
	result := query.Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}
	return questions, nil
}

func (d *Driver) UpdateQuestion(ctx context.Context, q *store.Question) error {
	result := d.db.WithContext(ctx).Save(q)
	return result.Error
}

func (d *Driver) DeleteQuestion(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.Question{}, id)
}

// OptionStore implementation

func (d *Driver) CreateOption(ctx context.Context, o *store.Option) error {
	return d.create(ctx, o)
}

func (d *Driver) GetOption(ctx context.Context, id string) (*store.Option, error) {
	var o store.Option
	if err := d.first(ctx, &o, "id = ?", id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (d *Driver) ListOptions(ctx context.Context) ([]*store.Option, error) {
	var options []*store.Option
	result := d.db.WithContext(ctx).Find(&options)
	if result.Error != nil {
		return nil, result.Error
	}
	return options, nil
}

func (d *Driver) UpdateOption(ctx context.Context, o *store.Option) error {
	result := d.db.WithContext(ctx).Save(o)
	return result.Error
}

func (d *Driver) DeleteOption(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.Option{}, id)
}

// TestStore implementation

func (d *Driver) CreateTest(ctx context.Context, t *store.Test) error {
	return d.create(ctx, t)
}

func (d *Driver) GetTest(ctx context.Context, id string) (*store.Test, error) {
	var t store.Test
	if err := d.first(ctx, &t, "id = ?", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *Driver) ListTests(ctx context.Context) ([]*store.Test, error) {
	var tests []*store.Test
	result := d.db.WithContext(ctx).Find(&tests)
	if result.Error != nil {
		return nil, result.Error
	}
	return tests, nil
}

func (d *Driver) UpdateTest(ctx context.Context, t *store.Test) error {
	result := d.db.WithContext(ctx).Save(t)
	return result.Error
}

func (d *Driver) DeleteTest(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.Test{}, id)
}

// AssessmentStore implementation

func (d *Driver) CreateAssessment(ctx context.Context, a *store.Assessment) error {
	return d.create(ctx, a)
}

func (d *Driver) GetAssessment(ctx context.Context, id string) (*store.Assessment, error) {
	var a store.Assessment
	if err := d.first(ctx, &a, "id = ?", id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *Driver) ListAssessments(ctx context.Context) ([]*store.Assessment, error) {
	var assessments []*store.Assessment
	result := d.db.WithContext(ctx).Find(&assessments)
	if result.Error != nil {
		return nil, result.Error
	}
	return assessments, nil
}

func (d *Driver) UpdateAssessment(ctx context.Context, a *store.Assessment) error {
	result := d.db.WithContext(ctx).Save(a)
	return result.Error
}

func (d *Driver) DeleteAssessment(ctx context.Context, id string) error {
	return d.deleteByID(ctx, &store.Assessment{}, id)
}

// InvitationStore implementation

func (d *Driver) CreateInvitation(ctx context.Context, inv *store.TestInvitation) error {
	return d.create(ctx, inv)
}

func (d *Driver) GetInvitation(ctx context.Context, id string) (*store.TestInvitation, error) {
	var inv store.TestInvitation
	if err := d.first(ctx, &inv, "id = ?", id); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (d *Driver) ListInvitations(ctx context.Context, filter store.InvitationFilter) ([]*store.TestInvitation, error) {
	query := d.db.WithContext(ctx)
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DueBefore != nil {
		query = query.Where("valid_until <= ?", *filter.DueBefore)
	}
	if filter.AssessmentID != "" {
		query = query.Where("assessment_id = ?", filter.AssessmentID)
	}
	if filter.CandidateID != "" {
		query = query.Where("candidate_id = ?", filter.CandidateID)
	}

	var invitations []*store.TestInvitation
	result := query.Find(&invitations)
	if result.Error != nil {
		return nil, result.Error
	}
	return invitations, nil
}

func (d *Driver) UpdateInvitation(ctx context.Context, inv *store.TestInvitation) error {
	result := d.db.WithContext(ctx).Save(inv)
	return result.Error
}

// ReviewStore implementation

func (d *Driver) CreateReview(ctx context.Context, rev *store.Review) error {
	return d.create(ctx, rev)
}

func (d *Driver) GetReview(ctx context.Context, id string) (*store.Review, error) {
	var rev store.Review
	if err := d.first(ctx, &rev, "id = ?", id); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (d *Driver) ListReviews(ctx context.Context, filter store.ReviewFilter) ([]*store.Review, error) {
	query := d.db.WithContext(ctx)
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	if filter.MaxRating > 0 {
		query = query.Where("rating <= ?", filter.MaxRating)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.CandidateID != "" {
		query = query.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.InvitationIDs != nil {
		query = query.Where("test_invitation_id IN ?", filter.InvitationIDs)
	}

	var reviews []*store.Review
	result := query.Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}
