// Package memory implements an in-memory persistence driver.
//
// It backs unit tests and dev mode. Records are copied on write and on
// read so callers never share memory with the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MoizAnsari7/itest-backend/internal/store"
)

func init() {
	store.Register("memory", NewDriver)
}

// Driver implements the store.Driver interface with mutex-guarded maps.
type Driver struct {
	mu sync.RWMutex

	users       map[string]store.User
	profiles    map[string]store.CandidateProfile
	types       map[string]store.QuestionType
	questions   map[string]store.Question
	options     map[string]store.Option
	tests       map[string]store.Test
	assessments map[string]store.Assessment
	invitations map[string]store.TestInvitation
	reviews     map[string]store.Review
}

// NewDriver creates a new in-memory driver instance.
func NewDriver(cfg *store.DriverConfig) (store.Driver, error) {
	return New(), nil
}

// New creates an initialized in-memory driver for direct use in tests.
func New() *Driver {
	return &Driver{
		users:       make(map[string]store.User),
		profiles:    make(map[string]store.CandidateProfile),
		types:       make(map[string]store.QuestionType),
		questions:   make(map[string]store.Question),
		options:     make(map[string]store.Option),
		tests:       make(map[string]store.Test),
		assessments: make(map[string]store.Assessment),
		invitations: make(map[string]store.TestInvitation),
		reviews:     make(map[string]store.Review),
	}
}

// Name returns the driver name.
func (d *Driver) Name() string { return "memory" }

// Init is a no-op for the memory driver.
func (d *Driver) Init(ctx context.Context) error { return nil }

// Close is a no-op for the memory driver.
func (d *Driver) Close() error { return nil }

// UserStore implementation

func (d *Driver) CreateUser(ctx context.Context, user *store.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == user.Email {
			return store.ErrAlreadyExists
		}
	}
	d.users[user.ID] = *user
	return nil
}

func (d *Driver) GetUser(ctx context.Context, id string) (*store.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (d *Driver) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *Driver) ListUsers(ctx context.Context) ([]*store.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*store.User, 0, len(d.users))
	for _, u := range d.users {
		u := u
		out = append(out, &u)
	}
	sortByID(out, func(u *store.User) string { return u.ID })
	return out, nil
}

func (d *Driver) UpdateUser(ctx context.Context, user *store.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	d.users[user.ID] = *user
	return nil
}

func (d *Driver) DeleteUser(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.users, id)
	return nil
}

// ProfileStore implementation

func (d *Driver) CreateProfile(ctx context.Context, profile *store.CandidateProfile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.profiles {
		if p.UserID == profile.UserID {
			return store.ErrAlreadyExists
		}
	}
	d.profiles[profile.ID] = *profile
	return nil
}

func (d *Driver) GetProfile(ctx context.Context, id string) (*store.CandidateProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (d *Driver) GetProfileByUser(ctx context.Context, userID string) (*store.CandidateProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.profiles {
		if p.UserID == userID {
			out := p
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *Driver) ListProfiles(ctx context.Context) ([]*store.CandidateProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*store.CandidateProfile, 0, len(d.profiles))
	for _, p := range d.profiles {
		p := p
		out = append(out, &p)
	}
	sortByID(out, func(p *store.CandidateProfile) string { return p.ID })
	return out, nil
}

func (d *Driver) UpdateProfile(ctx context.Context, profile *store.CandidateProfile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[profile.ID]; !ok {
		return store.ErrNotFound
	}
	d.profiles[profile.ID] = *profile
	return nil
}

func (d *Driver) DeleteProfile(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.profiles, id)
	return nil
}

// QuestionTypeStore implementation

func (d *Driver) CreateQuestionType(ctx context.Context, qt *store.QuestionType) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.types {
		if t.Name == qt.Name {
			return store.ErrAlreadyExists
		}
	}
	d.types[qt.ID] = *qt
	return nil
}

func (d *Driver) GetQuestionType(ctx context.Context, id string) (*store.QuestionType, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	qt, ok := d.types[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &qt, nil
}

func (d *Driver) GetQuestionTypeByName(ctx context.Context, name string) (*store.QuestionType, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, qt := range d.types {
		if qt.Name == name {
			out := qt
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *Driver) ListQuestionTypes(ctx context.Context) ([]*store.QuestionType, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*store.QuestionType, 0, len(d.types))
	for _, qt := range d.types {
		qt := qt
		out = append(out, &qt)
	}
	sortByID(out, func(qt *store.QuestionType) string { return qt.ID })
	return out, nil
}

func (d *Driver) UpdateQuestionType(ctx context.Context, qt *store.QuestionType) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.types[qt.ID]; !ok {
		return store.ErrNotFound
	}
	d.types[qt.ID] = *qt
	return nil
}

func (d *Driver) DeleteQuestionType(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.types[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.types, id)
	return nil
}

// QuestionStore implementation

func (d *Driver) CreateQuestion(ctx context.Context, q *store.Question) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.questions[q.ID] = *q
	return nil
}

func (d *Driver) GetQuestion(ctx context.Context, id string) (*store.Question, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	q, ok := d.questions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &q, nil
}

func (d *Driver) ListQuestions(ctx context.Context, filter store.QuestionFilter) ([]*store.Question, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*store.Question
	for _, q := range d.questions {
		if filter.Difficulty != "" && q.DifficultyLevel != filter.Difficulty {
			continue
		}
		if filter.QuestionTypeID != "" && q.QuestionTypeID != filter.QuestionTypeID {
			continue
		}
		if filter.CreatedBy != "" && q.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.IsLibrary != nil && q.IsLibrary != *filter.IsLibrary {
			continue
		}
		q := q
		out = append(out, &q)
	}
	sortByID(out, func(q *store.Question) string { return q.ID })
	return out, nil
}

func (d *Driver) UpdateQuestion(ctx context.Context, q *store.Question) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.questions[q.ID]; !ok {
		return store.ErrNotFound
	}
	d.questions[q.ID] = *q
	return nil
}

func (d *Driver) DeleteQuestion(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.questions[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.questions, id)
	return nil
}

// OptionStore implementation

func (d *Driver) CreateOption(ctx context.Context, o *store.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.options[o.ID] = *o
	return nil
}

func (d *Driver) GetOption(ctx context.Context, id string) (*store.Option, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	o, ok := d.options[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (d *Driver) ListOptions(ctx context.Context) ([]*store.Option, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*store.Option, 0, len(d.options))
	for _, o := range d.options {
		o := o
		out = append(out, &o)
	}
	sortByID(out, func(o *store.Option) string { return o.ID })
	return out, nil
}

func (d *Driver) UpdateOption(ctx context.Context, o *store.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.options[o.ID]; !ok {
		return store.ErrNotFound
	}
	d.options[o.ID] = *o
	return nil
}

func (d *Driver) DeleteOption(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.options[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.options, id)
	return nil
}

// TestStore implementation

func (d *Driver) CreateTest(ctx context.Context, t *store.Test) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tests[t.ID] = *t
	return nil
}

func (d *Driver) GetTest(ctx context.Context, id string) (*store.Test, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (d *Driver) ListTests(ctx context.Context) ([]*store.Test, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*store.Test, 0, len(d.tests))
	for _, t := range d.tests {
		t := t
		out = append(out, &t)
	}
	sortByID(out, func(t *store.Test) string { return t.ID })
	return out, nil
}

func (d *Driver) UpdateTest(ctx context.Context, t *store.Test) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tests[t.ID]; !ok {
		return store.ErrNotFound
	}
	d.tests[t.ID] = *t
	return nil
}

func (d *Driver) DeleteTest(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tests[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.tests, id)
	return nil
}

// AssessmentStore implementation

func (d *Driver) CreateAssessment(ctx context.Context, a *store.Assessment) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assessments[a.ID] = *a
	return nil
}

func (d *Driver) GetAssessment(ctx context.Context, id string) (*store.Assessment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.assessments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (d *Driver) ListAssessments(ctx context.Context) ([]*store.Assessment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*store.Assessment, 0, len(d.assessments))
	for _, a := range d.assessments {
		a := a
		out = append(out, &a)
	}
	sortByID(out, func(a *store.Assessment) string { return a.ID })
	return out, nil
}

func (d *Driver) UpdateAssessment(ctx context.Context, a *store.Assessment) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.assessments[a.ID]; !ok {
		return store.ErrNotFound
	}
	d.assessments[a.ID] = *a
	return nil
}

func (d *Driver) DeleteAssessment(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.assessments[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.assessments, id)
	return nil
}

// InvitationStore implementation

func (d *Driver) CreateInvitation(ctx context.Context, inv *store.TestInvitation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.invitations {
		if existing.Passkey == inv.Passkey {
			return store.ErrAlreadyExists
		}
	}
	d.invitations[inv.ID] = cloneInvitation(inv)
	return nil
}

func (d *Driver) GetInvitation(ctx context.Context, id string) (*store.TestInvitation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	inv, ok := d.invitations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneInvitation(&inv)
	return &out, nil
}

func (d *Driver) ListInvitations(ctx context.Context, filter store.InvitationFilter) ([]*store.TestInvitation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*store.TestInvitation
	for _, inv := range d.invitations {
		if len(filter.Statuses) > 0 && !statusIn(inv.Status, filter.Statuses) {
			continue
		}
		if filter.DueBefore != nil && inv.ValidUntil.After(*filter.DueBefore) {
			continue
		}
		if filter.AssessmentID != "" && inv.AssessmentID != filter.AssessmentID {
			continue
		}
		if filter.CandidateID != "" && inv.CandidateID != filter.CandidateID {
			continue
		}
		c := cloneInvitation(&inv)
		out = append(out, &c)
	}
	sortByID(out, func(inv *store.TestInvitation) string { return inv.ID })
	return out, nil
}

func (d *Driver) UpdateInvitation(ctx context.Context, inv *store.TestInvitation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.invitations[inv.ID]; !ok {
		return store.ErrNotFound
	}
	d.invitations[inv.ID] = cloneInvitation(inv)
	return nil
}

// ReviewStore implementation

func (d *Driver) CreateReview(ctx context.Context, rev *store.Review) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reviews[rev.ID] = *rev
	return nil
}

func (d *Driver) GetReview(ctx context.Context, id string) (*store.Review, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rev, ok := d.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &rev, nil
}

func (d *Driver) ListReviews(ctx context.Context, filter store.ReviewFilter) ([]*store.Review, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*store.Review
	for _, rev := range d.reviews {
		if filter.MinRating > 0 && rev.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRating > 0 && rev.Rating > filter.MaxRating {
			continue
		}
		if filter.From != nil && rev.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rev.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.CandidateID != "" && rev.CandidateID != filter.CandidateID {
			continue
		}
		if filter.InvitationIDs != nil && !idIn(rev.TestInvitationID, filter.InvitationIDs) {
			continue
		}
		rev := rev
		out = append(out, &rev)
	}
	sortByID(out, func(r *store.Review) string { return r.ID })
	return out, nil
}

// helpers

func statusIn(s store.InvitationStatus, set []store.InvitationStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

func idIn(id string, ids []string) bool {
	for _, candidate := range ids {
		if id == candidate {
			return true
		}
	}
	return false
}

// cloneInvitation copies an invitation including its incident log, so the
// caller's appends cannot mutate stored state.
func cloneInvitation(inv *store.TestInvitation) store.TestInvitation {
	out := *inv
	if inv.Incidents != nil {
		out.Incidents = make([]store.Incident, len(inv.Incidents))
		copy(out.Incidents, inv.Incidents)
	}
	if inv.CompletedAt != nil {
		t := *inv.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// sortByID orders listings deterministically (maps iterate randomly).
func sortByID[T any](items []*T, key func(*T) string) {
	sort.Slice(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}
