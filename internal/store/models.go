package store

import "time"

// Role is a user's platform role.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleHR              Role = "hr"
	RoleTechnicalExpert Role = "technical_expert"
	RoleUser            Role = "user"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleHR, RoleTechnicalExpert, RoleUser:
		return true
	}
	return false
}

// InvitationStatus is the lifecycle state of a test invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCompleted InvitationStatus = "completed"
	InvitationExpired   InvitationStatus = "expired"
	InvitationRejected  InvitationStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s InvitationStatus) Terminal() bool {
	switch s {
	case InvitationCompleted, InvitationExpired, InvitationRejected:
		return true
	}
	return false
}

// ResultStatus is the outcome of a completed attempt.
type ResultStatus string

const (
	ResultPassed       ResultStatus = "passed"
	ResultFailed       ResultStatus = "failed"
	ResultNotAttempted ResultStatus = "not_attempted"
)

// Difficulty is a question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question type names supported by the platform.
const (
	QuestionTypeMCQ             = "mcq"
	QuestionTypeMCQTwo          = "mcq_two"
	QuestionTypeParagraph       = "paragraph"
	QuestionTypeFillInTheBlanks = "fill_in_the_blanks"
)

// ValidQuestionTypeName reports whether name is a supported question type.
func ValidQuestionTypeName(name string) bool {
	switch name {
	case QuestionTypeMCQ, QuestionTypeMCQTwo, QuestionTypeParagraph, QuestionTypeFillInTheBlanks:
		return true
	}
	return false
}

// User is a platform account.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Number       string    `json:"number,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Organization string    `json:"organization,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Address is a candidate's postal address.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// CandidateProfile holds candidate details; at most one per user.
type CandidateProfile struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user" gorm:"uniqueIndex"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Education  string    `json:"education"`
	Experience string    `json:"experience,omitempty"`
	Skills     []string  `json:"skills" gorm:"serializer:json"`
	Resume     string    `json:"resume,omitempty"`
	Address    Address   `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// QuestionType describes one of the supported question formats.
type QuestionType struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex"`
	Description string `json:"description,omitempty"`
}

// Option is one answer choice for a question.
type Option struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Content       string `json:"content"`
	IsRightAnswer bool   `json:"isRightAnswer"`
	IsMultiSelect bool   `json:"isMultiSelect"`
}

// Question is a single question in the question bank.
type Question struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	QuestionText    string     `json:"questionText"`
	QuestionTypeID  string     `json:"questionType" gorm:"index"`
	OptionIDs       []string   `json:"options" gorm:"serializer:json"`
	DifficultyLevel Difficulty `json:"difficultyLevel" gorm:"index"`
	CreatedBy       string     `json:"createdBy" gorm:"index"`
	Instruction     string     `json:"instruction,omitempty"`
	IsLibrary       bool       `json:"isLibraryQuestion"`
	ParagraphText   string     `json:"paragraphText,omitempty"`
	FillInTheBlanks string     `json:"fillInTheBlanks,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TestQuestion is an ordered question reference within a test.
type TestQuestion struct {
	QuestionID string `json:"question"`
	Order      int    `json:"order"`
}

// Test is an ordered set of questions with a time allocation in minutes.
type Test struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	Questions      []TestQuestion `json:"questions" gorm:"serializer:json"`
	TimeAllocation int            `json:"timeAllocation"`
	TotalQuestions int            `json:"totalQuestions"`
	CreatedBy      string         `json:"createdBy" gorm:"index"`
	IsLibraryTest  bool           `json:"isLibraryTest"`
}

// AssessmentSection is an ordered test reference within an assessment.
type AssessmentSection struct {
	TestID string `json:"test"`
	Order  int    `json:"order"`
}

// Assessment is an ordered collection of test sections.
// TotalTime is derived: the sum of the section tests' time allocations.
type Assessment struct {
	ID           string              `json:"id" gorm:"primaryKey"`
	Sections     []AssessmentSection `json:"sections" gorm:"serializer:json"`
	Instructions string              `json:"instructions"`
	TotalTime    int                 `json:"totalTime"`
	CreatedBy    string              `json:"createdBy" gorm:"index"`
}

// Result is the outcome recorded when an invitation completes.
type Result struct {
	Score  float64      `json:"score"`
	Status ResultStatus `json:"status"`
}

// Incident is one entry in an invitation's append-only incident log.
type Incident struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// TestInvitation grants one candidate time-boxed access to one assessment.
type TestInvitation struct {
	ID           string           `json:"id" gorm:"primaryKey"`
	AssessmentID string           `json:"assessment" gorm:"index"`
	CandidateID  string           `json:"candidate" gorm:"index"`
	CreatedBy    string           `json:"createdBy"`
	Passkey      string           `json:"passkey" gorm:"uniqueIndex"`
	Status       InvitationStatus `json:"status" gorm:"index"`
	Result       Result           `json:"result" gorm:"embedded;embeddedPrefix:result_"`
	Incidents    []Incident       `json:"incidents" gorm:"serializer:json"`
	SentAt       time.Time        `json:"sentAt"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
	ValidFrom    time.Time        `json:"validFrom"`
	ValidUntil   time.Time        `json:"validUntil"`
}

// Review is a candidate's feedback on a completed invitation.
type Review struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	TestInvitationID string    `json:"testInvitation" gorm:"index"`
	CandidateID      string    `json:"candidate" gorm:"index"`
	Rating           int       `json:"rating"`
	Comments         string    `json:"comments,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
