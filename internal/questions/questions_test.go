package questions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/questions"
	"github.com/MoizAnsari7/itest-backend/internal/store"
	"github.com/MoizAnsari7/itest-backend/internal/store/memory"
)

var (
	expertPrincipal = identity.Principal{UserID: "expert-1", Role: store.RoleTechnicalExpert}
	userPrincipal   = identity.Principal{UserID: "user-1", Role: store.RoleUser}
)

func newTestService(t *testing.T) *questions.Service {
	t.Helper()
	svc := questions.NewService(memory.New())

	for _, name := range []string{store.QuestionTypeMCQ, store.QuestionTypeParagraph, store.QuestionTypeFillInTheBlanks} {
		if _, err := svc.CreateQuestionType(context.Background(), questions.QuestionTypeRequest{Name: name}); err != nil {
			t.Fatalf("failed to seed question type %s: %v", name, err)
		}
	}
	return svc
}

func validQuestionRequest() questions.QuestionRequest {
	return questions.QuestionRequest{
		QuestionText: "What does a channel close do?",
		QuestionType: store.QuestionTypeMCQ,
		OptionIDs:    []string{"opt-1", "opt-2"},
		Difficulty:   store.DifficultyMedium,
	}
}

func TestCreateQuestionType_EnumValidation(t *testing.T) {
	svc := questions.NewService(memory.New())

	if _, err := svc.CreateQuestionType(context.Background(), questions.QuestionTypeRequest{Name: "essay"}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("unknown name: got %v, want ErrValidation", err)
	}

	qt, err := svc.CreateQuestionType(context.Background(), questions.QuestionTypeRequest{Name: store.QuestionTypeMCQ})
	if err != nil {
		t.Fatalf("CreateQuestionType failed: %v", err)
	}
	if qt.Name != store.QuestionTypeMCQ {
		t.Errorf("name = %q", qt.Name)
	}

	// Names are unique.
	if _, err := svc.CreateQuestionType(context.Background(), questions.QuestionTypeRequest{Name: store.QuestionTypeMCQ}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("duplicate name: got %v, want ErrValidation", err)
	}
}

func TestCreateQuestion_RoleGate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateQuestion(context.Background(), userPrincipal, validQuestionRequest()); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("user role: got %v, want ErrForbidden", err)
	}

	admin := identity.Principal{UserID: "admin-1", Role: store.RoleAdmin}
	if _, err := svc.CreateQuestion(context.Background(), admin, validQuestionRequest()); err != nil {
		t.Errorf("admin role: unexpected error %v", err)
	}
}

func TestCreateQuestion_ResolvesTypeByName(t *testing.T) {
	svc := newTestService(t)

	q, err := svc.CreateQuestion(context.Background(), expertPrincipal, validQuestionRequest())
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if q.QuestionTypeID == "" {
		t.Error("question type id not resolved")
	}
	if !q.IsLibrary {
		t.Error("question not marked as library question")
	}
	if q.CreatedBy != "expert-1" {
		t.Errorf("createdBy = %q, want expert-1", q.CreatedBy)
	}

	req := validQuestionRequest()
	req.QuestionType = "essay"
	if _, err := svc.CreateQuestion(context.Background(), expertPrincipal, req); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("unknown type: got %v, want ErrValidation", err)
	}
}

func TestCreateQuestion_TypeSpecificPayload(t *testing.T) {
	svc := newTestService(t)

	req := validQuestionRequest()
	req.QuestionType = store.QuestionTypeParagraph
	req.ParagraphText = "Read the following passage."
	req.FillInTheBlanks = "should be dropped"

	q, err := svc.CreateQuestion(context.Background(), expertPrincipal, req)
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if q.ParagraphText != "Read the following passage." {
		t.Errorf("paragraphText = %q", q.ParagraphText)
	}
	if q.FillInTheBlanks != "" {
		t.Errorf("fillInTheBlanks carried for a paragraph question: %q", q.FillInTheBlanks)
	}
}

func TestCreateQuestion_Validation(t *testing.T) {
	svc := newTestService(t)

	req := validQuestionRequest()
	req.QuestionText = ""
	if _, err := svc.CreateQuestion(context.Background(), expertPrincipal, req); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("empty text: got %v, want ErrValidation", err)
	}

	req = validQuestionRequest()
	req.Difficulty = "impossible"
	if _, err := svc.CreateQuestion(context.Background(), expertPrincipal, req); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("bad difficulty: got %v, want ErrValidation", err)
	}
}

func TestListQuestions_Filters(t *testing.T) {
	svc := newTestService(t)

	easy := validQuestionRequest()
	easy.Difficulty = store.DifficultyEasy
	if _, err := svc.CreateQuestion(context.Background(), expertPrincipal, easy); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	hard := validQuestionRequest()
	hard.Difficulty = store.DifficultyHard
	hard.QuestionType = store.QuestionTypeParagraph
	if _, err := svc.CreateQuestion(context.Background(), expertPrincipal, hard); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	list, err := svc.ListQuestions(context.Background(), questions.Filter{Difficulty: store.DifficultyEasy})
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(list) != 1 || list[0].DifficultyLevel != store.DifficultyEasy {
		t.Errorf("difficulty filter returned %d entries", len(list))
	}

	list, err = svc.ListQuestions(context.Background(), questions.Filter{QuestionType: store.QuestionTypeParagraph})
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(list) != 1 || list[0].DifficultyLevel != store.DifficultyHard {
		t.Errorf("type filter returned %d entries", len(list))
	}

	// Unknown type name filters to an empty result, not an error.
	list, err = svc.ListQuestions(context.Background(), questions.Filter{QuestionType: "essay"})
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("unknown type filter returned %d entries, want 0", len(list))
	}
}

func TestUpdateQuestion_SwitchesTypePayload(t *testing.T) {
	svc := newTestService(t)

	req := validQuestionRequest()
	req.QuestionType = store.QuestionTypeParagraph
	req.ParagraphText = "a passage"
	q, err := svc.CreateQuestion(context.Background(), expertPrincipal, req)
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	update := validQuestionRequest()
	update.QuestionType = store.QuestionTypeFillInTheBlanks
	update.FillInTheBlanks = "Go maps are not ___ safe."
	got, err := svc.UpdateQuestion(context.Background(), expertPrincipal, q.ID, update)
	if err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if got.ParagraphText != "" {
		t.Errorf("stale paragraphText %q after type switch", got.ParagraphText)
	}
	if got.FillInTheBlanks != "Go maps are not ___ safe." {
		t.Errorf("fillInTheBlanks = %q", got.FillInTheBlanks)
	}
}

func TestDeleteQuestion(t *testing.T) {
	svc := newTestService(t)

	q, err := svc.CreateQuestion(context.Background(), expertPrincipal, validQuestionRequest())
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	if err := svc.DeleteQuestion(context.Background(), userPrincipal, q.ID); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("user delete: got %v, want ErrForbidden", err)
	}
	if err := svc.DeleteQuestion(context.Background(), expertPrincipal, q.ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	if _, err := svc.GetQuestion(context.Background(), q.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}

func TestOptions_CRUD(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateOption(context.Background(), questions.OptionRequest{}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("empty content: got %v, want ErrValidation", err)
	}

	o, err := svc.CreateOption(context.Background(), questions.OptionRequest{Content: "buffered", IsRightAnswer: true})
	if err != nil {
		t.Fatalf("CreateOption failed: %v", err)
	}

	updated, err := svc.UpdateOption(context.Background(), o.ID, questions.OptionRequest{Content: "unbuffered"})
	if err != nil {
		t.Fatalf("UpdateOption failed: %v", err)
	}
	if updated.Content != "unbuffered" || updated.IsRightAnswer {
		t.Errorf("updated option = %+v", updated)
	}

	if err := svc.DeleteOption(context.Background(), o.ID); err != nil {
		t.Fatalf("DeleteOption failed: %v", err)
	}
	if _, err := svc.GetOption(context.Background(), o.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}
