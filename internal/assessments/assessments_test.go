package assessments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MoizAnsari7/itest-backend/internal/assessments"
	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/identity"
	"github.com/MoizAnsari7/itest-backend/internal/store"
	"github.com/MoizAnsari7/itest-backend/internal/store/memory"
)

var expertPrincipal = identity.Principal{UserID: "expert-1", Role: store.RoleTechnicalExpert}

func newTestService(t *testing.T) (*assessments.Service, *memory.Driver) {
	t.Helper()
	st := memory.New()
	return assessments.NewService(st), st
}

func createTest(t *testing.T, svc *assessments.Service, minutes int) *store.Test {
	t.Helper()
	tst, err := svc.CreateTest(context.Background(), expertPrincipal, assessments.TestRequest{
		Questions: []store.TestQuestion{
			{QuestionID: "q-1", Order: 1},
			{QuestionID: "q-2", Order: 2},
		},
		TimeAllocation: minutes,
	})
	if err != nil {
		t.Fatalf("CreateTest failed: %v", err)
	}
	return tst
}

func TestCreateTest_DerivesTotalQuestions(t *testing.T) {
	svc, _ := newTestService(t)

	tst := createTest(t, svc, 30)
	if tst.TotalQuestions != 2 {
		t.Errorf("totalQuestions = %d, want 2", tst.TotalQuestions)
	}
	if tst.CreatedBy != "expert-1" {
		t.Errorf("createdBy = %q, want expert-1", tst.CreatedBy)
	}
}

func TestCreateTest_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		req  assessments.TestRequest
	}{
		{"non-positive time", assessments.TestRequest{TimeAllocation: 0}},
		{"missing question id", assessments.TestRequest{
			TimeAllocation: 30,
			Questions:      []store.TestQuestion{{Order: 1}},
		}},
		{"non-positive order", assessments.TestRequest{
			TimeAllocation: 30,
			Questions:      []store.TestQuestion{{QuestionID: "q-1", Order: 0}},
		}},
		{"duplicate order", assessments.TestRequest{
			TimeAllocation: 30,
			Questions: []store.TestQuestion{
				{QuestionID: "q-1", Order: 1},
				{QuestionID: "q-2", Order: 1},
			},
		}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateTest(context.Background(), expertPrincipal, tc.req); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("%s: got %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestUpdateTest_RederivesTotalQuestions(t *testing.T) {
	svc, _ := newTestService(t)
	tst := createTest(t, svc, 30)

	updated, err := svc.UpdateTest(context.Background(), tst.ID, assessments.TestRequest{
		Questions:      []store.TestQuestion{{QuestionID: "q-9", Order: 1}},
		TimeAllocation: 45,
	})
	if err != nil {
		t.Fatalf("UpdateTest failed: %v", err)
	}
	if updated.TotalQuestions != 1 {
		t.Errorf("totalQuestions = %d, want 1", updated.TotalQuestions)
	}
	if updated.TimeAllocation != 45 {
		t.Errorf("timeAllocation = %d, want 45", updated.TimeAllocation)
	}
}

func TestCreateAssessment_DerivesTotalTime(t *testing.T) {
	svc, _ := newTestService(t)
	t1 := createTest(t, svc, 30)
	t2 := createTest(t, svc, 45)

	a, err := svc.CreateAssessment(context.Background(), expertPrincipal, assessments.AssessmentRequest{
		Sections: []store.AssessmentSection{
			{TestID: t1.ID, Order: 1},
			{TestID: t2.ID, Order: 2},
		},
		Instructions: "two sections",
	})
	if err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}
	if a.TotalTime != 75 {
		t.Errorf("totalTime = %d, want 75", a.TotalTime)
	}
}

func TestCreateAssessment_MissingTest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAssessment(context.Background(), expertPrincipal, assessments.AssessmentRequest{
		Sections: []store.AssessmentSection{{TestID: "no-such-test", Order: 1}},
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreateAssessment_SectionValidation(t *testing.T) {
	svc, _ := newTestService(t)
	t1 := createTest(t, svc, 30)

	cases := []struct {
		name     string
		sections []store.AssessmentSection
	}{
		{"missing test id", []store.AssessmentSection{{Order: 1}}},
		{"non-positive order", []store.AssessmentSection{{TestID: t1.ID, Order: 0}}},
		{"duplicate order", []store.AssessmentSection{
			{TestID: t1.ID, Order: 1},
			{TestID: t1.ID, Order: 1},
		}},
	}
	for _, tc := range cases {
		_, err := svc.CreateAssessment(context.Background(), expertPrincipal, assessments.AssessmentRequest{Sections: tc.sections})
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("%s: got %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestUpdateAssessment_RederivesTotalTime(t *testing.T) {
	svc, _ := newTestService(t)
	t1 := createTest(t, svc, 30)
	t2 := createTest(t, svc, 45)

	a, err := svc.CreateAssessment(context.Background(), expertPrincipal, assessments.AssessmentRequest{
		Sections: []store.AssessmentSection{{TestID: t1.ID, Order: 1}},
	})
	if err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}

	updated, err := svc.UpdateAssessment(context.Background(), a.ID, assessments.AssessmentRequest{
		Sections: []store.AssessmentSection{{TestID: t2.ID, Order: 1}},
	})
	if err != nil {
		t.Fatalf("UpdateAssessment failed: %v", err)
	}
	if updated.TotalTime != 45 {
		t.Errorf("totalTime = %d, want 45", updated.TotalTime)
	}
}

func TestCloneAssessment(t *testing.T) {
	svc, _ := newTestService(t)
	t1 := createTest(t, svc, 30)

	src, err := svc.CreateAssessment(context.Background(), expertPrincipal, assessments.AssessmentRequest{
		Sections:     []store.AssessmentSection{{TestID: t1.ID, Order: 1}},
		Instructions: "original",
	})
	if err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}

	cloner := identity.Principal{UserID: "hr-2", Role: store.RoleHR}
	clone, err := svc.Clone(context.Background(), cloner, src.ID)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	if clone.ID == src.ID {
		t.Error("clone shares the source id")
	}
	if clone.CreatedBy != "hr-2" {
		t.Errorf("clone createdBy = %q, want hr-2", clone.CreatedBy)
	}
	if clone.TotalTime != src.TotalTime {
		t.Errorf("clone totalTime = %d, want %d", clone.TotalTime, src.TotalTime)
	}
	if len(clone.Sections) != 1 || clone.Sections[0].TestID != t1.ID {
		t.Errorf("clone sections = %+v", clone.Sections)
	}
}

func TestDeleteAssessment_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.DeleteAssessment(context.Background(), "no-such-id"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
