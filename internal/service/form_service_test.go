package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
)

type formFixture struct {
	forms     *fakeFormRepo
	questions *fakeQuestionRepo
	academics *fakeAcademicRepo
	svc       FormService
}

// newFormFixture seeds one allocation per college: 4 belongs to college 1,
// 44 to college 2. CreateForm walks allocation -> division -> semester ->
// department to find the owning college.
func newFormFixture(t *testing.T) *formFixture {
	t.Helper()

	questions := newFakeQuestionRepo()
	forms := newFakeFormRepo(questions)
	academics := newFakeAcademicRepo()
	academics.allocations[4] = model.SubjectAllocation{
		ID: 4, FacultyID: 8, SubjectID: 9, DivisionID: 7, AcademicYearID: 2,
		Division: model.Division{
			ID: 7, SemesterID: 5,
			Semester: model.Semester{
				ID: 5, DepartmentID: 3,
				Department: model.Department{ID: 3, CollegeID: 1, Name: "Computer Engineering"},
			},
		},
	}
	academics.allocations[44] = model.SubjectAllocation{
		ID: 44, FacultyID: 88, SubjectID: 99, DivisionID: 77, AcademicYearID: 2,
		Division: model.Division{
			ID: 77, SemesterID: 55,
			Semester: model.Semester{
				ID: 55, DepartmentID: 33,
				Department: model.Department{ID: 33, CollegeID: 2, Name: "Mechanical Engineering"},
			},
		},
	}

	return &formFixture{
		forms:     forms,
		questions: questions,
		academics: academics,
		svc:       NewFormService(forms, questions, academics),
	}
}

func formCreateRequest(title string) dto.FormCreateDTO {
	return dto.FormCreateDTO{
		Title:               title,
		SubjectAllocationID: 4,
		Questions: []dto.QuestionCreateDTO{
			{CategoryID: 12, FacultyID: 8, SubjectID: 9, Text: "Rate the pace of lectures", Type: model.QuestionTypeScale},
			{CategoryID: 12, FacultyID: 8, SubjectID: 9, Text: "Would you recommend this course?", Type: model.QuestionTypeChoice, Options: []string{"Yes", "No"}},
		},
	}
}

func TestCreateForm(t *testing.T) {
	fx := newFormFixture(t)
	endDate := time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)
	req := formCreateRequest("Course Feedback")
	req.EndDate = &endDate

	form, err := fx.svc.CreateForm(context.Background(), 1, req)
	require.NoError(t, err)

	assert.NotZero(t, form.ID)
	assert.Equal(t, "Course Feedback", form.Title)
	assert.Equal(t, model.FormStatusDraft, form.Status)
	assert.Equal(t, uint(1), form.CollegeID)
	assert.Equal(t, uint(4), form.SubjectAllocationID)
	require.NotNil(t, form.EndDate)
	assert.True(t, form.EndDate.Equal(endDate))

	require.Len(t, form.Questions, 2)
	assert.NotZero(t, form.Questions[0].ID)
	assert.Equal(t, form.ID, form.Questions[0].FeedbackFormID)
	assert.Equal(t, model.QuestionTypeScale, form.Questions[0].Type)
	assert.Equal(t, []string{"Yes", "No"}, form.Questions[1].Options)
}

func TestCreateFormAllocationChecks(t *testing.T) {
	fx := newFormFixture(t)

	t.Run("unknown allocation", func(t *testing.T) {
		req := formCreateRequest("Course Feedback")
		req.SubjectAllocationID = 12345
		_, err := fx.svc.CreateForm(context.Background(), 1, req)
		require.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("allocation of another college", func(t *testing.T) {
		req := formCreateRequest("Course Feedback")
		req.SubjectAllocationID = 44
		_, err := fx.svc.CreateForm(context.Background(), 1, req)
		require.ErrorIs(t, err, errdefs.ErrValidation)
	})
}

func TestCreateFormChoiceNeedsOptions(t *testing.T) {
	fx := newFormFixture(t)
	req := dto.FormCreateDTO{
		Title:               "Course Feedback",
		SubjectAllocationID: 4,
		Questions: []dto.QuestionCreateDTO{
			{CategoryID: 12, FacultyID: 8, SubjectID: 9, Text: "Pick one", Type: model.QuestionTypeChoice},
		},
	}

	_, err := fx.svc.CreateForm(context.Background(), 1, req)
	require.ErrorIs(t, err, errdefs.ErrValidation)
}

func TestGetFormScopedToCollege(t *testing.T) {
	fx := newFormFixture(t)
	created, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Course Feedback"))
	require.NoError(t, err)

	form, err := fx.svc.GetForm(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, form.ID)
	require.Len(t, form.Questions, 2)
	assert.Less(t, form.Questions[0].ID, form.Questions[1].ID)

	_, err = fx.svc.GetForm(context.Background(), 2, created.ID)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestListForms(t *testing.T) {
	fx := newFormFixture(t)
	first, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("First"))
	require.NoError(t, err)
	second, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Second"))
	require.NoError(t, err)

	foreign := formCreateRequest("Foreign")
	foreign.SubjectAllocationID = 44
	_, err = fx.svc.CreateForm(context.Background(), 2, foreign)
	require.NoError(t, err)

	forms, err := fx.svc.ListForms(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	// Newest first.
	assert.Equal(t, second.ID, forms[0].ID)
	assert.Equal(t, first.ID, forms[1].ID)
	assert.Equal(t, 2, forms[0].QuestionCount)
}

func TestFormLifecycle(t *testing.T) {
	fx := newFormFixture(t)
	created, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Course Feedback"))
	require.NoError(t, err)

	_, err = fx.svc.CloseForm(context.Background(), 1, created.ID)
	require.ErrorIs(t, err, errdefs.ErrValidation, "a draft cannot be closed")

	form, err := fx.svc.ActivateForm(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FormStatusActive, form.Status)

	_, err = fx.svc.ActivateForm(context.Background(), 1, created.ID)
	require.ErrorIs(t, err, errdefs.ErrValidation, "activating twice is rejected")

	form, err = fx.svc.CloseForm(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FormStatusClosed, form.Status)

	_, err = fx.svc.ActivateForm(context.Background(), 1, created.ID)
	require.ErrorIs(t, err, errdefs.ErrValidation, "a closed form stays closed")
}

func TestUpdateFormPartialFields(t *testing.T) {
	fx := newFormFixture(t)
	endDate := time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)
	req := formCreateRequest("Original Title")
	req.EndDate = &endDate
	created, err := fx.svc.CreateForm(context.Background(), 1, req)
	require.NoError(t, err)

	newTitle := "Renamed"
	form, err := fx.svc.UpdateForm(context.Background(), 1, created.ID, dto.FormUpdateDTO{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", form.Title)
	require.NotNil(t, form.EndDate)
	assert.True(t, form.EndDate.Equal(endDate), "end date is untouched when the request omits it")

	newEnd := endDate.AddDate(0, 1, 0)
	form, err = fx.svc.UpdateForm(context.Background(), 1, created.ID, dto.FormUpdateDTO{EndDate: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", form.Title)
	assert.True(t, form.EndDate.Equal(newEnd))
}

func TestDeleteForm(t *testing.T) {
	fx := newFormFixture(t)
	created, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Course Feedback"))
	require.NoError(t, err)

	require.ErrorIs(t, fx.svc.DeleteForm(context.Background(), 2, created.ID), errdefs.ErrNotFound)

	require.NoError(t, fx.svc.DeleteForm(context.Background(), 1, created.ID))
	_, err = fx.svc.GetForm(context.Background(), 1, created.ID)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestAddQuestion(t *testing.T) {
	fx := newFormFixture(t)
	created, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Course Feedback"))
	require.NoError(t, err)

	question, err := fx.svc.AddQuestion(context.Background(), 1, created.ID, dto.QuestionCreateDTO{
		CategoryID: 12, FacultyID: 8, SubjectID: 9,
		Text: "Any other remarks?", Type: model.QuestionTypeText,
	})
	require.NoError(t, err)
	assert.NotZero(t, question.ID)
	assert.Equal(t, created.ID, question.FeedbackFormID)

	form, err := fx.svc.GetForm(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Len(t, form.Questions, 3)

	_, err = fx.svc.AddQuestion(context.Background(), 2, created.ID, dto.QuestionCreateDTO{
		CategoryID: 12, FacultyID: 8, SubjectID: 9, Text: "x", Type: model.QuestionTypeText,
	})
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestUpdateQuestion(t *testing.T) {
	fx := newFormFixture(t)
	created, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Course Feedback"))
	require.NoError(t, err)
	questionID := created.Questions[0].ID

	updated, err := fx.svc.UpdateQuestion(context.Background(), 1, created.ID, questionID, dto.QuestionCreateDTO{
		CategoryID: 12, FacultyID: 8, SubjectID: 9,
		Text: "Rate the pace of lectures this term", Type: model.QuestionTypeNumber,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rate the pace of lectures this term", updated.Text)
	assert.Equal(t, model.QuestionTypeNumber, updated.Type)

	other, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Other Form"))
	require.NoError(t, err)
	_, err = fx.svc.UpdateQuestion(context.Background(), 1, created.ID, other.Questions[0].ID, dto.QuestionCreateDTO{
		CategoryID: 12, FacultyID: 8, SubjectID: 9, Text: "x", Type: model.QuestionTypeText,
	})
	require.ErrorIs(t, err, errdefs.ErrNotFound, "a question of another form is out of reach")
}

func TestDeleteQuestion(t *testing.T) {
	fx := newFormFixture(t)
	created, err := fx.svc.CreateForm(context.Background(), 1, formCreateRequest("Course Feedback"))
	require.NoError(t, err)

	require.NoError(t, fx.svc.DeleteQuestion(context.Background(), 1, created.ID, created.Questions[0].ID))

	form, err := fx.svc.GetForm(context.Background(), 1, created.ID)
	require.NoError(t, err)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, created.Questions[1].ID, form.Questions[0].ID)

	require.ErrorIs(t,
		fx.svc.DeleteQuestion(context.Background(), 1, created.ID, created.Questions[0].ID),
		errdefs.ErrNotFound)
}
