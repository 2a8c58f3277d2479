package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
)

// submissionFixture wires a submissionService against the in-memory fakes
// with one active form (ID 10, college 1) taught by one allocation, two
// questions (51 scale, 52 text), one enrolled student behind "tok-enrolled"
// and one override student behind "tok-override".
type submissionFixture struct {
	grants    *fakeGrantRepo
	questions *fakeQuestionRepo
	responses *fakeResponseRepo
	students  *fakeStudentRepo
	academics *fakeAcademicRepo
	svc       *submissionService
}

func newSubmissionFixture(t *testing.T, strict bool) *submissionFixture {
	t.Helper()

	academicYear := model.AcademicYear{ID: 2, CollegeID: 1, Label: "2024-25"}
	department := model.Department{ID: 3, CollegeID: 1, Name: "Computer Engineering", Abbrev: "CE"}
	semester := model.Semester{
		ID: 5, DepartmentID: 3, Department: department,
		AcademicYearID: 2, AcademicYear: academicYear, Number: 6,
	}
	division := model.Division{ID: 7, SemesterID: 5, Semester: semester, Name: "A"}
	faculty := model.Faculty{ID: 8, DepartmentID: 3, Name: "Dr. A. Mehta", Email: "a.mehta@college.edu"}
	subject := model.Subject{ID: 9, SemesterID: 5, Name: "Operating Systems", Code: "CS301"}
	allocation := model.SubjectAllocation{
		ID: 4, FacultyID: 8, Faculty: faculty, SubjectID: 9, Subject: subject,
		DivisionID: 7, Division: division, AcademicYearID: 2, LectureType: model.LectureTypeTheory,
	}
	form := model.FeedbackForm{
		ID: 10, Title: "Operating Systems Feedback", Status: model.FormStatusActive,
		SubjectAllocationID: 4, SubjectAllocation: allocation, CollegeID: 1,
	}
	category := model.QuestionCategory{ID: 12, Name: "Teaching"}

	grants := newFakeGrantRepo()
	grants.forms[form.ID] = form
	grants.seed(model.AccessGrant{ID: 31, Token: "tok-enrolled", FeedbackFormID: form.ID, StudentID: uintPtr(21)})
	grants.seed(model.AccessGrant{ID: 32, Token: "tok-override", FeedbackFormID: form.ID, OverrideStudentID: uintPtr(61)})

	questions := newFakeQuestionRepo()
	questions.seed(model.FeedbackQuestion{
		ID: 51, FeedbackFormID: form.ID, CategoryID: 12, Category: category,
		FacultyID: 8, Faculty: faculty, SubjectID: 9, Subject: subject,
		Text: "Rate the overall teaching quality", Type: model.QuestionTypeScale,
	})
	questions.seed(model.FeedbackQuestion{
		ID: 52, FeedbackFormID: form.ID, CategoryID: 12, Category: category,
		FacultyID: 8, Faculty: faculty, SubjectID: 9, Subject: subject,
		Text: "What should improve?", Type: model.QuestionTypeText,
	})

	students := newFakeStudentRepo()
	students.students[21] = model.Student{
		ID: 21, Name: "Riya Shah", Email: "riya@college.edu", EnrollmentNo: "CE2021042",
		AcademicYearID: 2, AcademicYear: academicYear,
		SemesterID: 5, Semester: semester,
		DivisionID: 7, Division: division,
	}
	students.overrides[61] = model.OverrideStudent{
		ID: 61, Name: "Arjun Rao", Email: "arjun@example.com",
		Department: "Information Technology", Semester: "VI",
	}

	academics := newFakeAcademicRepo()
	academics.allocations[4] = allocation
	academics.divisions[7] = division

	responses := newFakeResponseRepo(grants)

	svc := NewSubmissionService(grants, questions, responses, students, academics,
		NewResponseValueCodec(), testConfig(strict)).(*submissionService)

	return &submissionFixture{
		grants:    grants,
		questions: questions,
		responses: responses,
		students:  students,
		academics: academics,
		svc:       svc,
	}
}

func (fx *submissionFixture) mutateForm(mutate func(form *model.FeedbackForm)) {
	fx.grants.mu.Lock()
	defer fx.grants.mu.Unlock()
	form := fx.grants.forms[10]
	mutate(&form)
	fx.grants.forms[10] = form
}

func answers(pairs map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(pairs))
	for k, v := range pairs {
		out[k] = json.RawMessage(v)
	}
	return out
}

func TestSubmitEnrolledStudent(t *testing.T) {
	fx := newSubmissionFixture(t, false)

	data, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{
		"52": `"More worked examples in lectures, please."`,
		"51": `4`,
	}))
	require.NoError(t, err)
	require.Len(t, data.Responses, 2)

	// Rows come back in ascending question order with canonical values and a
	// single shared timestamp.
	first, second := data.Responses[0], data.Responses[1]
	assert.Equal(t, uint(51), first.QuestionID)
	assert.Equal(t, "4", first.ResponseValue)
	assert.Equal(t, uint(52), second.QuestionID)
	assert.Equal(t, "More worked examples in lectures, please.", second.ResponseValue)
	assert.True(t, first.SubmittedAt.Equal(second.SubmittedAt))
	require.NotNil(t, first.StudentID)
	assert.Equal(t, uint(21), *first.StudentID)
	assert.Nil(t, first.OverrideStudentID)
	assert.Equal(t, uint(10), first.FeedbackFormID)

	assert.True(t, fx.grants.isSubmitted(31))

	rows, snaps := fx.responses.storedRows()
	require.Len(t, rows, 2)
	require.Len(t, snaps, 2)

	snap := snaps[0]
	assert.Equal(t, rows[0].ID, snap.StudentResponseID)
	require.NotNil(t, snap.StudentID)
	assert.Equal(t, uint(21), *snap.StudentID)
	assert.Nil(t, snap.OverrideStudentID)
	assert.False(t, snap.IsOverrideStudent)
	assert.Equal(t, "Riya Shah", snap.StudentName)
	assert.Equal(t, "riya@college.edu", snap.StudentEmail)
	assert.Equal(t, "CE2021042", snap.EnrollmentNo)
	require.NotNil(t, snap.AcademicYearID)
	assert.Equal(t, uint(2), *snap.AcademicYearID)
	assert.Equal(t, "2024-25", snap.AcademicYearLabel)
	require.NotNil(t, snap.DepartmentID)
	assert.Equal(t, uint(3), *snap.DepartmentID)
	assert.Equal(t, "Computer Engineering", snap.DepartmentName)
	require.NotNil(t, snap.SemesterID)
	assert.Equal(t, uint(5), *snap.SemesterID)
	assert.Equal(t, "Semester 6", snap.SemesterLabel)
	require.NotNil(t, snap.DivisionID)
	assert.Equal(t, uint(7), *snap.DivisionID)
	assert.Equal(t, "A", snap.DivisionName)
	assert.Equal(t, "Operating Systems Feedback", snap.FormTitle)
	assert.Equal(t, uint(51), snap.QuestionID)
	assert.Equal(t, "Rate the overall teaching quality", snap.QuestionText)
	assert.Equal(t, model.QuestionTypeScale, snap.QuestionType)
	assert.Equal(t, "Teaching", snap.CategoryName)
	assert.Equal(t, "Dr. A. Mehta", snap.FacultyName)
	assert.Equal(t, "Operating Systems", snap.SubjectName)
	assert.Equal(t, "CS301", snap.SubjectCode)
	assert.Equal(t, "4", snap.ResponseValue)
}

func TestSubmitOverrideStudentWithDivisionChain(t *testing.T) {
	fx := newSubmissionFixture(t, false)

	data, err := fx.svc.Submit(context.Background(), "tok-override", answers(map[string]string{"51": `5`}))
	require.NoError(t, err)
	require.Len(t, data.Responses, 1)
	require.NotNil(t, data.Responses[0].OverrideStudentID)
	assert.Equal(t, uint(61), *data.Responses[0].OverrideStudentID)
	assert.Nil(t, data.Responses[0].StudentID)

	_, snaps := fx.responses.storedRows()
	require.Len(t, snaps, 1)
	snap := snaps[0]
	assert.True(t, snap.IsOverrideStudent)
	assert.Equal(t, "Arjun Rao", snap.StudentName)
	assert.Empty(t, snap.EnrollmentNo)
	// The academic context comes from the form's division chain, not from the
	// override's free-text labels.
	require.NotNil(t, snap.DivisionID)
	assert.Equal(t, uint(7), *snap.DivisionID)
	assert.Equal(t, "A", snap.DivisionName)
	assert.Equal(t, "Semester 6", snap.SemesterLabel)
	assert.Equal(t, "Computer Engineering", snap.DepartmentName)
	assert.Equal(t, "2024-25", snap.AcademicYearLabel)
}

func TestSubmitOverrideStudentFreeTextFallback(t *testing.T) {
	fx := newSubmissionFixture(t, false)
	delete(fx.academics.divisions, 7)

	_, err := fx.svc.Submit(context.Background(), "tok-override", answers(map[string]string{"51": `3`}))
	require.NoError(t, err)

	_, snaps := fx.responses.storedRows()
	require.Len(t, snaps, 1)
	snap := snaps[0]
	assert.Nil(t, snap.DivisionID)
	assert.Nil(t, snap.SemesterID)
	assert.Nil(t, snap.DepartmentID)
	assert.Nil(t, snap.AcademicYearID)
	assert.Empty(t, snap.DivisionName)
	assert.Equal(t, "Information Technology", snap.DepartmentName)
	assert.Equal(t, "VI", snap.SemesterLabel)
}

func TestSubmitUnknownToken(t *testing.T) {
	fx := newSubmissionFixture(t, false)

	_, err := fx.svc.Submit(context.Background(), "no-such-token", answers(map[string]string{"51": `4`}))
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestSubmitFormGone(t *testing.T) {
	fx := newSubmissionFixture(t, false)
	fx.grants.mu.Lock()
	delete(fx.grants.forms, 10)
	fx.grants.mu.Unlock()

	_, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
	require.ErrorIs(t, err, errdefs.ErrNotFound)
	assert.False(t, fx.grants.isSubmitted(31))
}

func TestSubmitFormNotActive(t *testing.T) {
	for _, status := range []string{model.FormStatusDraft, model.FormStatusClosed} {
		t.Run(status, func(t *testing.T) {
			fx := newSubmissionFixture(t, false)
			fx.mutateForm(func(form *model.FeedbackForm) { form.Status = status })

			_, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
			require.ErrorIs(t, err, errdefs.ErrForbidden)
			assert.False(t, fx.grants.isSubmitted(31))
		})
	}
}

func TestSubmitWindow(t *testing.T) {
	deadline := time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)

	t.Run("exactly on the deadline is accepted", func(t *testing.T) {
		fx := newSubmissionFixture(t, false)
		fx.mutateForm(func(form *model.FeedbackForm) { form.EndDate = &deadline })
		fx.svc.now = func() time.Time { return deadline }

		data, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
		require.NoError(t, err)
		require.Len(t, data.Responses, 1)
		assert.True(t, data.Responses[0].SubmittedAt.Equal(deadline))
	})

	t.Run("after the deadline is rejected", func(t *testing.T) {
		fx := newSubmissionFixture(t, false)
		fx.mutateForm(func(form *model.FeedbackForm) { form.EndDate = &deadline })
		fx.svc.now = func() time.Time { return deadline.Add(time.Millisecond) }

		_, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
		require.ErrorIs(t, err, errdefs.ErrForbidden)
		assert.False(t, fx.grants.isSubmitted(31))
	})
}

func TestSubmitSecondAttemptRejected(t *testing.T) {
	fx := newSubmissionFixture(t, false)
	body := answers(map[string]string{"51": `4`})

	_, err := fx.svc.Submit(context.Background(), "tok-enrolled", body)
	require.NoError(t, err)

	_, err = fx.svc.Submit(context.Background(), "tok-enrolled", body)
	require.ErrorIs(t, err, errdefs.ErrAlreadySubmitted)

	rows, _ := fx.responses.storedRows()
	assert.Len(t, rows, 1)
}

func TestSubmitConcurrentSameToken(t *testing.T) {
	fx := newSubmissionFixture(t, false)
	body := answers(map[string]string{"51": `4`, "52": `"fine"`})

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.Submit(context.Background(), "tok-enrolled", body)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errdefs.ErrAlreadySubmitted)
	}
	assert.Equal(t, 1, succeeded)

	// Exactly one submission's rows made it to storage.
	rows, snaps := fx.responses.storedRows()
	assert.Len(t, rows, 2)
	assert.Len(t, snaps, 2)
	assert.True(t, fx.grants.isSubmitted(31))
}

func TestSubmitAtomicOnStorageFailure(t *testing.T) {
	fx := newSubmissionFixture(t, false)
	fx.responses.failAtRecord = 1
	body := answers(map[string]string{"51": `4`, "52": `"fine"`})

	_, err := fx.svc.Submit(context.Background(), "tok-enrolled", body)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errdefs.ErrAlreadySubmitted)

	// Nothing of the failed submission is visible and the grant survives, so
	// the student can retry.
	rows, snaps := fx.responses.storedRows()
	assert.Empty(t, rows)
	assert.Empty(t, snaps)
	assert.False(t, fx.grants.isSubmitted(31))

	fx.responses.failAtRecord = -1
	data, err := fx.svc.Submit(context.Background(), "tok-enrolled", body)
	require.NoError(t, err)
	assert.Len(t, data.Responses, 2)
	assert.True(t, fx.grants.isSubmitted(31))
}

func TestSubmitLenientDropsStrayAnswers(t *testing.T) {
	fx := newSubmissionFixture(t, false)

	data, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{
		"51":    `4`,
		"999":   `1`,      // not a question of this form
		"intro": `"text"`, // not a question id at all
	}))
	require.NoError(t, err)
	require.Len(t, data.Responses, 1)
	assert.Equal(t, uint(51), data.Responses[0].QuestionID)
	assert.True(t, fx.grants.isSubmitted(31))
}

func TestSubmitStrictRejectsStrayAnswers(t *testing.T) {
	t.Run("unknown question id", func(t *testing.T) {
		fx := newSubmissionFixture(t, true)
		_, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{
			"51": `4`, "999": `1`,
		}))
		require.ErrorIs(t, err, errdefs.ErrValidation)
		assert.False(t, fx.grants.isSubmitted(31))
		rows, _ := fx.responses.storedRows()
		assert.Empty(t, rows)
	})

	t.Run("non-numeric key", func(t *testing.T) {
		fx := newSubmissionFixture(t, true)
		_, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{
			"intro": `"text"`,
		}))
		require.ErrorIs(t, err, errdefs.ErrValidation)
		assert.False(t, fx.grants.isSubmitted(31))
	})
}

func TestSubmitEmptySurvivingSetStillConsumesGrant(t *testing.T) {
	fx := newSubmissionFixture(t, false)

	data, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"999": `1`}))
	require.NoError(t, err)
	assert.Empty(t, data.Responses)
	assert.True(t, fx.grants.isSubmitted(31))

	_, err = fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
	require.ErrorIs(t, err, errdefs.ErrAlreadySubmitted)
}

func TestSubmitRespondentResolutionFailure(t *testing.T) {
	fx := newSubmissionFixture(t, false)
	fx.students.mu.Lock()
	delete(fx.students.students, 21)
	fx.students.mu.Unlock()

	_, err := fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
	require.ErrorIs(t, err, errdefs.ErrInternal)
	assert.False(t, fx.grants.isSubmitted(31))
}

func TestCheckStatus(t *testing.T) {
	fx := newSubmissionFixture(t, false)

	submitted, err := fx.svc.CheckStatus(context.Background(), "tok-enrolled")
	require.NoError(t, err)
	assert.False(t, submitted)

	_, err = fx.svc.CheckStatus(context.Background(), "no-such-token")
	require.ErrorIs(t, err, errdefs.ErrNotFound)

	_, err = fx.svc.Submit(context.Background(), "tok-enrolled", answers(map[string]string{"51": `4`}))
	require.NoError(t, err)

	submitted, err = fx.svc.CheckStatus(context.Background(), "tok-enrolled")
	require.NoError(t, err)
	assert.True(t, submitted)
}
