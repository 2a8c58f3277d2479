package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/config"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

// SubmissionService owns the token-authenticated student surface: the
// feedback-submission transaction and the submission-status check.
type SubmissionService interface {
	// Submit validates the token, resolves the respondent, canonicalizes the
	// answers and persists response + snapshot rows atomically while
	// consuming the grant. Keys of responses are question IDs in decimal.
	Submit(ctx context.Context, token string, responses map[string]json.RawMessage) (*dto.SubmitResponseData, error)
	// CheckStatus reports whether the grant behind token has been consumed.
	// Read-only and safe to poll.
	CheckStatus(ctx context.Context, token string) (bool, error)
}

type submissionService struct {
	grantRepo    repository.GrantRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	studentRepo  repository.StudentRepository
	academicRepo repository.AcademicRepository
	codec        ResponseValueCodec
	strict       bool
	now          func() time.Time
}

func NewSubmissionService(
	grantRepo repository.GrantRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	studentRepo repository.StudentRepository,
	academicRepo repository.AcademicRepository,
	codec ResponseValueCodec,
	cfg *config.Config,
) SubmissionService {
	return &submissionService{
		grantRepo:    grantRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		studentRepo:  studentRepo,
		academicRepo: academicRepo,
		codec:        codec,
		strict:       cfg.Submission.Strict,
		now:          time.Now,
	}
}

// respondent is the resolved identity behind a grant: either an enrolled
// student with full academic linkage, or an override student whose academic
// context is reconstructed from the form's division (with a free-text
// fallback). It stamps that identity onto each snapshot row.
type respondent interface {
	fill(snap *model.FeedbackSnapshot)
}

type enrolledRespondent struct {
	student *model.Student
}

func (r enrolledRespondent) fill(snap *model.FeedbackSnapshot) {
	s := r.student
	snap.StudentID = &s.ID
	snap.StudentName = s.Name
	snap.StudentEmail = s.Email
	snap.EnrollmentNo = s.EnrollmentNo
	snap.IsOverrideStudent = false
	snap.AcademicYearID = &s.AcademicYearID
	snap.AcademicYearLabel = s.AcademicYear.Label
	snap.DepartmentID = &s.Semester.DepartmentID
	snap.DepartmentName = s.Semester.Department.Name
	snap.SemesterID = &s.SemesterID
	snap.SemesterLabel = semesterLabel(s.Semester.Number)
	snap.DivisionID = &s.DivisionID
	snap.DivisionName = s.Division.Name
}

type overrideRespondent struct {
	override *model.OverrideStudent
	division *model.Division // nil when the form's division chain could not be resolved
}

func (r overrideRespondent) fill(snap *model.FeedbackSnapshot) {
	o := r.override
	snap.OverrideStudentID = &o.ID
	snap.StudentName = o.Name
	snap.StudentEmail = o.Email
	snap.IsOverrideStudent = true
	if d := r.division; d != nil {
		snap.DivisionID = &d.ID
		snap.DivisionName = d.Name
		snap.SemesterID = &d.SemesterID
		snap.SemesterLabel = semesterLabel(d.Semester.Number)
		snap.DepartmentID = &d.Semester.DepartmentID
		snap.DepartmentName = d.Semester.Department.Name
		snap.AcademicYearID = &d.Semester.AcademicYearID
		snap.AcademicYearLabel = d.Semester.AcademicYear.Label
		return
	}
	// Academic IDs stay null; labels fall back to the override's free text.
	snap.DepartmentName = o.Department
	snap.SemesterLabel = o.Semester
}

func semesterLabel(number int) string {
	return fmt.Sprintf("Semester %d", number)
}

func (s *submissionService) Submit(ctx context.Context, token string, responses map[string]json.RawMessage) (*dto.SubmitResponseData, error) {
	// 1. Token must resolve to a grant.
	grant, err := s.grantRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("token", token).Msg("Submit: unknown access token")
			return nil, fmt.Errorf("%w: invalid token", errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("load grant for token: %w", err)
	}

	// 2. The form must still exist; the preload yields a zero value when it
	// was soft-deleted.
	if grant.FeedbackForm.ID == 0 {
		log.Warn().Uint("grantID", grant.ID).Msg("Submit: feedback form for grant no longer exists")
		return nil, fmt.Errorf("%w: feedback form not found", errdefs.ErrNotFound)
	}
	form := &grant.FeedbackForm

	// 3. Only ACTIVE forms accept submissions.
	if form.Status != model.FormStatusActive {
		return nil, fmt.Errorf("%w: form is not open for submission", errdefs.ErrForbidden)
	}

	// 4. End-date check is strictly-after: a submission landing exactly on
	// the deadline is still accepted.
	submittedAt := s.now()
	if form.EndDate != nil && submittedAt.After(*form.EndDate) {
		return nil, fmt.Errorf("%w: submission window closed", errdefs.ErrForbidden)
	}

	// 5. At most one submission per grant. This is only a fast pre-check;
	// the transactional flag flip below is the authoritative guard.
	if grant.IsSubmitted {
		return nil, errdefs.ErrAlreadySubmitted
	}

	// 6. Resolve who is answering.
	resp, err := s.resolveRespondent(ctx, grant)
	if err != nil {
		log.Error().Err(err).Uint("grantID", grant.ID).Msg("Submit: respondent resolution failed")
		return nil, err
	}

	// Parse the question keys and batch-load the authoritative question set
	// for this form. Anything outside that set is dropped (or, in strict
	// mode, rejects the submission).
	rawByID := make(map[uint]json.RawMessage, len(responses))
	ids := make([]uint, 0, len(responses))
	for key, raw := range responses {
		id64, parseErr := strconv.ParseUint(key, 10, 32)
		if parseErr != nil {
			if s.strict {
				return nil, fmt.Errorf("%w: %q is not a question id", errdefs.ErrValidation, key)
			}
			log.Warn().Str("key", key).Uint("formID", form.ID).Msg("Submit: non-numeric question key, skipping")
			continue
		}
		rawByID[uint(id64)] = raw
		ids = append(ids, uint(id64))
	}

	questions, err := s.questionRepo.FindByIDsForForm(ctx, form.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions for form %d: %w", form.ID, err)
	}
	questionMap := make(map[uint]model.FeedbackQuestion, len(questions))
	for _, q := range questions {
		questionMap[q.ID] = q
	}

	surviving := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := questionMap[id]; !ok {
			if s.strict {
				return nil, fmt.Errorf("%w: question %d does not belong to this form", errdefs.ErrValidation, id)
			}
			log.Warn().Uint("questionID", id).Uint("formID", form.ID).Msg("Submit: answer for a question not part of this form, skipping")
			continue
		}
		surviving = append(surviving, id)
	}
	sort.Slice(surviving, func(i, j int) bool { return surviving[i] < surviving[j] })

	// One timestamp for the whole submission: every row of it carries the
	// same instant.
	records := make([]repository.SubmissionRecord, 0, len(surviving))
	for _, id := range surviving {
		q := questionMap[id]
		value := s.codec.Canonicalize(q.Type, rawByID[id])

		snap := model.FeedbackSnapshot{
			FeedbackFormID: form.ID,
			FormTitle:      form.Title,
			QuestionID:     q.ID,
			QuestionText:   q.Text,
			QuestionType:   q.Type,
			QuestionBatch:  q.Batch,
			CategoryID:     q.CategoryID,
			CategoryName:   q.Category.Name,
			FacultyID:      q.FacultyID,
			FacultyName:    q.Faculty.Name,
			SubjectID:      q.SubjectID,
			SubjectName:    q.Subject.Name,
			SubjectCode:    q.Subject.Code,
			ResponseValue:  value,
			SubmittedAt:    submittedAt,
		}
		resp.fill(&snap)

		records = append(records, repository.SubmissionRecord{
			Response: model.StudentResponse{
				StudentID:         grant.StudentID,
				OverrideStudentID: grant.OverrideStudentID,
				FeedbackFormID:    form.ID,
				QuestionID:        q.ID,
				ResponseValue:     value,
				SubmittedAt:       submittedAt,
			},
			Snapshot: snap,
		})
	}

	// An empty surviving set still goes through the transaction: the grant
	// is consumed either way and the caller sees a result count of zero.
	created, err := s.responseRepo.CreateSubmission(ctx, grant.ID, records)
	if err != nil {
		if errors.Is(err, errdefs.ErrAlreadySubmitted) {
			return nil, err
		}
		log.Error().Err(err).Uint("grantID", grant.ID).Uint("formID", form.ID).Msg("Submit: submission transaction failed")
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	log.Info().
		Uint("grantID", grant.ID).
		Uint("formID", form.ID).
		Int("answers", len(created)).
		Int("dropped", len(responses)-len(created)).
		Msg("Submit: feedback submission persisted")

	data := &dto.SubmitResponseData{Responses: make([]dto.StudentResponseDTO, 0, len(created))}
	for i := range created {
		var row dto.StudentResponseDTO
		if copyErr := copier.Copy(&row, &created[i]); copyErr != nil {
			return nil, fmt.Errorf("map response %d: %w", created[i].ID, copyErr)
		}
		data.Responses = append(data.Responses, row)
	}
	return data, nil
}

func (s *submissionService) CheckStatus(ctx context.Context, token string) (bool, error) {
	grant, err := s.grantRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: invalid token", errdefs.ErrNotFound)
		}
		return false, fmt.Errorf("load grant for token: %w", err)
	}
	if grant.FeedbackForm.ID == 0 {
		return false, fmt.Errorf("%w: feedback form not found", errdefs.ErrNotFound)
	}
	return grant.IsSubmitted, nil
}

func (s *submissionService) resolveRespondent(ctx context.Context, grant *model.AccessGrant) (respondent, error) {
	switch {
	case grant.StudentID != nil && grant.OverrideStudentID != nil:
		return nil, fmt.Errorf("%w: grant %d references both an enrolled and an override student", errdefs.ErrInternal, grant.ID)

	case grant.StudentID != nil:
		student, err := s.studentRepo.FindByIDWithAcademics(ctx, *grant.StudentID)
		if err != nil {
			return nil, fmt.Errorf("%w: load student %d: %v", errdefs.ErrInternal, *grant.StudentID, err)
		}
		if student.AcademicYear.ID == 0 || student.Semester.ID == 0 ||
			student.Semester.Department.ID == 0 || student.Division.ID == 0 {
			return nil, fmt.Errorf("%w: student %d is missing academic linkage", errdefs.ErrInternal, student.ID)
		}
		return enrolledRespondent{student: student}, nil

	case grant.OverrideStudentID != nil:
		override, err := s.studentRepo.FindOverrideByID(ctx, *grant.OverrideStudentID)
		if err != nil {
			return nil, fmt.Errorf("%w: load override student %d: %v", errdefs.ErrInternal, *grant.OverrideStudentID, err)
		}
		return overrideRespondent{override: override, division: s.resolveDivisionChain(ctx, grant)}, nil

	default:
		return nil, fmt.Errorf("%w: grant %d has no respondent", errdefs.ErrInternal, grant.ID)
	}
}

// resolveDivisionChain walks from the form's allocation to the division and
// its parents. Best effort: any gap returns nil and the snapshot falls back
// to the override's free-text context.
func (s *submissionService) resolveDivisionChain(ctx context.Context, grant *model.AccessGrant) *model.Division {
	alloc := grant.FeedbackForm.SubjectAllocation
	if alloc.ID == 0 || alloc.DivisionID == 0 {
		return nil
	}
	division, err := s.academicRepo.FindDivisionChain(ctx, alloc.DivisionID)
	if err != nil {
		log.Warn().Err(err).Uint("divisionID", alloc.DivisionID).Uint("grantID", grant.ID).
			Msg("Submit: could not resolve division chain for override student")
		return nil
	}
	if division.Semester.ID == 0 || division.Semester.Department.ID == 0 || division.Semester.AcademicYear.ID == 0 {
		return nil
	}
	return division
}
