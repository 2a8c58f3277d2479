package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

// FormService manages feedback forms and their questions. Every operation is
// scoped to the caller's college; a form belonging to another tenant is
// indistinguishable from a missing one.
type FormService interface {
	CreateForm(ctx context.Context, collegeID uint, req dto.FormCreateDTO) (*dto.FormResponseDTO, error)
	GetForm(ctx context.Context, collegeID, formID uint) (*dto.FormResponseDTO, error)
	ListForms(ctx context.Context, collegeID uint) ([]dto.FormSummaryDTO, error)
	UpdateForm(ctx context.Context, collegeID, formID uint, req dto.FormUpdateDTO) (*dto.FormResponseDTO, error)
	// ActivateForm moves DRAFT to ACTIVE, CloseForm moves ACTIVE to CLOSED.
	// Any other transition is rejected.
	ActivateForm(ctx context.Context, collegeID, formID uint) (*dto.FormResponseDTO, error)
	CloseForm(ctx context.Context, collegeID, formID uint) (*dto.FormResponseDTO, error)
	DeleteForm(ctx context.Context, collegeID, formID uint) error
	AddQuestion(ctx context.Context, collegeID, formID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(ctx context.Context, collegeID, formID, questionID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(ctx context.Context, collegeID, formID, questionID uint) error
}

type formService struct {
	formRepo     repository.FormRepository
	questionRepo repository.QuestionRepository
	academicRepo repository.AcademicRepository
}

func NewFormService(
	formRepo repository.FormRepository,
	questionRepo repository.QuestionRepository,
	academicRepo repository.AcademicRepository,
) FormService {
	return &formService{
		formRepo:     formRepo,
		questionRepo: questionRepo,
		academicRepo: academicRepo,
	}
}

func (s *formService) CreateForm(ctx context.Context, collegeID uint, req dto.FormCreateDTO) (*dto.FormResponseDTO, error) {
	allocation, err := s.academicRepo.FindAllocationByID(ctx, req.SubjectAllocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject allocation %d not found", errdefs.ErrValidation, req.SubjectAllocationID)
		}
		return nil, fmt.Errorf("load allocation %d: %w", req.SubjectAllocationID, err)
	}
	if allocation.Division.Semester.Department.CollegeID != collegeID {
		return nil, fmt.Errorf("%w: subject allocation %d belongs to another college", errdefs.ErrValidation, req.SubjectAllocationID)
	}

	form := model.FeedbackForm{
		Title:               req.Title,
		Status:              model.FormStatusDraft,
		EndDate:             req.EndDate,
		SubjectAllocationID: allocation.ID,
		CollegeID:           collegeID,
	}
	for _, qReq := range req.Questions {
		q, qErr := questionFromCreateDTO(0, qReq)
		if qErr != nil {
			return nil, qErr
		}
		form.Questions = append(form.Questions, q)
	}

	if err := s.formRepo.Create(ctx, &form); err != nil {
		log.Error().Err(err).Uint("collegeID", collegeID).Msg("CreateForm: create failed")
		return nil, fmt.Errorf("create form: %w", err)
	}
	log.Info().Uint("formID", form.ID).Uint("collegeID", collegeID).Int("questions", len(form.Questions)).Msg("Feedback form created")

	return s.GetForm(ctx, collegeID, form.ID)
}

func (s *formService) GetForm(ctx context.Context, collegeID, formID uint) (*dto.FormResponseDTO, error) {
	form, err := s.formRepo.FindByIDWithQuestions(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: form %d", errdefs.ErrNotFound, formID)
		}
		return nil, fmt.Errorf("load form %d: %w", formID, err)
	}
	if form.CollegeID != collegeID {
		return nil, fmt.Errorf("%w: form %d", errdefs.ErrNotFound, formID)
	}
	resp := formToDTO(form)
	return &resp, nil
}

func (s *formService) ListForms(ctx context.Context, collegeID uint) ([]dto.FormSummaryDTO, error) {
	rows, err := s.formRepo.FindAllByCollege(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("list forms for college %d: %w", collegeID, err)
	}
	summaries := make([]dto.FormSummaryDTO, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dto.FormSummaryDTO{
			ID:            row.ID,
			Title:         row.Title,
			Status:        row.Status,
			EndDate:       row.EndDate,
			QuestionCount: row.QuestionCount,
			CreatedAt:     row.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *formService) UpdateForm(ctx context.Context, collegeID, formID uint, req dto.FormUpdateDTO) (*dto.FormResponseDTO, error) {
	form, err := s.loadOwnedForm(ctx, collegeID, formID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.EndDate != nil {
		form.EndDate = req.EndDate
	}
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("update form %d: %w", formID, err)
	}
	return s.GetForm(ctx, collegeID, formID)
}

func (s *formService) ActivateForm(ctx context.Context, collegeID, formID uint) (*dto.FormResponseDTO, error) {
	return s.transition(ctx, collegeID, formID, model.FormStatusDraft, model.FormStatusActive)
}

func (s *formService) CloseForm(ctx context.Context, collegeID, formID uint) (*dto.FormResponseDTO, error) {
	return s.transition(ctx, collegeID, formID, model.FormStatusActive, model.FormStatusClosed)
}

func (s *formService) transition(ctx context.Context, collegeID, formID uint, from, to string) (*dto.FormResponseDTO, error) {
	form, err := s.loadOwnedForm(ctx, collegeID, formID)
	if err != nil {
		return nil, err
	}
	if form.Status != from {
		return nil, fmt.Errorf("%w: form %d is %s, expected %s", errdefs.ErrValidation, formID, form.Status, from)
	}
	form.Status = to
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("update form %d status: %w", formID, err)
	}
	log.Info().Uint("formID", formID).Str("from", from).Str("to", to).Msg("Feedback form status changed")
	return s.GetForm(ctx, collegeID, formID)
}

func (s *formService) DeleteForm(ctx context.Context, collegeID, formID uint) error {
	form, err := s.loadOwnedForm(ctx, collegeID, formID)
	if err != nil {
		return err
	}
	if err := s.formRepo.Delete(ctx, form.ID); err != nil {
		return fmt.Errorf("delete form %d: %w", formID, err)
	}
	log.Info().Uint("formID", formID).Msg("Feedback form deleted")
	return nil
}

func (s *formService) AddQuestion(ctx context.Context, collegeID, formID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.loadOwnedForm(ctx, collegeID, formID); err != nil {
		return nil, err
	}
	question, err := questionFromCreateDTO(formID, req)
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(ctx, &question); err != nil {
		return nil, fmt.Errorf("create question for form %d: %w", formID, err)
	}
	return s.questionDTOByID(ctx, question.ID)
}

func (s *formService) UpdateQuestion(ctx context.Context, collegeID, formID, questionID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.loadOwnedForm(ctx, collegeID, formID); err != nil {
		return nil, err
	}
	question, err := s.loadFormQuestion(ctx, formID, questionID)
	if err != nil {
		return nil, err
	}
	updated, err := questionFromCreateDTO(formID, req)
	if err != nil {
		return nil, err
	}
	question.CategoryID = updated.CategoryID
	question.FacultyID = updated.FacultyID
	question.SubjectID = updated.SubjectID
	question.Text = updated.Text
	question.Type = updated.Type
	question.Batch = updated.Batch
	question.Options = updated.Options
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question %d: %w", questionID, err)
	}
	return s.questionDTOByID(ctx, questionID)
}

func (s *formService) DeleteQuestion(ctx context.Context, collegeID, formID, questionID uint) error {
	if _, err := s.loadOwnedForm(ctx, collegeID, formID); err != nil {
		return err
	}
	if _, err := s.loadFormQuestion(ctx, formID, questionID); err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("delete question %d: %w", questionID, err)
	}
	return nil
}

func (s *formService) loadOwnedForm(ctx context.Context, collegeID, formID uint) (*model.FeedbackForm, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: form %d", errdefs.ErrNotFound, formID)
		}
		return nil, fmt.Errorf("load form %d: %w", formID, err)
	}
	if form.CollegeID != collegeID {
		return nil, fmt.Errorf("%w: form %d", errdefs.ErrNotFound, formID)
	}
	return form, nil
}

func (s *formService) loadFormQuestion(ctx context.Context, formID, questionID uint) (*model.FeedbackQuestion, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", errdefs.ErrNotFound, questionID)
		}
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}
	if question.FeedbackFormID != formID {
		return nil, fmt.Errorf("%w: question %d", errdefs.ErrNotFound, questionID)
	}
	return question, nil
}

func (s *formService) questionDTOByID(ctx context.Context, questionID uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("reload question %d: %w", questionID, err)
	}
	resp := questionToDTO(*question)
	return &resp, nil
}

func questionFromCreateDTO(formID uint, req dto.QuestionCreateDTO) (model.FeedbackQuestion, error) {
	q := model.FeedbackQuestion{
		FeedbackFormID: formID,
		CategoryID:     req.CategoryID,
		FacultyID:      req.FacultyID,
		SubjectID:      req.SubjectID,
		Text:           req.Text,
		Type:           req.Type,
		Batch:          req.Batch,
	}
	if req.Type == model.QuestionTypeChoice && len(req.Options) == 0 {
		return q, fmt.Errorf("%w: choice questions need at least one option", errdefs.ErrValidation)
	}
	if len(req.Options) > 0 {
		b, err := json.Marshal(req.Options)
		if err != nil {
			return q, fmt.Errorf("encode question options: %w", err)
		}
		q.Options = datatypes.JSON(b)
	}
	return q, nil
}

func questionToDTO(q model.FeedbackQuestion) dto.QuestionResponseDTO {
	resp := dto.QuestionResponseDTO{
		ID:             q.ID,
		FeedbackFormID: q.FeedbackFormID,
		CategoryID:     q.CategoryID,
		CategoryName:   q.Category.Name,
		FacultyID:      q.FacultyID,
		FacultyName:    q.Faculty.Name,
		SubjectID:      q.SubjectID,
		SubjectName:    q.Subject.Name,
		Text:           q.Text,
		Type:           q.Type,
		Batch:          q.Batch,
	}
	if len(q.Options) > 0 {
		if err := json.Unmarshal(q.Options, &resp.Options); err != nil {
			log.Warn().Err(err).Uint("questionID", q.ID).Msg("Could not decode question options")
		}
	}
	return resp
}

func formToDTO(form *model.FeedbackForm) dto.FormResponseDTO {
	resp := dto.FormResponseDTO{
		ID:                  form.ID,
		Title:               form.Title,
		Status:              form.Status,
		EndDate:             form.EndDate,
		SubjectAllocationID: form.SubjectAllocationID,
		CollegeID:           form.CollegeID,
		CreatedAt:           form.CreatedAt,
	}
	for _, q := range form.Questions {
		resp.Questions = append(resp.Questions, questionToDTO(q))
	}
	return resp
}
