package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/config"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/mailer"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

// GrantService issues single-use access grants: bulk distribution to a form's
// division roster, manual override grants for respondents outside the roster,
// and the grant listing the admin panel polls for completion.
type GrantService interface {
	Distribute(ctx context.Context, collegeID, formID uint) (*dto.DistributeResultDTO, error)
	AddOverride(ctx context.Context, collegeID uint, req dto.OverrideGrantCreateDTO) (*dto.GrantResponseDTO, error)
	ListGrants(ctx context.Context, collegeID, formID uint) ([]dto.GrantResponseDTO, error)
}

type grantService struct {
	formRepo      repository.FormRepository
	grantRepo     repository.GrantRepository
	studentRepo   repository.StudentRepository
	academicRepo  repository.AcademicRepository
	mail          mailer.Mailer
	portalBaseURL string
}

func NewGrantService(
	formRepo repository.FormRepository,
	grantRepo repository.GrantRepository,
	studentRepo repository.StudentRepository,
	academicRepo repository.AcademicRepository,
	mail mailer.Mailer,
	cfg *config.Config,
) GrantService {
	return &grantService{
		formRepo:      formRepo,
		grantRepo:     grantRepo,
		studentRepo:   studentRepo,
		academicRepo:  academicRepo,
		mail:          mail,
		portalBaseURL: cfg.Mail.PortalBaseURL,
	}
}

func (s *grantService) Distribute(ctx context.Context, collegeID, formID uint) (*dto.DistributeResultDTO, error) {
	form, err := s.loadActiveForm(ctx, collegeID, formID)
	if err != nil {
		return nil, err
	}

	allocation, err := s.academicRepo.FindAllocationByID(ctx, form.SubjectAllocationID)
	if err != nil {
		return nil, fmt.Errorf("load allocation %d for form %d: %w", form.SubjectAllocationID, formID, err)
	}

	students, err := s.studentRepo.FindByDivision(ctx, allocation.DivisionID)
	if err != nil {
		return nil, fmt.Errorf("load students of division %d: %w", allocation.DivisionID, err)
	}

	existing, err := s.grantRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load existing grants for form %d: %w", formID, err)
	}
	granted := make(map[uint]bool, len(existing))
	for _, g := range existing {
		if g.StudentID != nil {
			granted[*g.StudentID] = true
		}
	}

	result := &dto.DistributeResultDTO{FeedbackFormID: formID}
	grants := make([]model.AccessGrant, 0, len(students))
	recipients := make([]model.Student, 0, len(students))
	for i := range students {
		st := students[i]
		if granted[st.ID] {
			result.Skipped++
			continue
		}
		studentID := st.ID
		grants = append(grants, model.AccessGrant{
			Token:          uuid.NewString(),
			FeedbackFormID: formID,
			StudentID:      &studentID,
		})
		recipients = append(recipients, st)
	}

	if err := s.grantRepo.CreateInBatches(ctx, grants); err != nil {
		return nil, fmt.Errorf("create grants for form %d: %w", formID, err)
	}
	result.Issued = len(grants)

	// Email delivery is best effort: a failed mail never rolls the grant
	// back, the admin panel shows the token for manual delivery.
	for i := range grants {
		if mailErr := s.sendGrantMail(ctx, form, recipients[i].Name, recipients[i].Email, grants[i].Token); mailErr != nil {
			log.Error().Err(mailErr).Str("email", recipients[i].Email).Uint("formID", formID).Msg("Distribute: grant email failed")
			result.MailFailed++
		}
	}

	log.Info().
		Uint("formID", formID).
		Int("issued", result.Issued).
		Int("skipped", result.Skipped).
		Int("mailFailed", result.MailFailed).
		Msg("Access grants distributed")
	return result, nil
}

func (s *grantService) AddOverride(ctx context.Context, collegeID uint, req dto.OverrideGrantCreateDTO) (*dto.GrantResponseDTO, error) {
	form, err := s.loadActiveForm(ctx, collegeID, req.FeedbackFormID)
	if err != nil {
		return nil, err
	}

	override := model.OverrideStudent{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Semester:   req.Semester,
	}
	if err := s.studentRepo.CreateOverride(ctx, &override); err != nil {
		return nil, fmt.Errorf("create override student: %w", err)
	}

	overrideID := override.ID
	grant := model.AccessGrant{
		Token:             uuid.NewString(),
		FeedbackFormID:    form.ID,
		OverrideStudentID: &overrideID,
	}
	if err := s.grantRepo.Create(ctx, &grant); err != nil {
		return nil, fmt.Errorf("create override grant: %w", err)
	}

	if mailErr := s.sendGrantMail(ctx, form, override.Name, override.Email, grant.Token); mailErr != nil {
		log.Error().Err(mailErr).Str("email", override.Email).Uint("formID", form.ID).Msg("AddOverride: grant email failed")
	}

	log.Info().Uint("formID", form.ID).Uint("overrideStudentID", override.ID).Msg("Override grant issued")
	resp := dto.GrantResponseDTO{
		ID:                grant.ID,
		Token:             grant.Token,
		FeedbackFormID:    grant.FeedbackFormID,
		OverrideStudentID: grant.OverrideStudentID,
		StudentName:       override.Name,
		StudentEmail:      override.Email,
		IsSubmitted:       false,
		CreatedAt:         grant.CreatedAt,
	}
	return &resp, nil
}

func (s *grantService) ListGrants(ctx context.Context, collegeID, formID uint) ([]dto.GrantResponseDTO, error) {
	if _, err := s.loadOwnedForm(ctx, collegeID, formID); err != nil {
		return nil, err
	}
	grants, err := s.grantRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load grants for form %d: %w", formID, err)
	}

	resp := make([]dto.GrantResponseDTO, 0, len(grants))
	for _, g := range grants {
		row := dto.GrantResponseDTO{
			ID:                g.ID,
			Token:             g.Token,
			FeedbackFormID:    g.FeedbackFormID,
			StudentID:         g.StudentID,
			OverrideStudentID: g.OverrideStudentID,
			IsSubmitted:       g.IsSubmitted,
			CreatedAt:         g.CreatedAt,
		}
		switch {
		case g.Student != nil:
			row.StudentName = g.Student.Name
			row.StudentEmail = g.Student.Email
		case g.OverrideStudent != nil:
			row.StudentName = g.OverrideStudent.Name
			row.StudentEmail = g.OverrideStudent.Email
		}
		resp = append(resp, row)
	}
	return resp, nil
}

func (s *grantService) loadOwnedForm(ctx context.Context, collegeID, formID uint) (*model.FeedbackForm, error) {
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

// loadActiveForm is loadOwnedForm plus the ACTIVE requirement: grants are
// only issued while a form accepts submissions.
func (s *grantService) loadActiveForm(ctx context.Context, collegeID, formID uint) (*model.FeedbackForm, error) {
	form, err := s.loadOwnedForm(ctx, collegeID, formID)
	if err != nil {
		return nil, err
	}
	if form.Status != model.FormStatusActive {
		return nil, fmt.Errorf("%w: form %d is %s, grants need an active form", errdefs.ErrValidation, formID, form.Status)
	}
	return form, nil
}

func (s *grantService) sendGrantMail(ctx context.Context, form *model.FeedbackForm, name, email, token string) error {
	link := fmt.Sprintf("%s/feedback/%s", s.portalBaseURL, token)
	text := fmt.Sprintf(
		"Hello %s,\n\nYou have been asked to fill in the feedback form %q. Open the link below to submit your answers. The link works exactly once.\n\n%s\n",
		name, form.Title, link,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>You have been asked to fill in the feedback form <strong>%s</strong>. The link works exactly once.</p><p><a href=%q>Open feedback form</a></p>",
		name, form.Title, link,
	)
	return s.mail.Send(ctx, mailer.Message{
		ToName:    name,
		ToEmail:   email,
		Subject:   "Feedback requested: " + form.Title,
		PlainText: text,
		HTML:      html,
	})
}
