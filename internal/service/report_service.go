package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

// ReportService reads submissions back out for the admin panel: raw response
// rows, the denormalized snapshots, and a per-question aggregate computed
// from snapshots so it stays correct even after academic records change.
type ReportService interface {
	FormResponses(ctx context.Context, collegeID, formID uint) ([]dto.StudentResponseDTO, error)
	FormSnapshots(ctx context.Context, collegeID, formID uint) ([]dto.SnapshotDTO, error)
	FormSummary(ctx context.Context, collegeID, formID uint) (*dto.FormReportDTO, error)
}

type reportService struct {
	formRepo     repository.FormRepository
	responseRepo repository.ResponseRepository
	snapshotRepo repository.SnapshotRepository
	codec        ResponseValueCodec
}

func NewReportService(
	formRepo repository.FormRepository,
	responseRepo repository.ResponseRepository,
	snapshotRepo repository.SnapshotRepository,
	codec ResponseValueCodec,
) ReportService {
	return &reportService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		snapshotRepo: snapshotRepo,
		codec:        codec,
	}
}

func (s *reportService) FormResponses(ctx context.Context, collegeID, formID uint) ([]dto.StudentResponseDTO, error) {
	if err := s.checkForm(ctx, collegeID, formID); err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load responses for form %d: %w", formID, err)
	}
	rows := make([]dto.StudentResponseDTO, 0, len(responses))
	for i := range responses {
		var row dto.StudentResponseDTO
		if err := copier.Copy(&row, &responses[i]); err != nil {
			return nil, fmt.Errorf("map response %d: %w", responses[i].ID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) FormSnapshots(ctx context.Context, collegeID, formID uint) ([]dto.SnapshotDTO, error) {
	if err := s.checkForm(ctx, collegeID, formID); err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots for form %d: %w", formID, err)
	}
	rows := make([]dto.SnapshotDTO, 0, len(snapshots))
	for i := range snapshots {
		var row dto.SnapshotDTO
		if err := copier.Copy(&row, &snapshots[i]); err != nil {
			return nil, fmt.Errorf("map snapshot %d: %w", snapshots[i].ID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) FormSummary(ctx context.Context, collegeID, formID uint) (*dto.FormReportDTO, error) {
	form, err := s.loadOwnedForm(ctx, collegeID, formID)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots for form %d: %w", formID, err)
	}

	type aggregate struct {
		first model.FeedbackSnapshot
		count int
		sum   float64
		nums  int
	}
	byQuestion := make(map[uint]*aggregate)
	respondents := make(map[string]bool)

	for _, snap := range snapshots {
		agg, ok := byQuestion[snap.QuestionID]
		if !ok {
			agg = &aggregate{first: snap}
			byQuestion[snap.QuestionID] = agg
		}
		agg.count++
		if v, numeric := s.codec.Numeric(snap.QuestionType, snap.ResponseValue); numeric {
			agg.sum += v
			agg.nums++
		}
		respondents[respondentKey(snap)] = true
	}

	questionIDs := make([]uint, 0, len(byQuestion))
	for id := range byQuestion {
		questionIDs = append(questionIDs, id)
	}
	sort.Slice(questionIDs, func(i, j int) bool { return questionIDs[i] < questionIDs[j] })

	report := &dto.FormReportDTO{
		FeedbackFormID: formID,
		FormTitle:      form.Title,
		TotalResponses: len(snapshots),
		Respondents:    len(respondents),
		Questions:      make([]dto.QuestionSummaryDTO, 0, len(questionIDs)),
	}
	for _, id := range questionIDs {
		agg := byQuestion[id]
		summary := dto.QuestionSummaryDTO{
			QuestionID:    id,
			QuestionText:  agg.first.QuestionText,
			QuestionType:  agg.first.QuestionType,
			CategoryName:  agg.first.CategoryName,
			FacultyName:   agg.first.FacultyName,
			SubjectName:   agg.first.SubjectName,
			ResponseCount: agg.count,
		}
		if agg.nums > 0 {
			avg := agg.sum / float64(agg.nums)
			summary.Average = &avg
		}
		report.Questions = append(report.Questions, summary)
	}
	return report, nil
}

func respondentKey(snap model.FeedbackSnapshot) string {
	if snap.IsOverrideStudent && snap.OverrideStudentID != nil {
		return fmt.Sprintf("o:%d", *snap.OverrideStudentID)
	}
	if snap.StudentID != nil {
		return fmt.Sprintf("s:%d", *snap.StudentID)
	}
	return fmt.Sprintf("r:%d", snap.StudentResponseID)
}

func (s *reportService) checkForm(ctx context.Context, collegeID, formID uint) error {
	_, err := s.loadOwnedForm(ctx, collegeID, formID)
	return err
}

func (s *reportService) loadOwnedForm(ctx context.Context, collegeID, formID uint) (*model.FeedbackForm, error) {
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
