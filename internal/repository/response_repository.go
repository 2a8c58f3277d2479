package repository

import (
	"context"
	"fmt"

	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

// SubmissionRecord pairs one answer row with its reporting snapshot. The
// snapshot's StudentResponseID is filled in once the response row has an ID.
type SubmissionRecord struct {
	Response model.StudentResponse
	Snapshot model.FeedbackSnapshot
}

type ResponseRepository interface {
	// CreateSubmission persists one whole submission atomically: every
	// response row, every snapshot row, and the grant's is_submitted flip
	// commit together or not at all. The flip is conditional on the flag
	// still being false; losing that race returns ErrAlreadySubmitted and
	// rolls everything back.
	CreateSubmission(ctx context.Context, grantID uint, records []SubmissionRecord) ([]model.StudentResponse, error)
	FindByFormID(ctx context.Context, formID uint) ([]model.StudentResponse, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) CreateSubmission(ctx context.Context, grantID uint, records []SubmissionRecord) ([]model.StudentResponse, error) {
	created := make([]model.StudentResponse, 0, len(records))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i].Response).Error; err != nil {
				return fmt.Errorf("create response for question %d: %w", records[i].Response.QuestionID, err)
			}
			records[i].Snapshot.StudentResponseID = records[i].Response.ID
			if err := tx.Create(&records[i].Snapshot).Error; err != nil {
				return fmt.Errorf("create snapshot for question %d: %w", records[i].Snapshot.QuestionID, err)
			}
			created = append(created, records[i].Response)
		}

		// Conditional flip is the at-most-once guard: under two concurrent
		// submissions of the same token, the second update matches zero rows
		// and the whole transaction rolls back.
		res := tx.Model(&model.AccessGrant{}).
			Where("id = ? AND is_submitted = ?", grantID, false).
			Update("is_submitted", true)
		if res.Error != nil {
			return fmt.Errorf("mark grant %d submitted: %w", grantID, res.Error)
		}
		if res.RowsAffected == 0 {
			return errdefs.ErrAlreadySubmitted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *responseRepository) FindByFormID(ctx context.Context, formID uint) ([]model.StudentResponse, error) {
	var responses []model.StudentResponse
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("OverrideStudent").
		Where("feedback_form_id = ?", formID).
		Order("submitted_at DESC, id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
