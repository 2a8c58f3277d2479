package repository

import (
	"context"

	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

// SnapshotRepository is read-only: snapshots are written exclusively by the
// submission transaction in ResponseRepository.
type SnapshotRepository interface {
	FindByFormID(ctx context.Context, formID uint) ([]model.FeedbackSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) FindByFormID(ctx context.Context, formID uint) ([]model.FeedbackSnapshot, error) {
	var snapshots []model.FeedbackSnapshot
	err := r.db.WithContext(ctx).
		Where("feedback_form_id = ?", formID).
		Order("question_id ASC, id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
