package repository

import (
	"context"

	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

type GrantRepository interface {
	Create(ctx context.Context, grant *model.AccessGrant) error
	CreateInBatches(ctx context.Context, grants []model.AccessGrant) error
	// FindByToken loads the grant with its form. The form association is
	// zero-valued when the form was soft-deleted, which callers treat the same
	// as an unknown token.
	FindByToken(ctx context.Context, token string) (*model.AccessGrant, error)
	FindByFormID(ctx context.Context, formID uint) ([]model.AccessGrant, error)
}

type grantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) Create(ctx context.Context, grant *model.AccessGrant) error {
	return r.db.WithContext(ctx).Create(grant).Error
}

func (r *grantRepository) CreateInBatches(ctx context.Context, grants []model.AccessGrant) error {
	if len(grants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(grants, 100).Error
}

func (r *grantRepository) FindByToken(ctx context.Context, token string) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	err := r.db.WithContext(ctx).
		Preload("FeedbackForm").
		Preload("FeedbackForm.SubjectAllocation").
		Where("token = ?", token).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *grantRepository) FindByFormID(ctx context.Context, formID uint) ([]model.AccessGrant, error) {
	var grants []model.AccessGrant
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("OverrideStudent").
		Where("feedback_form_id = ?", formID).
		Order("id ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}
