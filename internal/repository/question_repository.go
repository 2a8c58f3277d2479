package repository

import (
	"context"

	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.FeedbackQuestion) error
	FindByID(ctx context.Context, id uint) (*model.FeedbackQuestion, error)
	FindByFormID(ctx context.Context, formID uint) ([]model.FeedbackQuestion, error)
	// FindByIDsForForm returns the non-deleted questions of one form whose IDs
	// appear in ids, with category, faculty and subject loaded in the same
	// fetch. IDs that belong to another form, are deleted, or do not exist are
	// simply absent from the result.
	FindByIDsForForm(ctx context.Context, formID uint, ids []uint) ([]model.FeedbackQuestion, error)
	Update(ctx context.Context, question *model.FeedbackQuestion) error
	Delete(ctx context.Context, id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.FeedbackQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.FeedbackQuestion, error) {
	var question model.FeedbackQuestion
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Faculty").
		Preload("Subject").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByFormID(ctx context.Context, formID uint) ([]model.FeedbackQuestion, error) {
	var questions []model.FeedbackQuestion
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Faculty").
		Preload("Subject").
		Where("feedback_form_id = ?", formID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByIDsForForm(ctx context.Context, formID uint, ids []uint) ([]model.FeedbackQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.FeedbackQuestion
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Faculty").
		Preload("Subject").
		Where("feedback_form_id = ? AND id IN ?", formID, ids).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, question *model.FeedbackQuestion) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.FeedbackQuestion{}, id).Error
}
