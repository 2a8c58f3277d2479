package repository

import (
	"context"

	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

// FormWithQuestionCount is the listing projection: form columns plus a
// question count, scanned in one query.
type FormWithQuestionCount struct {
	model.FeedbackForm
	QuestionCount int
}

type FormRepository interface {
	Create(ctx context.Context, form *model.FeedbackForm) error
	FindByID(ctx context.Context, id uint) (*model.FeedbackForm, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.FeedbackForm, error)
	FindAllByCollege(ctx context.Context, collegeID uint) ([]FormWithQuestionCount, error)
	Update(ctx context.Context, form *model.FeedbackForm) error
	Delete(ctx context.Context, id uint) error
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) Create(ctx context.Context, form *model.FeedbackForm) error {
	// Create with associations also inserts form.Questions when populated,
	// since FeedbackQuestion carries the FeedbackFormID foreign key.
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *formRepository) FindByID(ctx context.Context, id uint) (*model.FeedbackForm, error) {
	var form model.FeedbackForm
	if err := r.db.WithContext(ctx).First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.FeedbackForm, error) {
	var form model.FeedbackForm
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("feedback_questions.id ASC")
		}).
		Preload("Questions.Category").
		Preload("Questions.Faculty").
		Preload("Questions.Subject").
		First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindAllByCollege(ctx context.Context, collegeID uint) ([]FormWithQuestionCount, error) {
	var results []FormWithQuestionCount
	err := r.db.WithContext(ctx).Model(&model.FeedbackForm{}).
		Select("feedback_forms.*, (SELECT COUNT(*) FROM feedback_questions WHERE feedback_questions.feedback_form_id = feedback_forms.id AND feedback_questions.deleted_at IS NULL) as question_count").
		Where("feedback_forms.college_id = ?", collegeID).
		Where("feedback_forms.deleted_at IS NULL").
		Order("feedback_forms.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *formRepository) Update(ctx context.Context, form *model.FeedbackForm) error {
	return r.db.WithContext(ctx).Save(form).Error
}

func (r *formRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.FeedbackForm{}, id).Error
}
