package repository

import (
	"context"

	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

type StudentRepository interface {
	// FindByIDWithAcademics loads a student with the academic year, semester
	// (and its department) and division the snapshot assembly needs.
	FindByIDWithAcademics(ctx context.Context, id uint) (*model.Student, error)
	FindByDivision(ctx context.Context, divisionID uint) ([]model.Student, error)
	CreateOverride(ctx context.Context, override *model.OverrideStudent) error
	FindOverrideByID(ctx context.Context, id uint) (*model.OverrideStudent, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) FindByIDWithAcademics(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Preload("Semester").
		Preload("Semester.Department").
		Preload("Division").
		First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByDivision(ctx context.Context, divisionID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Order("enrollment_no ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) CreateOverride(ctx context.Context, override *model.OverrideStudent) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *studentRepository) FindOverrideByID(ctx context.Context, id uint) (*model.OverrideStudent, error) {
	var override model.OverrideStudent
	if err := r.db.WithContext(ctx).First(&override, id).Error; err != nil {
		return nil, err
	}
	return &override, nil
}
