package repository

import (
	"context"

	"github.com/collegekit/feedback-api/internal/model"
	"gorm.io/gorm"
)

// AcademicRepository covers the structure lookups the feedback modules need.
// Full CRUD over the academic hierarchy is owned by the administration
// modules, not this service.
type AcademicRepository interface {
	// FindAllocationByID loads an allocation with faculty, subject and the
	// division chain up to the department, enough to resolve the tenant
	// college and the target division of a form.
	FindAllocationByID(ctx context.Context, id uint) (*model.SubjectAllocation, error)
	// FindDivisionChain loads a division with its semester, the semester's
	// department and academic year. Used as the academic-context fallback for
	// override respondents.
	FindDivisionChain(ctx context.Context, id uint) (*model.Division, error)
}

type academicRepository struct {
	db *gorm.DB
}

func NewAcademicRepository(db *gorm.DB) AcademicRepository {
	return &academicRepository{db: db}
}

func (r *academicRepository) FindAllocationByID(ctx context.Context, id uint) (*model.SubjectAllocation, error) {
	var allocation model.SubjectAllocation
	err := r.db.WithContext(ctx).
		Preload("Faculty").
		Preload("Subject").
		Preload("Division").
		Preload("Division.Semester").
		Preload("Division.Semester.Department").
		First(&allocation, id).Error
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *academicRepository) FindDivisionChain(ctx context.Context, id uint) (*model.Division, error) {
	var division model.Division
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Preload("Semester.Department").
		Preload("Semester.AcademicYear").
		First(&division, id).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}
