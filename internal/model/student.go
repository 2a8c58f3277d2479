package model

import (
	"time"

	"gorm.io/gorm"
)

// Student is an enrolled student with full relational linkage into the
// academic structure.
type Student struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `json:"name" gorm:"not null"`
	Email          string         `json:"email" gorm:"index"`
	EnrollmentNo   string         `json:"enrollment_no" gorm:"uniqueIndex"`
	AcademicYearID uint           `json:"academic_year_id" gorm:"not null;index"`
	AcademicYear   AcademicYear   `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	SemesterID     uint           `json:"semester_id" gorm:"not null;index"`
	Semester       Semester       `json:"semester,omitempty" gorm:"foreignKey:SemesterID"`
	DivisionID     uint           `json:"division_id" gorm:"not null;index"`
	Division       Division       `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
