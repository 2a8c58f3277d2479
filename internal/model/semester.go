package model

import (
	"time"

	"gorm.io/gorm"
)

type Semester struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	DepartmentID   uint           `json:"department_id" gorm:"not null;index"`
	Department     Department     `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	AcademicYearID uint           `json:"academic_year_id" gorm:"not null;index"`
	AcademicYear   AcademicYear   `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	Number         int            `json:"number" gorm:"not null"` // 1..8
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
