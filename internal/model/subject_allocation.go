package model

import (
	"time"

	"gorm.io/gorm"
)

// Lecture types a subject allocation can cover.
const (
	LectureTypeTheory   = "THEORY"
	LectureTypeLab      = "LAB"
	LectureTypeTutorial = "TUTORIAL"
)

// SubjectAllocation links a faculty member to a subject taught in a division
// for an academic year. It is the unit a feedback form evaluates.
type SubjectAllocation struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	FacultyID      uint           `json:"faculty_id" gorm:"not null;index"`
	Faculty        Faculty        `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`
	SubjectID      uint           `json:"subject_id" gorm:"not null;index"`
	Subject        Subject        `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	DivisionID     uint           `json:"division_id" gorm:"not null;index"`
	Division       Division       `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	AcademicYearID uint           `json:"academic_year_id" gorm:"not null;index"`
	LectureType    string         `json:"lecture_type" gorm:"not null;default:'THEORY'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
