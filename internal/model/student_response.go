package model

import (
	"time"

	"gorm.io/gorm"
)

// StudentResponse is one normalized answer row: respondent x question.
// Exactly one of StudentID / OverrideStudentID is set, mirroring the grant
// the submission came through.
type StudentResponse struct {
	ID                uint             `gorm:"primarykey" json:"id"`
	StudentID         *uint            `json:"student_id,omitempty" gorm:"index"`
	Student           *Student         `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	OverrideStudentID *uint            `json:"override_student_id,omitempty" gorm:"index"`
	OverrideStudent   *OverrideStudent `json:"override_student,omitempty" gorm:"foreignKey:OverrideStudentID"`
	FeedbackFormID    uint             `json:"feedback_form_id" gorm:"not null;index"`
	QuestionID        uint             `json:"question_id" gorm:"not null;index"`
	ResponseValue     string           `json:"response_value" gorm:"not null"`
	SubmittedAt       time.Time        `json:"submitted_at" gorm:"not null"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}
