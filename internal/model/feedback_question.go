package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question answer kinds. The codec in the service layer normalizes raw answer
// payloads according to this type before anything is persisted.
const (
	QuestionTypeText   = "text"
	QuestionTypeNumber = "number"
	QuestionTypeScale  = "scale"
	QuestionTypeChoice = "choice"
)

type FeedbackQuestion struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	FeedbackFormID uint             `json:"feedback_form_id" gorm:"not null;index"`
	CategoryID     uint             `json:"category_id" gorm:"not null"`
	Category       QuestionCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	FacultyID      uint             `json:"faculty_id" gorm:"not null"`
	Faculty        Faculty          `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`
	SubjectID      uint             `json:"subject_id" gorm:"not null"`
	Subject        Subject          `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Text           string           `json:"text" gorm:"not null"`
	Type           string           `json:"type" gorm:"not null;default:'scale'"`
	// Batch distinguishes lab batches (e.g. "B1") when the same question is
	// asked once per batch; empty for theory questions.
	Batch     string         `json:"batch,omitempty"`
	Options   datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
