package model

import (
	"time"

	"gorm.io/gorm"
)

// Feedback form lifecycle. Submissions are only accepted while ACTIVE.
const (
	FormStatusDraft  = "DRAFT"
	FormStatusActive = "ACTIVE"
	FormStatusClosed = "CLOSED"
)

type FeedbackForm struct {
	ID                  uint              `gorm:"primarykey" json:"id"`
	Title               string            `json:"title" gorm:"not null"`
	Status              string            `json:"status" gorm:"not null;default:'DRAFT';index"`
	EndDate             *time.Time        `json:"end_date,omitempty"`
	SubjectAllocationID uint              `json:"subject_allocation_id" gorm:"not null;index"`
	SubjectAllocation   SubjectAllocation `json:"subject_allocation,omitempty" gorm:"foreignKey:SubjectAllocationID"`
	// CollegeID is denormalized from the allocation chain at creation so that
	// tenant-scoped listings do not need a four-table join.
	CollegeID uint               `json:"college_id" gorm:"not null;index"`
	Questions []FeedbackQuestion `json:"questions,omitempty" gorm:"foreignKey:FeedbackFormID"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index" json:"-"`
}
