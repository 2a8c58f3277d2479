package model

import "time"

// AccessGrant is the single-use submission credential for one respondent on
// one form. Exactly one of StudentID / OverrideStudentID is set. Grants are
// never deleted; IsSubmitted flips to true exactly once, inside the same
// transaction that persists the responses.
type AccessGrant struct {
	ID                uint             `gorm:"primarykey" json:"id"`
	Token             string           `json:"token" gorm:"uniqueIndex;not null"`
	FeedbackFormID    uint             `json:"feedback_form_id" gorm:"not null;index"`
	FeedbackForm      FeedbackForm     `json:"feedback_form,omitempty" gorm:"foreignKey:FeedbackFormID"`
	StudentID         *uint            `json:"student_id,omitempty" gorm:"index"`
	Student           *Student         `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	OverrideStudentID *uint            `json:"override_student_id,omitempty" gorm:"index"`
	OverrideStudent   *OverrideStudent `json:"override_student,omitempty" gorm:"foreignKey:OverrideStudentID"`
	IsSubmitted       bool             `json:"is_submitted" gorm:"not null;default:false"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
