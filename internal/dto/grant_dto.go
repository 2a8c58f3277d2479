package dto

import "time"

// OverrideGrantCreateDTO manually adds a roster-exception respondent to a
// form and issues their access grant in one call.
type OverrideGrantCreateDTO struct {
	FeedbackFormID uint   `json:"feedback_form_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Department     string `json:"department"`
	Semester       string `json:"semester"`
}

// GrantResponseDTO is used for listing a form's access grants with their
// submission status.
type GrantResponseDTO struct {
	ID                uint      `json:"id"`
	Token             string    `json:"token"`
	FeedbackFormID    uint      `json:"feedback_form_id"`
	StudentID         *uint     `json:"student_id,omitempty"`
	OverrideStudentID *uint     `json:"override_student_id,omitempty"`
	StudentName       string    `json:"student_name,omitempty"`
	StudentEmail      string    `json:"student_email,omitempty"`
	IsSubmitted       bool      `json:"is_submitted"`
	CreatedAt         time.Time `json:"created_at"`
}

// DistributeResultDTO summarizes one distribution run over a form's division.
type DistributeResultDTO struct {
	FeedbackFormID uint `json:"feedback_form_id"`
	Issued         int  `json:"issued"`
	Skipped        int  `json:"skipped"`     // already had a grant
	MailFailed     int  `json:"mail_failed"` // grant issued but the email did not go out
}
