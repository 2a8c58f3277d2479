package dto

import "time"

// StudentResponseDTO echoes one persisted answer row back to the respondent
// after a successful submission.
type StudentResponseDTO struct {
	ID                uint      `json:"id"`
	StudentID         *uint     `json:"student_id,omitempty"`
	OverrideStudentID *uint     `json:"override_student_id,omitempty"`
	FeedbackFormID    uint      `json:"feedback_form_id"`
	QuestionID        uint      `json:"question_id"`
	ResponseValue     string    `json:"response_value"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// SubmitResponseData is the data payload of a successful submission.
type SubmitResponseData struct {
	Responses []StudentResponseDTO `json:"responses"`
}

// CheckSubmissionData is the data payload of the status-check endpoint.
// The key is camelCase because the student portal frontend pins it.
type CheckSubmissionData struct {
	IsSubmitted bool `json:"isSubmitted"`
}
