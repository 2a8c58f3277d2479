package dto

import "time"

// QuestionCreateDTO is one question inside FormCreateDTO, or the body when
// adding a question to an existing form.
type QuestionCreateDTO struct {
	CategoryID uint     `json:"category_id" binding:"required"`
	FacultyID  uint     `json:"faculty_id" binding:"required"`
	SubjectID  uint     `json:"subject_id" binding:"required"`
	Text       string   `json:"text" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=text number scale choice"`
	Batch      string   `json:"batch"`
	Options    []string `json:"options"` // choice questions only
}

// FormCreateDTO is for creating a feedback form, optionally with its
// questions in the same request.
type FormCreateDTO struct {
	Title               string              `json:"title" binding:"required"`
	SubjectAllocationID uint                `json:"subject_allocation_id" binding:"required"`
	EndDate             *time.Time          `json:"end_date"`
	Questions           []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

// FormUpdateDTO updates form metadata only; questions have their own
// endpoints. Nil fields are left untouched.
type FormUpdateDTO struct {
	Title   *string    `json:"title"`
	EndDate *time.Time `json:"end_date"`
}

// QuestionResponseDTO is used for displaying question details, with the
// related names resolved when the question was loaded with its associations.
type QuestionResponseDTO struct {
	ID             uint     `json:"id"`
	FeedbackFormID uint     `json:"feedback_form_id"`
	CategoryID     uint     `json:"category_id"`
	CategoryName   string   `json:"category_name,omitempty"`
	FacultyID      uint     `json:"faculty_id"`
	FacultyName    string   `json:"faculty_name,omitempty"`
	SubjectID      uint     `json:"subject_id"`
	SubjectName    string   `json:"subject_name,omitempty"`
	Text           string   `json:"text"`
	Type           string   `json:"type"`
	Batch          string   `json:"batch,omitempty"`
	Options        []string `json:"options,omitempty"`
}

// FormResponseDTO is used for displaying full form details.
type FormResponseDTO struct {
	ID                  uint                  `json:"id"`
	Title               string                `json:"title"`
	Status              string                `json:"status"`
	EndDate             *time.Time            `json:"end_date,omitempty"`
	SubjectAllocationID uint                  `json:"subject_allocation_id"`
	CollegeID           uint                  `json:"college_id"`
	Questions           []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
}

// FormSummaryDTO is used for listing forms without their questions.
type FormSummaryDTO struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	QuestionCount int        `json:"question_count"`
	CreatedAt     time.Time  `json:"created_at"`
}
