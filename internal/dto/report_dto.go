package dto

import "time"

// SnapshotDTO mirrors one denormalized reporting row.
type SnapshotDTO struct {
	ID                uint      `json:"id"`
	StudentResponseID uint      `json:"student_response_id"`
	StudentID         *uint     `json:"student_id,omitempty"`
	OverrideStudentID *uint     `json:"override_student_id,omitempty"`
	StudentName       string    `json:"student_name"`
	StudentEmail      string    `json:"student_email,omitempty"`
	EnrollmentNo      string    `json:"enrollment_no,omitempty"`
	IsOverrideStudent bool      `json:"is_override_student"`
	AcademicYearID    *uint     `json:"academic_year_id,omitempty"`
	AcademicYearLabel string    `json:"academic_year_label,omitempty"`
	DepartmentID      *uint     `json:"department_id,omitempty"`
	DepartmentName    string    `json:"department_name,omitempty"`
	SemesterID        *uint     `json:"semester_id,omitempty"`
	SemesterLabel     string    `json:"semester_label,omitempty"`
	DivisionID        *uint     `json:"division_id,omitempty"`
	DivisionName      string    `json:"division_name,omitempty"`
	FeedbackFormID    uint      `json:"feedback_form_id"`
	FormTitle         string    `json:"form_title"`
	QuestionID        uint      `json:"question_id"`
	QuestionText      string    `json:"question_text"`
	QuestionType      string    `json:"question_type"`
	QuestionBatch     string    `json:"question_batch,omitempty"`
	CategoryID        uint      `json:"category_id"`
	CategoryName      string    `json:"category_name,omitempty"`
	FacultyID         uint      `json:"faculty_id"`
	FacultyName       string    `json:"faculty_name,omitempty"`
	SubjectID         uint      `json:"subject_id"`
	SubjectName       string    `json:"subject_name,omitempty"`
	SubjectCode       string    `json:"subject_code,omitempty"`
	ResponseValue     string    `json:"response_value"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// QuestionSummaryDTO aggregates one question's answers across a form's
// snapshots. Average is only set for numeric question types.
type QuestionSummaryDTO struct {
	QuestionID    uint     `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	CategoryName  string   `json:"category_name,omitempty"`
	FacultyName   string   `json:"faculty_name,omitempty"`
	SubjectName   string   `json:"subject_name,omitempty"`
	ResponseCount int      `json:"response_count"`
	Average       *float64 `json:"average,omitempty"`
}

// FormReportDTO is the per-form aggregate report computed from snapshots.
type FormReportDTO struct {
	FeedbackFormID uint                 `json:"feedback_form_id"`
	FormTitle      string               `json:"form_title"`
	TotalResponses int                  `json:"total_responses"`
	Respondents    int                  `json:"respondents"`
	Questions      []QuestionSummaryDTO `json:"questions"`
}
