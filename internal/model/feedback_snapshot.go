package model

import "time"

// FeedbackSnapshot is the write-once reporting row created alongside each
// StudentResponse. Everything reports ever need is flattened here at submit
// time, so later edits to students, faculties or forms cannot rewrite
// history. Snapshots have no soft-delete column and are never updated.
type FeedbackSnapshot struct {
	ID                uint `gorm:"primarykey" json:"id"`
	StudentResponseID uint `json:"student_response_id" gorm:"not null;uniqueIndex"`

	// Respondent identity at submit time. Exactly one of StudentID /
	// OverrideStudentID is set, matching the response row.
	StudentID         *uint  `json:"student_id,omitempty"`
	OverrideStudentID *uint  `json:"override_student_id,omitempty"`
	StudentName       string `json:"student_name" gorm:"not null"`
	StudentEmail      string `json:"student_email"`
	EnrollmentNo      string `json:"enrollment_no"`
	IsOverrideStudent bool   `json:"is_override_student" gorm:"not null;default:false"`

	// Academic placement. IDs are nullable because override respondents carry
	// free-text department/semester only; labels are always populated with the
	// best information available.
	AcademicYearID    *uint  `json:"academic_year_id,omitempty"`
	AcademicYearLabel string `json:"academic_year_label"`
	DepartmentID      *uint  `json:"department_id,omitempty"`
	DepartmentName    string `json:"department_name"`
	SemesterID        *uint  `json:"semester_id,omitempty"`
	SemesterLabel     string `json:"semester_label"`
	DivisionID        *uint  `json:"division_id,omitempty"`
	DivisionName      string `json:"division_name"`

	// Form and question context.
	FeedbackFormID uint   `json:"feedback_form_id" gorm:"not null;index"`
	FormTitle      string `json:"form_title" gorm:"not null"`
	QuestionID     uint   `json:"question_id" gorm:"not null;index"`
	QuestionText   string `json:"question_text" gorm:"not null"`
	QuestionType   string `json:"question_type" gorm:"not null"`
	QuestionBatch  string `json:"question_batch"`
	CategoryID     uint   `json:"category_id"`
	CategoryName   string `json:"category_name"`
	FacultyID      uint   `json:"faculty_id" gorm:"index"`
	FacultyName    string `json:"faculty_name"`
	SubjectID      uint   `json:"subject_id" gorm:"index"`
	SubjectName    string `json:"subject_name"`
	SubjectCode    string `json:"subject_code"`

	ResponseValue string    `json:"response_value" gorm:"not null"`
	SubmittedAt   time.Time `json:"submitted_at" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at"`
}
