package model

import (
	"time"

	"gorm.io/gorm"
)

// OverrideStudent is a roster exception: a respondent added to a form outside
// the normal enrollment pipeline. It carries free-text department/semester
// labels and no relational linkage to the academic structure.
type OverrideStudent struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `json:"name" gorm:"not null"`
	Email      string         `json:"email"`
	Department string         `json:"department"` // free text, not a Department FK
	Semester   string         `json:"semester"`   // free text, e.g. "VI"
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
