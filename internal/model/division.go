package model

import (
	"time"

	"gorm.io/gorm"
)

type Division struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	SemesterID uint           `json:"semester_id" gorm:"not null;index"`
	Semester   Semester       `json:"semester,omitempty" gorm:"foreignKey:SemesterID"`
	Name       string         `json:"name" gorm:"not null"` // e.g. "A", "B"
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
