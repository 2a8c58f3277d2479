package model

import (
	"time"

	"gorm.io/gorm"
)

type AcademicYear struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CollegeID uint           `json:"college_id" gorm:"not null;index"`
	Label     string         `json:"label" gorm:"not null"` // e.g. "2024-25"
	IsCurrent bool           `json:"is_current" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
