package model

import (
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CollegeID uint           `json:"college_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	Abbrev    string         `json:"abbrev,omitempty"` // e.g. "CE", "IT"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
