package model

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	SemesterID uint           `json:"semester_id" gorm:"not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	Code       string         `json:"code" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
