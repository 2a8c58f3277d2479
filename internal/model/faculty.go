package model

import (
	"time"

	"gorm.io/gorm"
)

type Faculty struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	DepartmentID uint           `json:"department_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
