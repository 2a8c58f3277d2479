package model

import (
	"time"

	"gorm.io/gorm"
)

// Admin roles.
const (
	RoleAdmin     = "admin"
	RolePrincipal = "principal"
)

type AdminUser struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CollegeID    uint           `json:"college_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         string         `json:"role" gorm:"not null;default:'admin'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
