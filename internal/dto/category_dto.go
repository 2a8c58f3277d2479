package dto

import "time"

// CategoryCreateDTO creates or renames a question category.
type CategoryCreateDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryResponseDTO is used for listing question categories.
type CategoryResponseDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
