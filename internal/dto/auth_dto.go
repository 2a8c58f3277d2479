package dto

import "time"

// LoginRequest is the credential payload for admin sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminUserDTO is the admin profile shape returned after login.
type AdminUserDTO struct {
	ID        uint   `json:"id"`
	CollegeID uint   `json:"college_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// LoginResponse carries the signed bearer token plus the admin profile.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     AdminUserDTO `json:"admin"`
}
