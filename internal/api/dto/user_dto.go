package dto

import (
	"time"

	"github.com/spec-kit/gearguard/internal/domain"
)

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	AvatarURL *string     `json:"avatar_url"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// UpdateUserRequest patches account fields; absent fields stay unchanged.
type UpdateUserRequest struct {
	Name      *string      `json:"name"`
	Email     *string      `json:"email" validate:"omitempty,email"`
	Role      *domain.Role `json:"role"`
	AvatarURL *string      `json:"avatar_url"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
