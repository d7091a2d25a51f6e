package dto

import "github.com/halewood/onboarding-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}
