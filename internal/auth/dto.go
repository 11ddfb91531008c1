package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
)

// UserDTO is the operator profile embedded in auth responses.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
}

// TokenPairDTO carries the issued credentials.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginDTO is the login/refresh response payload.
type LoginDTO struct {
	User   UserDTO      `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}

// NewUserDTO maps the persisted model to its API shape.
func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
	}
}
