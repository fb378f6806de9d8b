package dto

import (
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

// UserView is the standard user payload for gateway responses.
// The password hash never appears here.
type UserView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func ToUserView(u domain.User) UserView {
	v := UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
	if !u.CreatedAt.IsZero() {
		v.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

// AuthResponse is the uniform success envelope. Failures use the same
// shape with success=false, written by the response package.
type AuthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token,omitempty"`
	TokenType string    `json:"token_type,omitempty"` // "Bearer"
	ExpiresIn int64     `json:"expires_in,omitempty"` // seconds
	User      *UserView `json:"user,omitempty"`
}
