package dto

import "github.com/spec-kit/wellness-services/internal/domain"

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Age      int     `json:"age" validate:"gt=0,lte=120"`
	Gender   string  `json:"gender" validate:"required,max=20"`
	Weight   float64 `json:"weight" validate:"gt=0"`
	Email    string  `json:"email" validate:"required,email,max=50"`
	Password string  `json:"password" validate:"required,max=72"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public credential summary.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenClaimsResponse is the verification payload consumed by peer services.
type TokenClaimsResponse struct {
	Subject string      `json:"subject"`
	Role    domain.Role `json:"role"`
}

// NewUserResponse maps a credential to its summary.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}
