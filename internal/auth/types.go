package auth

import (
	"errors"

	"github.com/google/uuid"
)

// Roles.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
)

// User is an account as seen by auth flows.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	XP           int       `json:"xp"`
	PasswordHash *string   `json:"-"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterRequest for email/password registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthProvider constants.
const (
	OAuthProviderGoogle = "google"
)
