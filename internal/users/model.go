package users

import (
	"errors"
	"time"
)

// Sign-in providers.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
)

// User is an HR user or a candidate.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	ResumeURL    string    `json:"resume_url,omitempty"`
	Provider     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session backs one issued token. Only the token hash is stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FullName  string `json:"full_name" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=hr candidate"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	ResumeURL string `json:"resume_url" validate:"omitempty,url"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
