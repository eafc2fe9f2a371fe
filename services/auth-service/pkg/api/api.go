// Package api holds the JSON contract of auth-service.
package api

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=100"`
	Password    string `json:"password" validate:"required,min=8,maxbytes=72"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDto never carries the password hash
type UserDto struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Token string  `json:"token"`
	User  UserDto `json:"user"`
}
