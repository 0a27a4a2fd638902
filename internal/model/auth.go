package model

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthRequest types
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Role          Role   `json:"role" binding:"required,role"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber"`
	Phone         string `json:"phone"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is deactivated")
)

// TokenClaims represents JWT claims
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"id"`
	Role   Role      `json:"role"`
	Email  string    `json:"email"`
}

// Actor converts verified claims into the caller identity.
func (c *TokenClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Role: c.Role, Email: c.Email}
}
