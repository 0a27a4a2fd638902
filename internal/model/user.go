package model

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the identity's access tier.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User represents a system identity
type User struct {
	Base
	Name          string `json:"name" db:"name"`
	Email         string `json:"email" db:"email"`
	PasswordHash  string `json:"-" db:"password_hash"`
	Role          Role   `json:"role" db:"role"`
	EmailVerified bool   `json:"emailVerified" db:"email_verified"`
	IsActive      bool   `json:"isActive" db:"is_active"`
}

// Summary is the trimmed identity embedded in listings.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is what listings expose about a linked identity.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role Role
}

// NormalizeEmail trims and lower-cases an address; emails are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Actor is the authenticated caller as seen by services.
type Actor struct {
	UserID uuid.UUID
	Role   Role
	Email  string
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
