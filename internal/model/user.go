// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// User represents a registered account that owns catalog records.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	Name         string    `json:"name"`
	IsStaff      bool      `json:"-"`
	IsSuperuser  bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email address so lookups
// and the unique constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthContext holds the identity resolved from a bearer token.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	UserID      string
	TokenID     string
	TokenPrefix string
}
