// Package model defines domain entities for the application.
package model

import "time"

// Token represents the single live bearer token for a user.
// Only the argon2id hash of the key is stored; the plaintext is
// returned once at issue time. Re-issuing replaces the prior key.
type Token struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	KeyHash   string    `json:"-"` // Never serialize
	KeyPrefix string    `json:"key_prefix"`
	IssuedAt  time.Time `json:"issued_at"`
}
