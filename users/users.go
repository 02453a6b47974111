// Package users holds the credential record, the password hasher and the
// persistence contract for user accounts.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted credential record. Hash and Salt never leave the
// authentication core.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"` // unique
	Hash            string     `json:"-"`
	Salt            string     `json:"-"`
	EmailVerified   bool       `json:"email_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// New creates a User with a fresh identifier and creation timestamps.
func New(email, hash, salt string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Hash:      hash,
		Salt:      salt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkEmailVerified records email verification at the given time.
func (u *User) MarkEmailVerified(at time.Time) {
	u.EmailVerified = true
	u.EmailVerifiedAt = &at
	u.UpdatedAt = at
}

// SetPassword replaces the stored credential material.
func (u *User) SetPassword(hp HashedPassword) {
	u.Hash = hp.Hash
	u.Salt = hp.Salt
	u.UpdatedAt = time.Now().UTC()
}
