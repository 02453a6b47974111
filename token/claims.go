// Package token issues and validates purpose-bound, expiring,
// authenticated-encrypted tokens carrying identity claims.
package token

import (
	"time"

	"github.com/google/uuid"
)

// Purpose restricts a token to one functional use. A token's purpose must
// match the purpose requested at validation time; cross-purpose use fails
// closed.
type Purpose string

const (
	PurposeAccessToken       Purpose = "access_token"
	PurposeRefreshToken      Purpose = "refresh_token"
	PurposePasswordReset     Purpose = "password_reset"
	PurposeEmailVerification Purpose = "email_verification"
	PurposeFileUpload        Purpose = "file_upload"
	PurposeFileRequest       Purpose = "file_request"
	PurposeFileAccess        Purpose = "file_access"
)

// Valid reports whether p is a known purpose tag.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeAccessToken, PurposeRefreshToken, PurposePasswordReset,
		PurposeEmailVerification, PurposeFileUpload, PurposeFileRequest,
		PurposeFileAccess:
		return true
	}
	return false
}

// Claims is the identity payload embedded in a token. Created at issuance,
// never mutated; expiry derives from issued-at plus Expiration,
// independent of any persisted record.
type Claims struct {
	ID         uuid.UUID     `json:"id"`
	Email      string        `json:"email"`
	Role       string        `json:"role"`
	Expiration time.Duration `json:"exp"`
	Purpose    Purpose       `json:"purpose"`
}

// NewClaims builds Claims for the given subject.
func NewClaims(id uuid.UUID, email, role string, expiration time.Duration, purpose Purpose) Claims {
	return Claims{
		ID:         id,
		Email:      email,
		Role:       role,
		Expiration: expiration,
		Purpose:    purpose,
	}
}
