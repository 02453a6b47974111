package config

import (
	"encoding/hex"
	"fmt"
	"time"
)

const (
	tokenKeyVar      = "PASETO_SYMMETRIC_KEY"
	sessionSecretVar = "SESSION_SECRET"

	// TokenKeyLength is the decoded length required of the token key.
	TokenKeyLength = 32
)

type SecurityConfig interface {
	GetTokenSymmetricKey() string
	TokenSymmetricKeyBytes() ([]byte, error)
	GetSessionSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetResetTokenExpiry() time.Duration
	GetVerificationTokenExpiry() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetTokenSymmetricKey returns the hex-encoded symmetric key used for
// token encryption. Required; validated at startup by New.
func (Security) GetTokenSymmetricKey() string {
	return GetEnv(tokenKeyVar, "")
}

// TokenSymmetricKeyBytes decodes the configured token key and enforces the
// expected length.
func (s Security) TokenSymmetricKeyBytes() ([]byte, error) {
	rawKey := s.GetTokenSymmetricKey()
	if rawKey == "" {
		return nil, fmt.Errorf("[config] %s is required", tokenKeyVar)
	}
	keyBytes, err := hex.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("[config] %s must be hex encoded: %w", tokenKeyVar, err)
	}
	if len(keyBytes) != TokenKeyLength {
		return nil, fmt.Errorf("[config] %s must decode to %d bytes, got %d", tokenKeyVar, TokenKeyLength, len(keyBytes))
	}
	return keyBytes, nil
}

// GetSessionSecret returns the secret used to sign the session cookie.
// Required; validated at startup by New.
func (Security) GetSessionSecret() string {
	return GetEnv(sessionSecretVar, "")
}

func (Security) GetAccessTokenExpiry() time.Duration {
	return time.Hour
}

func (Security) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

func (Security) GetResetTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (Security) GetVerificationTokenExpiry() time.Duration {
	return 24 * time.Hour
}
