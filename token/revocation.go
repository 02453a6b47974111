package token

import (
	"context"
	"time"
)

// RevocationStore tracks token identifiers (JTIs) that must no longer be
// accepted, for at most the token's remaining lifetime. Logout revokes the
// session's access token here; the protected-route guard consults the
// store after purpose validation.
type RevocationStore interface {
	// Revoke marks the identifier as revoked for the given TTL.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the identifier is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
