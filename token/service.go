package token

import (
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Issuer and Audience are fixed application identifiers stamped into every
// token envelope and enforced at validation.
const (
	Issuer   = "reforged"
	Audience = "reforged"
)

// dataClaim is the envelope claim carrying the Claims payload.
const dataClaim = "data"

// expirySkewTolerance bounds how far the envelope expiration may drift
// from issued-at + claims expiration before the token is rejected.
const expirySkewTolerance = time.Second

var (
	// ErrTokenGenerationFailed indicates serialization or encryption
	// failed during issuance. Fatal for that request.
	ErrTokenGenerationFailed = errors.New("failed to generate token")

	// ErrTokenInvalid covers tampering, issuer/audience mismatch, missing
	// or malformed claims, and purpose mismatch. No detail leaks to the
	// caller.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired indicates the token was valid but is past its
	// expiry.
	ErrTokenExpired = errors.New("expired token")
)

// Service issues and validates v4.local PASETO tokens under a process-wide
// symmetric key. The key is established once at construction and read-only
// thereafter; all operations are safe for concurrent use.
type Service struct {
	key     paseto.V4SymmetricKey
	nowFunc func() time.Time
}

type ServiceOption func(*Service)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// NewService constructs a Service from the raw 32-byte symmetric key.
// A key that cannot be parsed is a startup failure, not retried.
func NewService(keyBytes []byte, options ...ServiceOption) (*Service, error) {
	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "[token.NewService] invalid symmetric key")
	}

	s := &Service{
		key:     key,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Generate authenticated-encrypts the claims into a token expiring after
// the given duration. Returns the token string and its expiry time.
func (s *Service) Generate(claims Claims, expiration time.Duration) (string, time.Time, error) {
	now := s.nowFunc().UTC()
	expiresAt := now.Add(expiration)

	tok := paseto.NewToken()
	tok.SetIssuer(Issuer)
	tok.SetAudience(Audience)
	tok.SetJti(uuid.NewString())
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(expiresAt)

	if err := tok.Set(dataClaim, claims); err != nil {
		return "", time.Time{}, errors.Wrap(ErrTokenGenerationFailed, err.Error())
	}

	return tok.V4Encrypt(s.key, nil), expiresAt, nil
}

// Validate decrypts and authenticates the token, enforces the fixed
// issuer/audience, checks the embedded claims against the expected
// purpose, and enforces expiry both from the envelope and from
// issued-at + claims expiration. Pure function of (key, token, purpose,
// current time).
func (s *Service) Validate(tokenString string, expected Purpose) (Claims, error) {
	now := s.nowFunc().UTC()

	parsed, err := s.parse(tokenString, now)
	if err != nil {
		return Claims{}, err
	}

	var claims Claims
	if err := parsed.Get(dataClaim, &claims); err != nil {
		return Claims{}, ErrTokenInvalid
	}
	if !claims.Purpose.Valid() || claims.Purpose != expected {
		return Claims{}, ErrTokenInvalid
	}

	issuedAt, err := parsed.GetIssuedAt()
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}
	expiration, err := parsed.GetExpiration()
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}

	// The envelope expiry and the claims-derived expiry are issued from
	// the same instant; disagreement means a forged or buggy issuance
	// path.
	claimsExpiry := issuedAt.Add(claims.Expiration)
	if skew := claimsExpiry.Sub(expiration); skew > expirySkewTolerance || skew < -expirySkewTolerance {
		return Claims{}, ErrTokenInvalid
	}

	// Both expiry gates must pass independently.
	if now.After(expiration) || now.After(claimsExpiry) {
		return Claims{}, ErrTokenExpired
	}

	return claims, nil
}

// Identify authenticates the token and returns its envelope identifier
// and expiry, for revocation bookkeeping. It performs no purpose or expiry
// enforcement beyond tamper/issuer/audience checks.
func (s *Service) Identify(tokenString string) (jti string, expiresAt time.Time, err error) {
	parsed, err := s.parse(tokenString, s.nowFunc().UTC())
	if err != nil {
		return "", time.Time{}, err
	}

	jti, err = parsed.GetJti()
	if err != nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	expiresAt, err = parsed.GetExpiration()
	if err != nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	return jti, expiresAt, nil
}

// parse decrypts and authenticates the envelope without expiry
// enforcement; expiry is checked separately so callers can distinguish
// ErrTokenExpired from ErrTokenInvalid.
func (s *Service) parse(tokenString string, now time.Time) (*paseto.Token, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(
		paseto.IssuedBy(Issuer),
		paseto.ForAudience(Audience),
		paseto.NotBeforeNbf(),
	)

	parsed, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return parsed, nil
}
