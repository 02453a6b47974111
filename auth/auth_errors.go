package auth

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/reforged/reforged/users"
)

var (
	// ErrInvalidCredentials covers wrong email, wrong password and
	// unknown user alike. The cases are deliberately indistinguishable
	// to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyTaken signals a duplicate email at signup.
	ErrEmailAlreadyTaken = errors.New("email already taken")

	// ErrEntityNotFound is the generic not-found for non-credential
	// lookups.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrPasswordHashingFailed wraps internal hashing failures. Logged
	// with context; callers render a generic message.
	ErrPasswordHashingFailed = errors.New("password hashing failed")

	// ErrUnexpected is the catch-all for persistence failures not
	// otherwise classified.
	ErrUnexpected = errors.New("unexpected error")
)

// ValidationError carries per-field messages for malformed input.
// Recoverable; handlers render the fields directly.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, field+": "+message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FromRepoError translates the repository error taxonomy into usecase
// errors. A unique-constraint violation naming an email column becomes
// ErrEmailAlreadyTaken; raw database detail never crosses this boundary.
func FromRepoError(err error) error {
	if err == nil {
		return nil
	}

	var constraint *users.ConstraintViolationError
	if errors.As(err, &constraint) {
		if strings.Contains(strings.ToLower(constraint.Constraint), "email") {
			return ErrEmailAlreadyTaken
		}
		return errors.Wrap(ErrUnexpected, "constraint violation")
	}

	if errors.Is(err, users.ErrNotFound) {
		return ErrEntityNotFound
	}

	return errors.Wrap(ErrUnexpected, "repository failure")
}
