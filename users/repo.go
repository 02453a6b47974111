package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDatabase is the catch-all for persistence failures that are not
	// otherwise classified.
	ErrDatabase = errors.New("database error")
)

// ConstraintViolationError reports a database constraint failure, carrying
// the constraint name so callers can translate (e.g. the unique email
// index into an "email already taken" answer).
type ConstraintViolationError struct {
	Constraint string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation on %q: %v", e.Constraint, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// UserRepo is the persistence contract for credential records.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
