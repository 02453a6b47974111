// Package postgres provides the pgx-backed UserRepo.
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/reforged/reforged/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

// UserRepo implements users.UserRepo against PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, hash, salt, email_verified, email_verified_at, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		user.ID,
		user.Email,
		user.Hash,
		user.Salt,
		user.EmailVerified,
		user.EmailVerifiedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return classify(err, "[UserRepo.Create] insert user")
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row, "[UserRepo.GetByID]")
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanUser(row, "[UserRepo.GetByEmail]")
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, classify(err, "[UserRepo.List] query users")
	}
	defer rows.Close()

	var result []*users.User
	for rows.Next() {
		user, err := scanUser(rows, "[UserRepo.List]")
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "[UserRepo.List] iterate users")
	}
	return result, nil
}

func (r *UserRepo) Update(ctx context.Context, user *users.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $2,
		    hash = $3,
		    salt = $4,
		    email_verified = $5,
		    email_verified_at = $6,
		    updated_at = $7
		WHERE id = $1
	`,
		user.ID,
		user.Email,
		user.Hash,
		user.Salt,
		user.EmailVerified,
		user.EmailVerifiedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return classify(err, "[UserRepo.Update] update user")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify(err, "[UserRepo.Delete] delete user")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, opContext string) (*users.User, error) {
	var user users.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Hash,
		&user.Salt,
		&user.EmailVerified,
		&user.EmailVerifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, classify(err, opContext+" scan user")
	}
	return &user, nil
}

// classify maps pgx errors onto the repository error taxonomy.
func classify(err error, opContext string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return &users.ConstraintViolationError{
			Constraint: pgErr.ConstraintName,
			Err:        errors.Wrap(err, opContext),
		}
	}
	return errors.Wrapf(users.ErrDatabase, "%s: %v", opContext, err)
}
