package fakeuserrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/reforged/reforged/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory UserRepo for tests.
type FakeUserRepo struct {
	lock     sync.RWMutex
	users    map[uuid.UUID]*users.User
	emailIds map[string]uuid.UUID // lowercased email to user id

	// FailWith, when set, is returned by every call. Lets tests exercise
	// the database-error paths.
	FailWith error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[uuid.UUID]*users.User),
		emailIds: make(map[string]uuid.UUID),
	}
}

func (r *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.emailIds[key]; exists {
		return &users.ConstraintViolationError{
			Constraint: "users_email_key",
			Err:        errors.New("duplicate key value"),
		}
	}

	cp := *user
	r.users[user.ID] = &cp
	r.emailIds[key] = user.ID
	return nil
}

func (r *FakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *FakeUserRepo) List(_ context.Context, offset, limit int) ([]*users.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*users.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return users.ErrNotFound
	}

	if !strings.EqualFold(existing.Email, user.Email) {
		key := strings.ToLower(user.Email)
		if _, taken := r.emailIds[key]; taken {
			return &users.ConstraintViolationError{
				Constraint: "users_email_key",
				Err:        errors.New("duplicate key value"),
			}
		}
		delete(r.emailIds, strings.ToLower(existing.Email))
		r.emailIds[key] = user.ID
	}

	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *FakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	user, ok := r.users[id]
	if !ok {
		return users.ErrNotFound
	}
	delete(r.emailIds, strings.ToLower(user.Email))
	delete(r.users, id)
	return nil
}
