// Package memory provides in-memory implementations of the repository
// interfaces. They back the development profile and the test suite; data does
// not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"enroll/internal/domain/entity"
	"enroll/internal/domain/repository"

	"github.com/google/uuid"
)

// UserRepository is a thread-safe in-memory user store. Email uniqueness is
// enforced the same way the SQL unique index does it, so the usecase layer
// behaves identically against either backend.
type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*entity.User
	byEmail map[string]uuid.UUID
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(repo.users[id]), nil
}

// ExistsByEmail reports whether an account with the given email exists.
func (repo *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	_, ok := repo.byEmail[email]

	return ok, nil
}

// Create persists a new user. A colliding email returns ErrDuplicateEmail,
// mirroring the unique index behavior of the SQL backend.
func (repo *UserRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, taken := repo.byEmail[user.Email]; taken {
		return repository.ErrDuplicateEmail
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	repo.users[user.ID] = cloneUser(user)
	repo.byEmail[user.Email] = user.ID

	return nil
}

// cloneUser copies a user so callers cannot mutate the stored record.
func cloneUser(user *entity.User) *entity.User {
	if user == nil {
		return nil
	}

	cloned := *user

	return &cloned
}
