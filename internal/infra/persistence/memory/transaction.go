package memory

import (
	"context"

	"enroll/internal/domain/repository"
)

// TransactionManager implements the domain's TransactionManager interface over
// the in-memory store. There is no transaction to begin or roll back; the
// store's own mutex makes each repository call atomic, which is enough for the
// single-insert flows that run through it.
type TransactionManager struct {
	userRepo *UserRepository
}

// repositoryFactory hands out repositories for the "transaction".
type repositoryFactory struct {
	userRepo *UserRepository
}

// UserRepo returns the user repository.
func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return f.userRepo
}

// NewTransactionManager creates a TransactionManager over the given store.
func NewTransactionManager(userRepo *UserRepository) repository.TransactionManager {
	return &TransactionManager{userRepo: userRepo}
}

// Execute runs the given function against the shared store.
func (tm *TransactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(&repositoryFactory{userRepo: tm.userRepo})
}
