package seed

import (
	"context"

	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the reference data repositories.
// All repository operations inside Execute share one database transaction and are
// committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories bound to the current transaction
type TransactionalRepositories interface {
	// RegionRepo returns the region repository scoped to the current transaction
	RegionRepo() catalog.RegionRepository
	// CategoryRepo returns the category repository scoped to the current transaction
	CategoryRepo() catalog.CategoryRepository
}

// NoOpTransactionScope runs the function against fixed repositories without a real
// transaction. Writes are not undone on error, so it only suits tests.
type NoOpTransactionScope struct {
	regionRepo   catalog.RegionRepository
	categoryRepo catalog.CategoryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(regionRepo catalog.RegionRepository, categoryRepo catalog.CategoryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		regionRepo:   regionRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RegionRepo returns the region repository.
func (s *NoOpTransactionScope) RegionRepo() catalog.RegionRepository {
	return s.regionRepo
}

// CategoryRepo returns the category repository.
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository {
	return s.categoryRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
