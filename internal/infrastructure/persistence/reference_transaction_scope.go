package persistence

import (
	"context"

	"github.com/kavia-common/vintage-market-hub/backend/internal/application/seed"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements seed.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The transaction is rolled back
// when fn returns an error and committed otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos seed.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// RegionRepo returns the region repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RegionRepo() catalog.RegionRepository {
	return NewGormRegionRepository(r.tx)
}

// CategoryRepo returns the category repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

var (
	_ seed.TransactionScope          = (*GormTransactionScope)(nil)
	_ seed.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
