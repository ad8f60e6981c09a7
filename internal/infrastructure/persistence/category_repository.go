package persistence

import (
	"context"
	"errors"

	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByName finds a category by its name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// Count counts all categories
func (r *GormCategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateIfAbsent inserts the category with ON CONFLICT (name) DO NOTHING and
// reports whether a row was written. A missing parent row is catalog.ErrMissingParent.
func (r *GormCategoryRepository) CreateIfAbsent(ctx context.Context, category *catalog.Category) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(models.CategoryModelFromDomain(category))
	if result.Error != nil {
		return false, translateInsertError(result.Error, categoriesNameIndex)
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
