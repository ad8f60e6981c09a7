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

// GormRegionRepository implements RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// FindByCode finds a region by its code
func (r *GormRegionRepository) FindByCode(ctx context.Context, code string) (*catalog.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all regions ordered by name
func (r *GormRegionRepository) FindAll(ctx context.Context) ([]catalog.Region, error) {
	var rows []models.RegionModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	regions := make([]catalog.Region, len(rows))
	for i := range rows {
		regions[i] = *rows[i].ToDomain()
	}
	return regions, nil
}

// Count counts all regions
func (r *GormRegionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RegionModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateIfAbsent inserts the region with ON CONFLICT (code) DO NOTHING and
// reports whether a row was written. A name held by another code is an error.
func (r *GormRegionRepository) CreateIfAbsent(ctx context.Context, region *catalog.Region) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(models.RegionModelFromDomain(region))
	if result.Error != nil {
		return false, translateInsertError(result.Error, regionsCodeIndex)
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormRegionRepository implements RegionRepository
var _ catalog.RegionRepository = (*GormRegionRepository)(nil)
