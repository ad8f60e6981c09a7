package models

import (
	"github.com/google/uuid"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
)

// RegionModel is the persistence model for the Region domain entity.
type RegionModel struct {
	BaseModel
	Name string `gorm:"type:varchar(120);not null;uniqueIndex:ix_regions_name"`
	Code string `gorm:"type:varchar(20);not null;uniqueIndex:ix_regions_code"`
}

// TableName returns the table name for GORM
func (RegionModel) TableName() string {
	return "regions"
}

// ToDomain converts the persistence model to a domain Region entity.
func (m *RegionModel) ToDomain() *catalog.Region {
	return &catalog.Region{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain Region entity.
func (m *RegionModel) FromDomain(r *catalog.Region) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Code = r.Code
	m.Name = r.Name
}

// RegionModelFromDomain creates a new persistence model from domain Region
func RegionModelFromDomain(r *catalog.Region) *RegionModel {
	m := &RegionModel{}
	m.FromDomain(r)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(120);not null;uniqueIndex:ix_categories_name"`
	Description *string    `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index:ix_categories_parent_id"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.ParentID = c.ParentID
}

// CategoryModelFromDomain creates a new persistence model from domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
