package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
)

// BaseModel provides the UUID primary key and timestamps every table carries.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// All returns one zero value of every persistence model, in foreign-key
// dependency order. It is used for schema checks and row-count reports.
func All() []any {
	return []any{
		&UserModel{},
		&RegionModel{},
		&CategoryModel{},
		&ListingModel{},
		&OfferModel{},
		&NegotiationModel{},
		&SwapModel{},
		&TransactionModel{},
	}
}
