package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the surrogate key and timestamps shared by reference entities.
// Natural keys live on the concrete entity.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a base entity with a generated ID stamped at the current UTC time
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
