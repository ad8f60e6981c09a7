package catalog

import (
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
)

// Region is a geographical region that scopes listings.
// Code is the natural key; Name is also unique in the store.
type Region struct {
	shared.BaseEntity
	Code string
	Name string
}

// NewRegion creates a region from a catalog record
func NewRegion(rec RegionRecord) *Region {
	return &Region{
		BaseEntity: shared.NewBaseEntity(),
		Code:       rec.Code,
		Name:       rec.Name,
	}
}

// RegionRecord is a region entry of the reference catalog
type RegionRecord struct {
	Code string `validate:"required,max=20,alphanum"`
	Name string `validate:"required,max=120"`
}

// Key returns the natural key of the record
func (r RegionRecord) Key() string {
	return r.Code
}
