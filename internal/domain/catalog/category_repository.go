package catalog

import (
	"context"
)

// RegionRepository defines the persistence operations the seeder needs for regions.
// Lookups return shared.ErrNotFound when no row has the natural key. CreateIfAbsent
// reports a row that already holds the natural key either as (false, nil) or as
// shared.ErrAlreadyExists. A conflict on any other unique key is an error.
type RegionRepository interface {
	// FindByCode finds a region by its code
	FindByCode(ctx context.Context, code string) (*Region, error)

	// FindAll returns all regions ordered by name
	FindAll(ctx context.Context) ([]Region, error)

	// Count counts all regions
	Count(ctx context.Context) (int64, error)

	// CreateIfAbsent inserts the region unless a row with a conflicting unique key
	// exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, region *Region) (bool, error)
}

// CategoryRepository defines the persistence operations the seeder needs for categories.
// Errors follow the same conventions as RegionRepository.
type CategoryRepository interface {
	// FindByName finds a category by its name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll returns all categories ordered by name
	FindAll(ctx context.Context) ([]Category, error)

	// Count counts all categories
	Count(ctx context.Context) (int64, error)

	// CreateIfAbsent inserts the category unless a row with a conflicting unique key
	// exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, category *Category) (bool, error)
}
