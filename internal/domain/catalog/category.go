package catalog

import (
	"github.com/google/uuid"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
)

// Category is an item category (clothing, furniture, accessories, ...).
// Name is the natural key. A category may hang under a parent category.
type Category struct {
	shared.BaseEntity
	Name        string
	Description *string
	ParentID    *uuid.UUID
}

// NewCategory creates a root category from a catalog record
func NewCategory(rec CategoryRecord) *Category {
	c := &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       rec.Name,
	}
	if rec.Description != "" {
		desc := rec.Description
		c.Description = &desc
	}
	return c
}

// NewChildCategory creates a category from a catalog record under the given parent
func NewChildCategory(rec CategoryRecord, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if parent.Name != rec.Parent {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category "+parent.Name+" does not match "+rec.Parent)
	}

	c := NewCategory(rec)
	parentID := parent.ID
	c.ParentID = &parentID
	return c, nil
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryRecord is a category entry of the reference catalog.
// Parent holds the natural key of the parent category, empty for a root.
type CategoryRecord struct {
	Name        string `validate:"required,max=120"`
	Description string
	Parent      string `validate:"omitempty,max=120,nefield=Name"`
}

// Key returns the natural key of the record
func (r CategoryRecord) Key() string {
	return r.Name
}

// HasParent returns true if the record references a parent category
func (r CategoryRecord) HasParent() bool {
	return r.Parent != ""
}
