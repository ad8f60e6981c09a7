package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates root category", func(t *testing.T) {
		c := NewCategory(CategoryRecord{Name: "Clothing", Description: "All vintage clothing items"})
		require.NotNil(t, c)

		assert.Equal(t, "Clothing", c.Name)
		require.NotNil(t, c.Description)
		assert.Equal(t, "All vintage clothing items", *c.Description)
		assert.True(t, c.IsRoot())
		assert.NotEmpty(t, c.ID)
	})

	t.Run("empty description is stored as nil", func(t *testing.T) {
		c := NewCategory(CategoryRecord{Name: "Misc"})
		assert.Nil(t, c.Description)
	})
}

func TestNewChildCategory(t *testing.T) {
	parent := NewCategory(CategoryRecord{Name: "Footwear"})

	t.Run("links to parent", func(t *testing.T) {
		child, err := NewChildCategory(CategoryRecord{Name: "Sneakers", Parent: "Footwear"}, parent)
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.False(t, child.IsRoot())
	})

	t.Run("fails without parent", func(t *testing.T) {
		_, err := NewChildCategory(CategoryRecord{Name: "Sneakers", Parent: "Footwear"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Parent category is required")
	})

	t.Run("fails when parent does not match", func(t *testing.T) {
		_, err := NewChildCategory(CategoryRecord{Name: "Outerwear", Parent: "Clothing"}, parent)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})
}

func TestNewRegion(t *testing.T) {
	r := NewRegion(RegionRecord{Code: "EU", Name: "Europe"})
	assert.Equal(t, "EU", r.Code)
	assert.Equal(t, "Europe", r.Name)
	assert.NotEmpty(t, r.ID)
}
