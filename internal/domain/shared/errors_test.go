package shared

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset by peer")

	t.Run("names the entry", func(t *testing.T) {
		err := NewStorageError("insert", "regions", "NA", cause)
		assert.Equal(t, `insert regions "NA": connection reset by peer`, err.Error())
	})

	t.Run("omits empty key", func(t *testing.T) {
		err := NewStorageError("begin", "transaction", "", cause)
		assert.Equal(t, "begin transaction: connection reset by peer", err.Error())
	})

	t.Run("unwraps to cause", func(t *testing.T) {
		var err error = NewStorageError("insert", "categories", "Sneakers", ErrNotFound)
		assert.True(t, errors.Is(err, ErrNotFound))

		var se *StorageError
		assert.True(t, errors.As(err, &se))
		assert.Equal(t, "categories", se.Entity)
	})
}

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}
