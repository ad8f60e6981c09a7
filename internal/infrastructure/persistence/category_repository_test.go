package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
	"github.com/kavia-common/vintage-market-hub/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCategoryRepository_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCategoryRepository(testutil.NewSQLiteDB(t))

	footwear := catalog.NewCategory(catalog.CategoryRecord{Name: "Footwear", Description: "Shoes, boots, sneakers"})
	created, err := repo.CreateIfAbsent(ctx, footwear)
	require.NoError(t, err)
	assert.True(t, created)

	sneakers, err := catalog.NewChildCategory(catalog.CategoryRecord{Name: "Sneakers", Parent: "Footwear"}, footwear)
	require.NoError(t, err)
	created, err = repo.CreateIfAbsent(ctx, sneakers)
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.FindByName(ctx, "Sneakers")
	require.NoError(t, err)
	require.NotNil(t, found.ParentID)
	assert.Equal(t, footwear.ID, *found.ParentID)
	assert.Nil(t, found.Description)
	assert.False(t, found.IsRoot())

	root, err := repo.FindByName(ctx, "Footwear")
	require.NoError(t, err)
	require.NotNil(t, root.Description)
	assert.Equal(t, "Shoes, boots, sneakers", *root.Description)
	assert.True(t, root.IsRoot())

	t.Run("same name is skipped without overwrite", func(t *testing.T) {
		created, err := repo.CreateIfAbsent(ctx, catalog.NewCategory(catalog.CategoryRecord{Name: "Footwear", Description: "changed"}))
		require.NoError(t, err)
		assert.False(t, created)

		root, err := repo.FindByName(ctx, "Footwear")
		require.NoError(t, err)
		assert.Equal(t, footwear.ID, root.ID)
		assert.Equal(t, "Shoes, boots, sneakers", *root.Description)
	})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormCategoryRepository_MissingParentRow(t *testing.T) {
	repo := NewGormCategoryRepository(testutil.NewSQLiteDB(t))

	ghost := catalog.NewCategory(catalog.CategoryRecord{Name: "Footwear"})
	orphan, err := catalog.NewChildCategory(catalog.CategoryRecord{Name: "Sneakers", Parent: "Footwear"}, ghost)
	require.NoError(t, err)

	created, err := repo.CreateIfAbsent(context.Background(), orphan)
	assert.ErrorIs(t, err, catalog.ErrMissingParent)
	assert.False(t, created)
}

func TestGormCategoryRepository_ForeignKeyErrorFromPostgres(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`INSERT INTO "categories"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "categories_parent_id_fkey"})

	repo := NewGormCategoryRepository(mockDB.DB)
	created, err := repo.CreateIfAbsent(context.Background(), catalog.NewCategory(catalog.CategoryRecord{Name: "Sneakers"}))

	assert.False(t, created)
	assert.ErrorIs(t, err, catalog.ErrMissingParent)
	assert.True(t, IsForeignKeyViolation(err))
	assert.Contains(t, err.Error(), "constraint categories_parent_id_fkey")
	mockDB.ExpectationsWereMet(t)
}

func TestGormCategoryRepository_ConflictFromPostgres(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`INSERT INTO "categories" .* ON CONFLICT \("name"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewGormCategoryRepository(mockDB.DB)
	created, err := repo.CreateIfAbsent(context.Background(), catalog.NewCategory(catalog.CategoryRecord{Name: "Clothing"}))

	require.NoError(t, err)
	assert.False(t, created)
	mockDB.ExpectationsWereMet(t)
}

func TestGormCategoryRepository_UniqueViolationFromPostgres(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`INSERT INTO "categories"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ix_categories_name"})

	repo := NewGormCategoryRepository(mockDB.DB)
	created, err := repo.CreateIfAbsent(context.Background(), catalog.NewCategory(catalog.CategoryRecord{Name: "Clothing"}))

	assert.False(t, created)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	mockDB.ExpectationsWereMet(t)
}

func TestGormCategoryRepository_FindByName_NotFound(t *testing.T) {
	repo := NewGormCategoryRepository(testutil.NewSQLiteDB(t))

	category, err := repo.FindByName(context.Background(), "Typewriters")
	assert.Nil(t, category)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCategoryRepository(testutil.NewSQLiteDB(t))

	for _, name := range []string{"Furniture", "Clothing", "Electronics"} {
		_, err := repo.CreateIfAbsent(ctx, catalog.NewCategory(catalog.CategoryRecord{Name: name}))
		require.NoError(t, err)
	}

	categories, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Clothing", categories[0].Name)
	assert.Equal(t, "Electronics", categories[1].Name)
	assert.Equal(t, "Furniture", categories[2].Name)
}
