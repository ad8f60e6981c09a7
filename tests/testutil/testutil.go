// Package testutil provides common test utilities for the marketplace backend.
// It contains helpers for in-memory and mocked databases, deterministic ids
// and test contexts.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ReferenceSchema creates the regions and categories tables with the same
// keys, unique indexes and parent foreign key as the PostgreSQL migrations.
var ReferenceSchema = []string{
	`CREATE TABLE regions (
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		id         TEXT PRIMARY KEY,
		name       VARCHAR(120) NOT NULL,
		code       VARCHAR(20) NOT NULL
	)`,
	`CREATE UNIQUE INDEX ix_regions_name ON regions (name)`,
	`CREATE UNIQUE INDEX ix_regions_code ON regions (code)`,
	`CREATE TABLE categories (
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL,
		id          TEXT PRIMARY KEY,
		name        VARCHAR(120) NOT NULL,
		description TEXT,
		parent_id   TEXT REFERENCES categories (id) ON DELETE RESTRICT
	)`,
	`CREATE UNIQUE INDEX ix_categories_name ON categories (name)`,
	`CREATE INDEX ix_categories_parent_id ON categories (parent_id)`,
}

// NewSQLiteDB opens a private in-memory SQLite database with foreign keys
// enforced and the reference schema applied. It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to open SQLite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range ReferenceSchema {
		require.NoError(t, db.Exec(stmt).Error, "Failed to apply schema")
	}
	return db
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a new mock PostgreSQL database for testing.
// The caller is responsible for calling Close() when done.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	// Same settings as persistence.NewDatabase: raw driver errors reach the caller
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// Close closes the mock database connection.
func (m *MockDB) Close() error {
	return m.SqlDB.Close()
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// NewTestUUID generates a deterministic UUID for testing.
// Uses the provided seed string to create a reproducible UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context with a timeout for tests.
// The context is cancelled when the test ends.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
