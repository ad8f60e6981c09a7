// Package integration runs the migrations and the seeder against a real
// PostgreSQL database started with testcontainers.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/config"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/migration"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated database in its own PostgreSQL container
type TestDB struct {
	*persistence.Database
	Migrator  *migration.Migrator
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a PostgreSQL container and connects to it. The embedded
// migrations are applied unless migrate is false.
func NewTestDB(t *testing.T, migrate bool) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("vintage_market_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	tdb := &TestDB{
		Container: container,
		DSN:       dsn,
		t:         t,
	}
	t.Cleanup(tdb.Close)

	tdb.Database = connect(t, dsn)

	sqlDB, err := tdb.DB.DB()
	require.NoError(t, err)
	tdb.Migrator, err = migration.New(sqlDB, "", zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
	require.NoError(t, err, "Failed to create migrator")

	if migrate {
		require.NoError(t, tdb.Migrator.Up(), "Failed to run migrations")
	}

	return tdb
}

// Connect opens an additional pool to the same database
func (tdb *TestDB) Connect() *persistence.Database {
	tdb.t.Helper()
	db := connect(tdb.t, tdb.DSN)
	tdb.t.Cleanup(func() { _ = db.Close() })
	return db
}

// Close releases the connections and terminates the container
func (tdb *TestDB) Close() {
	if tdb.Migrator != nil {
		_ = tdb.Migrator.Close()
	}
	if tdb.Database != nil {
		_ = tdb.Database.Close()
	}
	if tdb.Container != nil {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// Count returns the number of rows in table
func (tdb *TestDB) Count(table string) int64 {
	tdb.t.Helper()

	var n int64
	require.NoError(tdb.t, tdb.DB.Table(table).Count(&n).Error)
	return n
}

func connect(t *testing.T, dsn string) *persistence.Database {
	t.Helper()

	gormLogger := logger.Default.LogMode(logger.Silent)
	// Enable SQL logging if TEST_DB_DEBUG is set
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := persistence.NewDatabase(context.Background(), &config.DatabaseConfig{
		URL:             dsn,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}, gormLogger)
	require.NoError(t, err, "Failed to connect to database")
	return db
}
