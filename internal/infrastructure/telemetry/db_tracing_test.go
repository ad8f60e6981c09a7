package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRegion struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:20;uniqueIndex"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&tracedRegion{}))
	return db
}

func setupTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, sr
}

func attributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestNewDBTracingPlugin_FillsDefaults(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	assert.Equal(t, 200*time.Millisecond, plugin.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", plugin.config.DBSystem)
}

func TestDBTracingPlugin_Register_Disabled(t *testing.T) {
	db := setupTestDB(t)

	err := NewDBTracingPlugin(DefaultDBTracingConfig(), zaptest.NewLogger(t)).Register(db)

	assert.NoError(t, err)
	assert.Nil(t, db.Callback().Create().Get("otel_timing:before_create"))
}

func TestDBTracingPlugin_Register_Enabled(t *testing.T) {
	db := setupTestDB(t)
	tp, sr := setupTracer(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:        true,
		DBSystem:       "sqlite",
		TracerProvider: tp,
	}, zaptest.NewLogger(t))
	require.NoError(t, plugin.Register(db))

	assert.NotNil(t, db.Callback().Create().Get("otel_timing:before_create"))
	assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))

	ctx, span := tp.Tracer("test").Start(context.Background(), "seed.regions")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRegion{Code: "EU"}).Error)
	var found tracedRegion
	require.NoError(t, db.WithContext(ctx).First(&found, "code = ?", "EU").Error)
	span.End()

	assert.Greater(t, len(sr.Ended()), 1, "otelgorm should record a span per statement")
}

func TestDBTracingPlugin_Register_Twice(t *testing.T) {
	db := setupTestDB(t)
	tp, _ := setupTracer(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, TracerProvider: tp}, zap.NewNop())

	require.NoError(t, plugin.Register(db))
	assert.Error(t, plugin.Register(db))
}

func TestInspectQuery(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.NewNop())

	t.Run("annotates a slow statement", func(t *testing.T) {
		db := setupTestDB(t)
		tp, sr := setupTracer(t)

		ctx, span := tp.Tracer("test").Start(context.Background(), "seed.categories")
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

		tx := db.WithContext(ctx)
		tx.Statement.Table = "categories"
		tx.Statement.RowsAffected = 3

		plugin.inspectQuery(tx)
		span.End()

		ended := sr.Ended()
		require.Len(t, ended, 1)
		attrs := attributes(ended[0])
		assert.Equal(t, int64(3), attrs["db.rows_affected"].AsInt64())
		assert.Equal(t, "categories", attrs["db.sql.table"].AsString())
		assert.True(t, attrs["db.slow_query"].AsBool())
		require.Len(t, ended[0].Events(), 1)
		assert.Equal(t, "slow_query_warning", ended[0].Events()[0].Name)
		assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	})

	t.Run("marks errors but not record not found", func(t *testing.T) {
		db := setupTestDB(t)
		tp, sr := setupTracer(t)

		ctx, span := tp.Tracer("test").Start(context.Background(), "failing")
		tx := db.WithContext(ctx)
		tx.Error = errors.New("insert or update on table violates foreign key constraint")
		plugin.inspectQuery(tx)
		span.End()

		ctx, span = tp.Tracer("test").Start(context.Background(), "lookup")
		tx = db.WithContext(ctx)
		tx.Error = gorm.ErrRecordNotFound
		plugin.inspectQuery(tx)
		span.End()

		ended := sr.Ended()
		require.Len(t, ended, 2)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
		assert.Equal(t, codes.Unset, ended[1].Status().Code)
	})

	t.Run("ignores statements without a recording span", func(t *testing.T) {
		db := setupTestDB(t)
		tx := db.WithContext(context.Background())

		assert.NotPanics(t, func() { plugin.inspectQuery(tx) })
	})
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1.0).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), sampler(0.5).Description())
}
