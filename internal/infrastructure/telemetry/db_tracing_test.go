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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, sr
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
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

func TestDBTracingPlugin_RegisterOtelGorm_Disabled(t *testing.T) {
	db := setupTestDB(t)
	tp, sr := setupRecorder(t)

	cfg := DefaultDBTracingConfig()
	cfg.Provider = tp
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
	assert.Empty(t, sr.Ended())
}

func TestDBTracingPlugin_RecordsStatements(t *testing.T) {
	db := setupTestDB(t)
	tp, sr := setupRecorder(t)

	cfg := DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour, DBSystem: "sqlite", Provider: tp}
	require.NoError(t, NewDBTracingPlugin(cfg, nil).RegisterOtelGorm(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "request")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	spans := sr.Ended()
	require.GreaterOrEqual(t, len(spans), 3)
	traceID := parent.SpanContext().TraceID()
	for _, s := range spans {
		assert.Equal(t, traceID, s.SpanContext().TraceID())
	}
}

func TestSlowQueryCallback_FlagsSlowStatements(t *testing.T) {
	db := setupTestDB(t)
	tp, sr := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Millisecond}, nil)

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))
	stmt := db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
	stmt.Statement.Context = ctx
	stmt.Statement.Table = "revenue_centers"
	stmt.Statement.RowsAffected = 4
	plugin.slowQueryCallback(stmt)
	span.End()

	ended := sr.Ended()[0]
	attrs := spanAttrs(ended)
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.GreaterOrEqual(t, attrs["db.query_duration_ms"].AsInt64(), int64(1000))
	assert.Equal(t, "revenue_centers", attrs["db.sql.table"].AsString())
	assert.Equal(t, int64(4), attrs["db.rows_affected"].AsInt64())
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "slow_query_warning", ended.Events()[0].Name)
}

func TestDBTracingPlugin_DoubleRegistrationFails(t *testing.T) {
	db := setupTestDB(t)
	tp, _ := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite", Provider: tp}, nil)

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Error(t, plugin.RegisterOtelGorm(db))
}

func TestSlowQueryCallback_MarksErrors(t *testing.T) {
	db := setupTestDB(t)
	tp, sr := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Hour}, nil)

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	stmt := db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
	stmt.Statement.Context = ctx
	stmt.Error = errors.New("relation does not exist")
	plugin.slowQueryCallback(stmt)
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "relation does not exist", ended.Status().Description)
}

func TestSlowQueryCallback_IgnoresRecordNotFound(t *testing.T) {
	db := setupTestDB(t)
	tp, sr := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Hour}, nil)

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	stmt := db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
	stmt.Statement.Context = ctx
	stmt.Error = gorm.ErrRecordNotFound
	plugin.slowQueryCallback(stmt)
	span.End()

	assert.Equal(t, codes.Unset, sr.Ended()[0].Status().Code)
}
