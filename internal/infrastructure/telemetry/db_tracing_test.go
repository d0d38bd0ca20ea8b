package telemetry

import (
	"context"
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

type tracedRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRecord{}))
	require.NoError(t, db.Create(&tracedRecord{Name: "first"}).Error)
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBSystemFor(t *testing.T) {
	assert.Equal(t, "sqlite", DBSystemFor("sqlite"))
	assert.Equal(t, "postgresql", DBSystemFor("postgres"))
	assert.Equal(t, "postgresql", DBSystemFor(""))
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.NotNil(t, p.logger)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)
	p := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	require.NoError(t, p.Register(db))

	assert.Nil(t, db.Callback().Query().Get("sli_timing:after_query"))
}

func TestDBTracingPlugin_Register(t *testing.T) {
	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())
	require.NoError(t, p.Register(db))

	assert.NotNil(t, db.Callback().Query().Get("sli_timing:before_query"))
	assert.NotNil(t, db.Callback().Query().Get("sli_timing:after_query"))
	assert.NotNil(t, db.Callback().Raw().Get("sli_timing:after_raw"))

	var rec tracedRecord
	require.NoError(t, db.WithContext(context.Background()).First(&rec).Error)
	assert.Equal(t, "first", rec.Name)
}

func TestDBTracingPlugin_AfterQuery(t *testing.T) {
	tests := []struct {
		name     string
		thresh   time.Duration
		query    func(db *gorm.DB) error
		wantSlow bool
		wantErr  bool
	}{
		{
			name:   "fast query",
			thresh: time.Hour,
			query: func(db *gorm.DB) error {
				var rec tracedRecord
				return db.First(&rec).Error
			},
		},
		{
			name:   "slow query",
			thresh: time.Nanosecond,
			query: func(db *gorm.DB) error {
				var rec tracedRecord
				return db.First(&rec).Error
			},
			wantSlow: true,
		},
		{
			name:   "not found is not an error",
			thresh: time.Hour,
			query: func(db *gorm.DB) error {
				var rec tracedRecord
				_ = db.Where("name = ?", "missing").First(&rec).Error
				return nil
			},
		},
		{
			name:   "bad table",
			thresh: time.Hour,
			query: func(db *gorm.DB) error {
				var rows []map[string]any
				_ = db.Table("no_such_table").Find(&rows).Error
				return nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			defer tp.Shutdown(context.Background())

			db := setupTestDB(t)
			p := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: tt.thresh}, zap.NewNop())
			require.NoError(t, p.registerCallbacks(db))

			ctx, span := tp.Tracer("test").Start(context.Background(), "reader")
			require.NoError(t, tt.query(db.WithContext(ctx)))
			span.End()

			spans := sr.Ended()
			require.Len(t, spans, 1)
			attrs := make(map[attribute.Key]attribute.Value)
			for _, kv := range spans[0].Attributes() {
				attrs[kv.Key] = kv.Value
			}

			_, slow := attrs["db.slow_query"]
			assert.Equal(t, tt.wantSlow, slow)
			assert.Equal(t, tt.wantErr, spans[0].Status().Code == codes.Error)
		})
	}
}
