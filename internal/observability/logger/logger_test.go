package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	obscontext "github.com/smallbiznis/quill/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := obscontext.WithRequestID(context.Background(), "req-7")
	ctx = obscontext.WithAccountID(ctx, "1001")

	WithContext(ctx, zap.New(core)).Info("hello")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "1001", fields["account_id"])
	_, hasTrace := fields["trace_id"]
	assert.False(t, hasTrace)
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), DefaultGormLoggerConfig())
	sql := func() (string, int64) { return "SELECT * FROM accounts WHERE id = ?", 1 }

	l.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is ignored")

	l.Trace(context.Background(), time.Now(), sql, errors.New("conn refused"))
	assert.Equal(t, 1, logs.FilterMessage("gorm.query").FilterField(zap.String("operation", "SELECT")).Len())

	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len(), "slow query warned")

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	assert.Equal(t, 2, logs.Len())
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "UPDATE", operationFromSQL("update accounts set ai_requests_used = ai_requests_used + 1"))
	assert.Equal(t, "INSERT", operationFromSQL("INSERT INTO subscription_projections (...) ON CONFLICT DO NOTHING"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}

func TestBuild(t *testing.T) {
	_, err := Build(Config{Level: "loud"})
	assert.Error(t, err)

	log, err := Build(Config{Level: "warn", Format: "console", Debug: true})
	assert.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestSamplingDefaults(t *testing.T) {
	window, initial, thereafter := samplingOf(Config{SamplingInitial: 10})
	assert.Equal(t, time.Second, window)
	assert.Equal(t, 10, initial)
	assert.Equal(t, 100, thereafter)
}
