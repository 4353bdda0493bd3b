package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observedGormLogger(level gormlogger.LogLevel) (gormlogger.Interface, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return newGormLogger(zap.New(core), level), logs
}

func statement() (string, int64) {
	return `SELECT * FROM "dreams" WHERE id = 'x'`, 1
}

func TestGormLogger_WarnLevel(t *testing.T) {
	l, logs := observedGormLogger(gormlogger.Warn)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), statement, nil)
	l.Trace(ctx, time.Now(), statement, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), statement, errors.New("connection reset"))
	l.Trace(ctx, time.Now().Add(-time.Second), statement, nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "sql failed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "slow sql", entries[1].Message)
	assert.Equal(t, "gorm", entries[1].LoggerName)
}

func TestGormLogger_InfoLevelLogsStatements(t *testing.T) {
	l, logs := observedGormLogger(gormlogger.Warn)
	l = l.LogMode(gormlogger.Info)

	l.Trace(context.Background(), time.Now(), statement, nil)
	l.Info(context.Background(), "migrated %d tables", 6)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "sql", entries[0].Message)
	assert.Equal(t, "migrated 6 tables", entries[1].Message)
}

func TestGormLogger_Silent(t *testing.T) {
	l, logs := observedGormLogger(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), statement, errors.New("boom"))
	l.Error(context.Background(), "boom")
	assert.Zero(t, logs.Len())
}
