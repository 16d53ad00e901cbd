package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		begin   time.Time
		err     error
		wantMsg string
	}{
		{name: "error", level: gormlogger.Warn, begin: time.Now(), err: errors.New("bad"), wantMsg: "sql error"},
		{name: "not found ignored", level: gormlogger.Warn, begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "slow", level: gormlogger.Warn, begin: time.Now().Add(-time.Second), wantMsg: "slow sql"},
		{name: "fast at warn", level: gormlogger.Warn, begin: time.Now()},
		{name: "fast at info", level: gormlogger.Info, begin: time.Now(), wantMsg: "sql"},
		{name: "silent", level: gormlogger.Silent, begin: time.Now(), err: errors.New("bad")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			l := NewGormLogger(zap.New(core), tt.level, 100*time.Millisecond)

			l.Trace(context.Background(), tt.begin, sql, tt.err)

			if tt.wantMsg == "" {
				assert.Equal(t, 0, logs.Len())
				return
			}
			if assert.Equal(t, 1, logs.Len()) {
				assert.Equal(t, tt.wantMsg, logs.All()[0].Message)
			}
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(zap.NewNop(), gormlogger.Warn, 0)
	changed := l.LogMode(gormlogger.Info).(*GormLogger)
	assert.Equal(t, gormlogger.Info, changed.level)
	assert.Equal(t, gormlogger.Warn, l.level)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
}

var _ gormlogger.Interface = (*GormLogger)(nil)
