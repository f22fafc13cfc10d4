package logger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		fields []zapcore.Field
		want   string
	}{
		{
			name:   "created",
			msg:    "Monitor created",
			fields: []zapcore.Field{zap.String("symbol", "BTCUSDT")},
			want:   "Monitor created for BTCUSDT",
		},
		{
			name:   "toggled resumed",
			msg:    "Monitor toggled",
			fields: []zapcore.Field{zap.Int64("id", 7), zap.Bool("active", true)},
			want:   "Monitor #7 resumed",
		},
		{
			name:   "toggled paused",
			msg:    "Monitor toggled",
			fields: []zapcore.Field{zap.Int64("id", 7), zap.Bool("active", false)},
			want:   "Monitor #7 paused",
		},
		{
			name:   "export",
			msg:    "Export written",
			fields: []zapcore.Field{zap.String("file", "out.csv"), zap.Int("count", 3)},
			want:   "Exported 3 rows to out.csv",
		},
		{
			name:   "action failed",
			msg:    "action failed",
			fields: []zapcore.Field{zap.String("action", "delete"), zap.Error(errors.New("boom"))},
			want:   "delete failed: boom",
		},
		{
			name:   "poll failed",
			msg:    "monitor poll failed",
			fields: []zapcore.Field{zap.Duration("next_poll", 10*time.Second)},
			want:   "retrying in 10s",
		},
		{
			name: "passthrough",
			msg:  "something else",
			want: "something else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, FormatMessage(tt.msg, tt.fields), tt.want)
		})
	}
}

func TestFieldFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(&FieldFilterCore{core: inner}).With(zap.String("symbol", "ETHUSDT"))

	logger.Info("Monitor created", zap.Int64("id", 1))
	logger.Debug("dropped by level")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 1) {
		assert.True(t, strings.Contains(entries[0].Message, "Monitor created for ETHUSDT"))
		assert.Empty(t, entries[0].Context)
	}
}
