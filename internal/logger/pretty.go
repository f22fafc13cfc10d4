// internal/logger/pretty.go
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(prettyEncoderConfig())
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// CreatePrettyLogger creates a logger with user-friendly output on stderr.
// Stdout is left to command output.
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		PrettyEncoder(),
		zapcore.Lock(os.Stderr),
		level,
	)

	// In debug mode keep the structured fields, otherwise show the friendly message only
	if debug {
		return zap.New(core), nil
	}
	return zap.New(&FieldFilterCore{core: core}), nil
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields []zapcore.Field) string {
	switch {
	case strings.Contains(msg, "Monitor created"):
		symbol := extractField(fields, "symbol")
		return fmt.Sprintf("%s✓ Monitor created for %s%s", ColorGreen, symbol, ColorReset)

	case strings.Contains(msg, "Monitor updated"):
		symbol := extractField(fields, "symbol")
		return fmt.Sprintf("%s✓ Monitor %s updated%s", ColorGreen, symbol, ColorReset)

	case strings.Contains(msg, "Monitor toggled"):
		id := extractField(fields, "id")
		state := "paused"
		if extractField(fields, "active") == "true" {
			state = "resumed"
		}
		return fmt.Sprintf("%s⏯ Monitor #%s %s%s", ColorBlue, id, state, ColorReset)

	case strings.Contains(msg, "Monitor deleted"):
		id := extractField(fields, "id")
		return fmt.Sprintf("%s✗ Monitor #%s deleted%s", ColorYellow, id, ColorReset)

	case strings.Contains(msg, "Export written"):
		file := extractField(fields, "file")
		count := extractField(fields, "count")
		return fmt.Sprintf("%s📄 Exported %s rows to %s%s", ColorCyan, count, file, ColorReset)

	case strings.Contains(msg, "action failed"):
		action := extractField(fields, "action")
		return fmt.Sprintf("%s%s failed: %s%s", ColorRed, action, extractField(fields, "error"), ColorReset)

	case strings.Contains(msg, "monitor poll failed"):
		next := extractField(fields, "next_poll")
		return fmt.Sprintf("%s⚠ Monitor refresh failed, retrying in %s%s", ColorYellow, next, ColorReset)

	case strings.Contains(msg, "monitor polling recovered"):
		return fmt.Sprintf("%s✓ Monitor refresh recovered%s", ColorGreen, ColorReset)

	default:
		return msg
	}
}

// extractField returns the printable value of key, or "" when absent
func extractField(fields []zapcore.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
			return fmt.Sprintf("%d", field.Integer)
		case zapcore.BoolType:
			return fmt.Sprintf("%t", field.Integer == 1)
		case zapcore.DurationType:
			return time.Duration(field.Integer).String()
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok {
				return err.Error()
			}
		}
		if field.Interface != nil {
			return fmt.Sprintf("%v", field.Interface)
		}
		return field.String
	}
	return ""
}

// FieldFilterCore wraps a zapcore.Core, replacing the message with its
// friendly form and dropping structured fields
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := append(append([]zapcore.Field{}, c.fields...), fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, c.fields...), fields...)
	cleanEntry := entry
	cleanEntry.Message = FormatMessage(entry.Message, all)
	cleanEntry.LoggerName = ""
	return c.core.Write(cleanEntry, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}
