package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SafeFileWriter provides thread-safe file writing with buffering and periodic flush
type SafeFileWriter struct {
	mu       sync.Mutex
	writer   *bufio.Writer
	file     *os.File
	ticker   *time.Ticker
	done     chan struct{}
	closed   bool
	logger   *zap.Logger
	filePath string

	// Stats
	writtenLines uint64
	flushCount   uint64
}

// NewSafeFileWriter creates a new thread-safe file writer
func NewSafeFileWriter(filePath string, flushInterval time.Duration, logger *zap.Logger) (*SafeFileWriter, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	if flushInterval <= 0 {
		flushInterval = time.Second
	}

	sfw := &SafeFileWriter{
		writer:   bufio.NewWriter(file),
		file:     file,
		ticker:   time.NewTicker(flushInterval),
		done:     make(chan struct{}),
		logger:   logger,
		filePath: filePath,
	}

	go sfw.periodicFlush()

	return sfw, nil
}

// Write writes data to the file in a thread-safe manner
func (sfw *SafeFileWriter) Write(data []byte) (int, error) {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()

	if sfw.closed {
		return 0, os.ErrClosed
	}

	n, err := sfw.writer.Write(data)
	if err != nil {
		return n, fmt.Errorf("failed to write data: %w", err)
	}

	sfw.writtenLines++
	return n, nil
}

// WriteLine writes a line to the file with a newline appended
func (sfw *SafeFileWriter) WriteLine(line string) error {
	_, err := sfw.Write([]byte(line + "\n"))
	return err
}

// Flush forces a write of any buffered data
func (sfw *SafeFileWriter) Flush() error {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()
	return sfw.flushLocked()
}

// Sync implements zapcore.WriteSyncer
func (sfw *SafeFileWriter) Sync() error {
	return sfw.Flush()
}

func (sfw *SafeFileWriter) flushLocked() error {
	if sfw.closed {
		return nil
	}
	if err := sfw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if err := sfw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	sfw.flushCount++
	return nil
}

// periodicFlush runs in a goroutine to periodically flush the buffer
func (sfw *SafeFileWriter) periodicFlush() {
	for {
		select {
		case <-sfw.ticker.C:
			if err := sfw.Flush(); err != nil {
				sfw.logger.Error("Periodic flush failed",
					zap.String("file", sfw.filePath),
					zap.Error(err))
			}
		case <-sfw.done:
			return
		}
	}
}

// Close closes the writer and ensures all data is written
func (sfw *SafeFileWriter) Close() error {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()

	if sfw.closed {
		return nil
	}
	close(sfw.done)
	sfw.ticker.Stop()

	if err := sfw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	sfw.closed = true

	if err := sfw.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	sfw.logger.Debug("Safe file writer closed",
		zap.String("file", sfw.filePath),
		zap.Uint64("writtenLines", sfw.writtenLines),
		zap.Uint64("flushCount", sfw.flushCount))

	return nil
}

// GetStats returns writer statistics
func (sfw *SafeFileWriter) GetStats() (lines, flushes uint64) {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()
	return sfw.writtenLines, sfw.flushCount
}

// TUILogger bundles the logger used while the terminal is in alt-screen
// mode with the sinks it writes to.
type TUILogger struct {
	*zap.Logger
	File   *SafeFileWriter
	Buffer *LogBuffer
}

// Close flushes and closes the log file.
func (l *TUILogger) Close() error {
	_ = l.Logger.Sync()
	if l.File == nil {
		return nil
	}
	return l.File.Close()
}

// CreateTUILogger creates a logger that never writes to the terminal. Entries
// go to the JSON log file at path (when set) and to an in-memory ring of
// bufferSize entries for the logs screen.
func CreateTUILogger(path string, bufferSize int, debug bool) (*TUILogger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	buffer := NewLogBuffer(bufferSize)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(buffer), level),
	}

	var file *SafeFileWriter
	if path != "" {
		var err error
		file, err = NewSafeFileWriter(path, time.Second, zap.NewNop())
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), file, level))
	}

	return &TUILogger{
		Logger: zap.New(zapcore.NewTee(cores...)),
		File:   file,
		Buffer: buffer,
	}, nil
}
