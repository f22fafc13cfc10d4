package logger

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DefaultBufferSize is the number of entries kept for the logs screen.
const DefaultBufferSize = 500

// LogEntry represents a single log entry in the buffer
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer provides a thread-safe ring buffer of recent log entries. It
// accepts JSON lines as written by a zap JSON encoder.
type LogBuffer struct {
	mu           sync.Mutex
	ringBuffer   []LogEntry
	maxSize      int
	currentIndex int
	wrapped      bool

	// Stats
	totalEntries uint64
	droppedLines uint64
}

// NewLogBuffer creates a new log buffer with the specified size
func NewLogBuffer(maxSize int) *LogBuffer {
	if maxSize <= 0 {
		maxSize = DefaultBufferSize
	}
	return &LogBuffer{
		ringBuffer: make([]LogEntry, maxSize),
		maxSize:    maxSize,
	}
}

// Write parses one or more JSON log lines into entries. Lines that are not
// JSON objects are kept verbatim as the message.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lb.Add(parseLine(line))
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer
func (lb *LogBuffer) Sync() error { return nil }

func parseLine(line string) LogEntry {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{Timestamp: time.Now(), Level: "info", Message: line}
	}

	entry := LogEntry{Timestamp: time.Now()}
	if v, ok := raw["time"].(string); ok {
		if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", v); err == nil {
			entry.Timestamp = t
		}
	}
	entry.Level, _ = raw["level"].(string)
	entry.Logger, _ = raw["logger"].(string)
	entry.Message, _ = raw["msg"].(string)

	delete(raw, "time")
	delete(raw, "level")
	delete(raw, "logger")
	delete(raw, "msg")
	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry
}

// Add adds a new log entry to the buffer, overwriting the oldest when full
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.wrapped {
		lb.droppedLines++
	}
	lb.ringBuffer[lb.currentIndex] = entry
	lb.currentIndex = (lb.currentIndex + 1) % lb.maxSize
	if lb.currentIndex == 0 {
		lb.wrapped = true
	}
	lb.totalEntries++
}

// GetRecentLogs returns the most recent log entries (up to limit), oldest first
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	count := lb.currentIndex
	start := 0
	if lb.wrapped {
		count = lb.maxSize
		start = lb.currentIndex
	}
	if limit > 0 && limit < count {
		start += count - limit
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		logs = append(logs, lb.ringBuffer[(start+i)%lb.maxSize])
	}
	return logs
}

// GetStats returns buffer statistics
func (lb *LogBuffer) GetStats() (total, dropped uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.droppedLines
}
