package main

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
)

// captureSink keeps the last view the controller produced so commands can
// print it after the call returns. Notices are logged as they arrive.
type captureSink struct {
	logger *zap.Logger

	mu          sync.Mutex
	symbols     *dashboard.SymbolView
	symbolsErr  string
	monitors    []api.MonitorEntry
	monitorsErr string
	onMonitors  func([]api.MonitorEntry)
}

var _ dashboard.Sink = (*captureSink)(nil)

func newCaptureSink(logger *zap.Logger) *captureSink {
	return &captureSink{logger: logger}
}

func (s *captureSink) ResetSymbols() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols, s.symbolsErr = nil, ""
}

func (s *captureSink) ShowSymbols(view dashboard.SymbolView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols, s.symbolsErr = &view, ""
}

func (s *captureSink) ShowSymbolsError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbolsErr = msg
}

func (s *captureSink) ShowMonitors(entries []api.MonitorEntry) {
	s.mu.Lock()
	s.monitors, s.monitorsErr = entries, ""
	hook := s.onMonitors
	s.mu.Unlock()

	if hook != nil {
		hook(entries)
	}
}

func (s *captureSink) ShowMonitorsError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorsErr = msg
}

func (s *captureSink) Notify(n dashboard.Notice) {
	fields := []zap.Field{zap.String("action", n.Title)}
	switch n.Level {
	case dashboard.NoticeError:
		s.logger.Error(n.Message, fields...)
	case dashboard.NoticeWarning:
		s.logger.Warn(n.Message, fields...)
	default:
		s.logger.Info(n.Message, fields...)
	}
}

// Symbols returns the last loaded page, or nil with the load error
func (s *captureSink) Symbols() (*dashboard.SymbolView, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbols, s.symbolsErr
}

// Monitors returns the last loaded list and load error
func (s *captureSink) Monitors() ([]api.MonitorEntry, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitors, s.monitorsErr
}

// OnMonitors registers fn to run after every monitor list load
func (s *captureSink) OnMonitors(fn func([]api.MonitorEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMonitors = fn
}
