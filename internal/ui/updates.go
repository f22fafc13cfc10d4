package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/ui/state"
)

// UpdateSender provides non-blocking UI update sending with statistics
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
}

// NewUpdateSender creates a new non-blocking update sender
func NewUpdateSender(msgChan chan tea.Msg, logger *zap.Logger) *UpdateSender {
	us := &UpdateSender{
		msgChan:       msgChan,
		logger:        logger,
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}

	go us.logStats()

	return us
}

// SendUpdate sends a message to UI without blocking
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		// Never block a controller call on a slow UI
		atomic.AddUint64(&us.droppedUpdates, 1)
	}
}

// GetStats returns current statistics
func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	sent = atomic.LoadUint64(&us.sentUpdates)
	dropped = atomic.LoadUint64(&us.droppedUpdates)
	return sent, dropped
}

// logStats periodically logs statistics
func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				us.logger.Warn("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped),
					zap.Float64("drop_rate", float64(dropped)/float64(sent+dropped)*100))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close stops the update sender
func (us *UpdateSender) Close() {
	close(us.stopStats)
}

// BusSink is the dashboard.Sink of the terminal UI. Every call updates the
// view cache first so screens opened later start from the latest data, then
// publishes a message for the screens already on the stack.
type BusSink struct {
	sender *UpdateSender
	cache  *state.ViewCache
}

var _ dashboard.Sink = (*BusSink)(nil)

// NewBusSink creates a sink publishing through sender.
func NewBusSink(sender *UpdateSender, cache *state.ViewCache) *BusSink {
	return &BusSink{sender: sender, cache: cache}
}

func (s *BusSink) ResetSymbols() {
	s.cache.ResetSymbols()
	s.sender.SendUpdate(SymbolsResetMsg{})
}

func (s *BusSink) ShowSymbols(view dashboard.SymbolView) {
	s.cache.SetSymbols(view)
	s.sender.SendUpdate(SymbolsLoadedMsg{View: view})
}

func (s *BusSink) ShowSymbolsError(msg string) {
	s.cache.SetSymbolsError(msg)
	s.sender.SendUpdate(SymbolsFailedMsg{Message: msg})
}

func (s *BusSink) ShowMonitors(entries []api.MonitorEntry) {
	s.cache.SetMonitors(entries)
	s.sender.SendUpdate(MonitorsLoadedMsg{Entries: entries})
}

func (s *BusSink) ShowMonitorsError(msg string) {
	s.cache.SetMonitorsError(msg)
	s.sender.SendUpdate(MonitorsFailedMsg{Message: msg})
}

func (s *BusSink) Notify(n dashboard.Notice) {
	s.cache.PushNotice(n)
	s.sender.SendUpdate(NoticeMsg{Notice: n})
}
