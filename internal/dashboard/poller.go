package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// DefaultPollInterval is the monitor list refresh period.
const DefaultPollInterval = 5 * time.Second

// Poller refreshes the monitor list periodically through the guarded load.
// After failed polls the delay grows exponentially up to ten times the
// interval; a successful poll restores the base interval.
type Poller struct {
	ctrl     *Controller
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	policy   *backoff.ExponentialBackOff
	failures int
	observer PollObserver
}

// NewPoller creates a poller for ctrl.
func NewPoller(ctrl *Controller, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = interval
	policy.MaxInterval = interval * 10
	policy.Reset()

	return &Poller{
		ctrl:     ctrl,
		interval: interval,
		logger:   logger.Named("poller"),
		policy:   policy,
	}
}

// PollObserver is told the outcome of every issued poll.
type PollObserver interface {
	ObservePoll(err error, next time.Duration)
}

// SetObserver registers o to receive poll outcomes.
func (p *Poller) SetObserver(o PollObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = o
}

// Interval returns the base poll period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Failures returns the number of consecutive failed polls.
func (p *Poller) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// Poll runs one refresh and returns the delay before the next one. A poll
// skipped because a load is already running counts as neither success nor failure.
func (p *Poller) Poll(ctx context.Context) time.Duration {
	issued, err := p.ctrl.loadMonitors(ctx)
	if !issued {
		return p.interval
	}
	return p.Next(err)
}

// Next records the outcome of a poll and returns the following delay.
func (p *Poller) Next(err error) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		if p.failures > 0 {
			p.logger.Info("monitor polling recovered", zap.Int("failures", p.failures))
		}
		p.failures = 0
		p.policy.Reset()
		p.notify(nil, p.interval)
		return p.interval
	}

	p.failures++
	delay := p.policy.NextBackOff()
	if delay == backoff.Stop || delay > p.policy.MaxInterval {
		delay = p.policy.MaxInterval
	}
	p.logger.Warn("monitor poll failed",
		zap.Int("failures", p.failures),
		zap.Duration("next_poll", delay),
		zap.Error(err))
	p.notify(err, delay)
	return delay
}

// notify must be called with mu held
func (p *Poller) notify(err error, next time.Duration) {
	if p.observer != nil {
		p.observer.ObservePoll(err, next)
	}
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(p.Poll(ctx))
		}
	}
}
