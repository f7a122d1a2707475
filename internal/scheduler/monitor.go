package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pulsemon/pulsemon/internal/daystore"
	"github.com/pulsemon/pulsemon/internal/domain"
	"github.com/pulsemon/pulsemon/internal/probe"
)

// Broadcaster receives state-change events for fan-out to observers.
// Delivery failures are the implementation's problem; the monitor never
// blocks on them.
type Broadcaster interface {
	PublishCheck(domain.CheckResult)
	PublishSummary(domain.Summary)
	PublishDays(days []domain.DayBucket)
}

// State of the monitor loop.
type State int32

const (
	StateIdle State = iota
	StateProbeInFlight
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbeInFlight:
		return "probe_in_flight"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Monitor drives periodic probes of one target and feeds the results
// into the day store. Only the Run goroutine ever probes, so at most one
// check is in flight at any time.
type Monitor struct {
	logger   *zap.Logger
	store    *daystore.Store
	checker  probe.Checker
	events   Broadcaster
	target   string
	interval time.Duration
	timeout  time.Duration

	state    atomic.Int32
	stopOnce sync.Once
	stopped  chan struct{}
}

func NewMonitor(
	logger *zap.Logger,
	store *daystore.Store,
	checker probe.Checker,
	events Broadcaster,
	target string,
	interval time.Duration,
	timeout time.Duration,
) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if events == nil {
		events = nopBroadcaster{}
	}
	return &Monitor{
		logger:   logger,
		store:    store,
		checker:  checker,
		events:   events,
		target:   target,
		interval: interval,
		timeout:  timeout,
		stopped:  make(chan struct{}),
	}
}

// Run probes immediately, then once per tick until ctx is cancelled or
// Stop is called. The ticker anchors cadence to the clock: a tick that
// fires while a probe is still running waits in the ticker's buffer, so
// the next probe starts as soon as the current one resolves.
func (m *Monitor) Run(ctx context.Context) {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	m.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			m.state.Store(int32(StateStopped))
			m.logger.Info("monitor_stopped")
			return
		case <-m.stopped:
			m.state.Store(int32(StateStopped))
			m.logger.Info("monitor_stopped")
			return
		case <-t.C:
			m.runOnce(ctx)
		}
	}
}

// Stop halts the loop. Stopping an already-stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopped) })
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

// runOnce executes one probe cycle. A panic inside the cycle is logged
// and the cycle abandoned; prior state is preserved and the next tick
// starts clean.
func (m *Monitor) runOnce(ctx context.Context) {
	m.state.Store(int32(StateProbeInFlight))
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("cycle_panic", zap.Any("panic", r))
		}
		m.state.Store(int32(StateIdle))
	}()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	res := m.checker.Check(cctx, m.target)

	rolledOver := m.store.Record(res)
	snap := m.store.Snapshot()

	m.events.PublishCheck(res)
	m.events.PublishSummary(snap.Current.Summary)
	m.events.PublishDays(snap.Days)

	if rolledOver {
		m.logger.Info("day_rollover", zap.String("day", snap.Current.Day.String()))
	}
	m.logger.Debug("checked",
		zap.String("target", m.target),
		zap.Bool("up", res.Success),
		zap.Int64("response_time_ms", res.ResponseTimeMS),
		zap.String("error", res.Error),
	)
}

type nopBroadcaster struct{}

func (nopBroadcaster) PublishCheck(domain.CheckResult) {}
func (nopBroadcaster) PublishSummary(domain.Summary)   {}
func (nopBroadcaster) PublishDays([]domain.DayBucket)  {}
