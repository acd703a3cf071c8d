package timer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/mash-protocol/svcbus/pkg/log"
)

// Manager errors.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNotOwnerThread = errors.New("timer started outside its owner thread")
	ErrCannotStart    = errors.New("timer cannot start")
	ErrTimerNotFound  = errors.New("timer not found")
	ErrClosed         = errors.New("timer manager closed")
)

// DeliverFunc hands an expiry to the dispatcher thread owner.
type DeliverFunc func(owner ThreadID, expired ExpiredInfo)

// Config configures a Manager.
type Config struct {
	// Deliver receives every expiry. Required.
	Deliver DeliverFunc

	// PoolSize is the number of delivery workers.
	PoolSize int

	// Logger receives operational records. Nil disables logging.
	Logger *slog.Logger

	// ProtocolLogger receives timer events. Nil disables tracing.
	ProtocolLogger log.Logger

	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

// DefaultConfig returns a Config with sensible defaults. Deliver must still
// be set.
func DefaultConfig() Config {
	return Config{
		PoolSize: 16,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Deliver == nil || c.PoolSize <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// armed is an OS timer. gen tells callbacks of an earlier arm apart.
type armed struct {
	timer *time.Timer
	gen   uint64
}

// Manager arms timers on behalf of their owner threads and delivers their
// expiries through a worker pool.
type Manager struct {
	mu sync.Mutex

	id      string
	deliver DeliverFunc
	now     func() time.Time
	logger  *slog.Logger
	plog    log.Logger
	pool    *ants.PoolWithFunc

	table  *Table
	queue  ExpiredTimers
	armed  map[Handle]armed
	gen    uint64
	closed bool
}

// NewManager creates a timer manager.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		id:      uuid.NewString(),
		deliver: cfg.Deliver,
		now:     cfg.Now,
		logger:  cfg.Logger,
		plog:    log.OrNoop(cfg.ProtocolLogger),
		table:   NewTable(),
		armed:   make(map[Handle]armed),
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(arg any) {
		m.deliverExpired(arg.(Timer))
	}, ants.WithPanicHandler(func(p any) {
		m.logger.Error("timer delivery panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("creating delivery pool: %w", err)
	}
	m.pool = pool
	return m, nil
}

// StartTimer arms t for owner. caller is the thread requesting the start
// and must be the owner. A timer keeps the owner of its first start until
// it is unregistered.
func (m *Manager) StartTimer(t Timer, owner, caller ThreadID) error {
	if t == nil {
		return ErrTimerNotFound
	}
	if caller != owner {
		return fmt.Errorf("%w: %s owned by %d, started by %d", ErrNotOwnerThread, t.Name(), owner, caller)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	info := m.table.Register(t, owner)
	if info.OwnerThread() != owner {
		return fmt.Errorf("%w: %s owned by %d, started by %d", ErrNotOwnerThread, t.Name(), info.OwnerThread(), owner)
	}
	if !info.CanStartTimer() {
		return fmt.Errorf("%w: %s is %s", ErrCannotStart, t.Name(), info.State())
	}

	t.Started()
	info.TimerStarting(uint64(m.now().UnixNano()))
	m.arm(info)

	m.trace(info, log.TimerStarted)
	m.logger.Debug("timer started", "timer", t.Name(), "handle", info.Handle(), "owner", owner, "timeout", t.Timeout())
	return nil
}

// StopTimer disarms t and drops its undelivered expiries. It returns false
// if t is unknown.
func (m *Manager) StopTimer(t Timer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.table.Find(t)
	if !ok {
		return false
	}
	m.stop(info)
	return true
}

// UnregisterTimer stops t and forgets its record.
func (m *Manager) UnregisterTimer(t Timer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.table.Find(t)
	if !ok {
		return false
	}
	m.stop(info)
	m.table.Unregister(t)
	return true
}

// UnregisterThread stops and forgets every timer of owner. It returns the
// number of timers removed.
func (m *Manager) UnregisterThread(owner ThreadID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var owned []*Info
	m.table.Each(func(info *Info) bool {
		if info.OwnerThread() == owner {
			owned = append(owned, info)
		}
		return true
	})
	for _, info := range owned {
		m.stop(info)
		m.table.Unregister(info.Timer())
	}
	if len(owned) > 0 {
		m.logger.Info("thread timers removed", "owner", owner, "count", len(owned))
	}
	return len(owned)
}

// State returns the state of t, or StateInvalid if t is unknown.
func (m *Manager) State(t Timer) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.table.Find(t); ok {
		return info.State()
	}
	return StateInvalid
}

// Count returns the number of registered timers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Len()
}

// Queued returns the number of expiries waiting for delivery.
func (m *Manager) Queued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// Close disarms every timer and releases the delivery pool. Expiries
// already handed to the pool are still delivered.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for h, a := range m.armed {
		a.timer.Stop()
		delete(m.armed, h)
	}
	m.mu.Unlock()

	m.pool.Release()
}

// arm schedules the OS timer of info. Caller holds mu.
func (m *Manager) arm(info *Info) {
	m.gen++
	h, gen := info.Handle(), m.gen
	m.armed[h] = armed{
		timer: time.AfterFunc(info.Timer().Timeout(), func() { m.expire(h, gen) }),
		gen:   gen,
	}
}

// stop disarms info. Caller holds mu.
func (m *Manager) stop(info *Info) {
	if a, ok := m.armed[info.Handle()]; ok {
		a.timer.Stop()
		delete(m.armed, info.Handle())
	}
	wasRunning := info.State() == StatePending || info.State() == StateExpired
	info.TimerStopped()
	info.Timer().Stopped()
	m.queue.RemoveAll(info.Timer())
	if wasRunning {
		m.trace(info, log.TimerStopped)
	}
}

// expire runs on the OS timer goroutine.
func (m *Manager) expire(h Handle, gen uint64) {
	m.mu.Lock()

	info, ok := m.table.FindByHandle(h)
	a, isArmed := m.armed[h]
	if !ok || !isArmed || a.gen != gen || m.closed {
		m.mu.Unlock()
		m.logger.Debug("stray timer callback", "handle", h)
		return
	}

	high, low := SplitTime(uint64(m.now().UnixNano()))
	if !info.IsTimerExpired(high, low) {
		m.trace(info, log.TimerDropped)
		m.mu.Unlock()
		return
	}
	delete(m.armed, h)

	t := info.Timer()
	t.Fired()
	queued := m.queue.PushUnique(ExpiredInfo{Timer: t, FiredHigh: high, FiredLow: low})
	m.trace(info, log.TimerExpired)

	if t.IsActive() {
		info.TimerRestarted()
		m.arm(info)
	}
	m.mu.Unlock()

	if !queued {
		return
	}
	if err := m.pool.Invoke(t); err != nil {
		m.mu.Lock()
		m.queue.Remove(t)
		m.mu.Unlock()
		m.logger.Error("timer delivery failed", "timer", t.Name(), "error", err)
	}
}

// deliverExpired runs on a pool worker.
func (m *Manager) deliverExpired(t Timer) {
	m.mu.Lock()
	exp, ok := m.queue.Take(t)
	info, known := m.table.Find(t)
	if !ok || !known {
		m.mu.Unlock()
		return
	}
	owner := info.OwnerThread()
	if info.State() == StateExpired && !t.IsActive() {
		info.TimerStopped()
	}
	m.mu.Unlock()

	m.deliver(owner, exp)
}

// trace logs a timer event. Caller holds mu.
func (m *Manager) trace(info *Info, action log.TimerAction) {
	m.plog.Log(log.Event{
		Timestamp:  m.now(),
		InstanceID: m.id,
		Layer:      log.LayerTimer,
		Category:   log.CategoryTimer,
		Timer: &log.TimerEvent{
			Name:    info.Timer().Name(),
			Handle:  uint64(info.Handle()),
			Owner:   uint64(info.OwnerThread()),
			Action:  action,
			FiredAt: info.FiredAt(),
		},
	})
}
