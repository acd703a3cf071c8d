package router

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/svcbus/pkg/log"
	"github.com/mash-protocol/svcbus/pkg/service"
)

// stubKey identifies the stub a proxy targets.
type stubKey struct {
	role string
	name string
	typ  service.ServiceType
}

func keyOf(svc service.ServiceItem, role string) stubKey {
	return stubKey{role: role, name: svc.Name(), typ: svc.Type()}
}

func (k stubKey) String() string {
	return k.role + "/" + k.name + "/" + k.typ.String()
}

type tableEntry struct {
	key     stubKey
	stub    *ServiceStub // nil while no stub is registered
	proxies ListServiceProxies
}

// ConnectionLoss reports what RemoveConnection tore down.
type ConnectionLoss struct {
	// Stubs hosted on the lost connection.
	Stubs []service.StubAddress

	// Proxies hosted on the lost connection, as they were before removal.
	Proxies []ServiceProxy

	// Orphaned are proxies of other connections whose stub was lost. They
	// are Pending again.
	Orphaned []ServiceProxy
}

// ServiceTable keeps one ListServiceProxies per stub identity (role, service
// name and type). It is safe for concurrent use.
type ServiceTable struct {
	mu sync.Mutex

	id         string
	logger     *slog.Logger
	plog       log.Logger
	metrics    *Metrics
	maxProxies int

	entries map[stubKey]*tableEntry
}

// NewServiceTable creates a table.
func NewServiceTable(cfg Config) (*ServiceTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	metrics, err := NewMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	t := &ServiceTable{
		id:         uuid.NewString(),
		logger:     logger,
		plog:       log.OrNoop(cfg.ProtocolLogger),
		metrics:    metrics,
		maxProxies: cfg.MaxProxiesPerStub,
		entries:    make(map[stubKey]*tableEntry),
	}
	t.logger = t.logger.With("router", t.id)
	return t, nil
}

// InstanceID returns the id stamped on the table's protocol events.
func (t *ServiceTable) InstanceID() string { return t.id }

// Metrics returns the table collectors.
func (t *ServiceTable) Metrics() *Metrics { return t.metrics }

// RegisterStub marks the stub at addr connected and connects every proxy
// waiting on it. Proxies whose version the stub cannot serve are removed
// and returned in Rejected state along with the connected ones. Registering
// the same address twice is a no-op.
func (t *ServiceTable) RegisterStub(addr service.StubAddress) (*ServiceStub, []ServiceProxy, error) {
	if !addr.IsValid() {
		t.traceError(addr.ThreadName, addr.Cookie, ErrInvalidAddress, "register stub "+addr.Path())
		return invalidStub, nil, ErrInvalidAddress
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entry(keyOf(addr.Service, addr.RoleName))
	if e.stub != nil && e.stub.IsConnected() {
		if e.stub.address.Equal(addr) {
			return e.stub.snapshot(), nil, nil
		}
		err := fmt.Errorf("%w: %s", ErrDuplicateStub, e.stub.address.Path())
		t.traceError(addr.ThreadName, addr.Cookie, err, "register stub "+addr.Path())
		return e.stub.snapshot(), nil, err
	}

	old := service.StateUnknown
	if e.stub != nil {
		old = e.stub.state
	}
	e.stub = NewServiceStub(addr, service.StateConnected)
	t.metrics.StubsConnected.Inc()
	t.traceStub(addr, old, service.StateConnected, "registered")

	var affected []ServiceProxy

	var incompatible []service.ProxyAddress
	e.proxies.Each(func(p *ServiceProxy) bool {
		if !p.proxy.IsStubCompatible(addr) {
			incompatible = append(incompatible, p.proxy)
		}
		return true
	})
	for _, pa := range incompatible {
		p := e.proxies.UnregisterService(pa)
		t.metrics.ProxiesRegistered.Dec()
		affected = append(affected, t.reject(&p, addr))
	}

	n := e.proxies.StubServiceAvailable(addr)
	t.metrics.Fanout.WithLabelValues(FanoutAvailable).Add(float64(n))
	e.proxies.Each(func(p *ServiceProxy) bool {
		t.traceProxy(p, service.StatePending, "stub available")
		return true
	})
	affected = append(affected, e.proxies.Proxies()...)

	t.logger.Info("stub registered", "stub", addr.Path(), "connected", n, "rejected", len(incompatible))
	return e.stub.snapshot(), affected, nil
}

// UnregisterStub marks the stub at addr disconnected and moves its proxies
// back to Pending. It returns the affected proxies, or nil if addr is not
// the registered stub.
func (t *ServiceTable) UnregisterStub(addr service.StubAddress) []ServiceProxy {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[keyOf(addr.Service, addr.RoleName)]
	if !ok || e.stub == nil || !e.stub.address.Equal(addr) {
		t.logger.Warn("unregistering unknown stub", "stub", addr.Path())
		return nil
	}

	out := t.dropStub(e, "unregistered")
	t.prune(e)
	return out
}

// RegisterProxy registers the proxy at addr and returns a copy of its entry
// together with the stub it targets. The proxy is Connected if the stub is
// up, Pending if not, and Rejected (not registered) if the stub is up but
// cannot serve the proxy's version.
func (t *ServiceTable) RegisterProxy(addr service.ProxyAddress) (ServiceProxy, *ServiceStub, error) {
	if !addr.IsValid() {
		t.traceError(addr.ThreadName, addr.Cookie, ErrInvalidAddress, "register proxy "+addr.Path())
		return *invalidProxy, invalidStub, ErrInvalidAddress
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entry(keyOf(addr.Service, addr.RoleName))
	stub := invalidStub
	if e.stub != nil {
		stub = e.stub
	}

	if p := e.proxies.Find(addr); p.IsValid() {
		return *p, stub.snapshot(), nil
	}

	if stub.IsConnected() && !addr.IsStubCompatible(stub.address) {
		p := newServiceProxy(addr)
		rejected := t.reject(p, stub.address)
		t.prune(e)
		return rejected, stub.snapshot(), nil
	}

	if t.maxProxies > 0 && e.proxies.Len() >= t.maxProxies {
		t.prune(e)
		err := fmt.Errorf("%w: %s", ErrTooManyProxies, e.key)
		t.traceError(addr.ThreadName, addr.Cookie, err, "register proxy "+addr.Path())
		return *invalidProxy, stub.snapshot(), err
	}

	p := e.proxies.RegisterServiceWithStub(addr, stub)
	t.metrics.ProxiesRegistered.Inc()
	t.traceProxy(p, service.StateUnknown, "registered")
	t.logger.Debug("proxy registered", "proxy", addr.Path(), "state", p.state)
	return *p, stub.snapshot(), nil
}

// UnregisterProxy removes the proxy at addr and returns a copy of its last
// entry, or a copy of InvalidServiceProxy() if it was not registered.
func (t *ServiceTable) UnregisterProxy(addr service.ProxyAddress) ServiceProxy {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[keyOf(addr.Service, addr.RoleName)]
	if !ok {
		t.logger.Warn("unregistering unknown proxy", "proxy", addr.Path())
		return *invalidProxy
	}

	p := e.proxies.UnregisterService(addr)
	if p.IsValid() {
		t.removed(&p, "unregistered")
	}
	t.prune(e)
	return p
}

// RemoveConnection unregisters every proxy and stub hosted on the
// connection cookie. Proxies of other connections that lose their stub go
// back to Pending and are reported as orphaned.
func (t *ServiceTable) RemoveConnection(cookie service.Cookie) ConnectionLoss {
	t.mu.Lock()
	defer t.mu.Unlock()

	var loss ConnectionLoss
	for _, e := range t.sortedEntries() {
		var matched []ServiceProxy
		e.proxies.GetSpecificService(&matched, cookie)
		for _, m := range matched {
			p := e.proxies.UnregisterService(m.proxy)
			t.removed(&p, "connection lost")
			loss.Proxies = append(loss.Proxies, p)
		}

		if e.stub != nil && e.stub.address.Cookie == cookie {
			loss.Stubs = append(loss.Stubs, e.stub.address)
			loss.Orphaned = append(loss.Orphaned, t.dropStub(e, "connection lost")...)
		}
		t.prune(e)
	}

	t.logger.Info("connection removed", "cookie", cookie,
		"stubs", len(loss.Stubs), "proxies", len(loss.Proxies), "orphaned", len(loss.Orphaned))
	t.plog.Log(log.Event{
		Timestamp:  time.Now(),
		InstanceID: t.id,
		Layer:      log.LayerRouter,
		Category:   log.CategoryState,
		Cookie:     uint64(cookie),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			Address:  cookie.String(),
			NewState: service.StateDisconnected.String(),
			Reason:   "connection lost",
		},
	})
	return loss
}

// Stub returns a copy of the stub registered for role and svc, or
// InvalidServiceStub().
func (t *ServiceTable) Stub(svc service.ServiceItem, role string) *ServiceStub {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[keyOf(svc, role)]; ok && e.stub != nil {
		return e.stub.snapshot()
	}
	return invalidStub
}

// Proxies returns copies of the proxies registered for role and svc.
func (t *ServiceTable) Proxies(svc service.ServiceItem, role string) []ServiceProxy {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[keyOf(svc, role)]; ok {
		return e.proxies.Proxies()
	}
	return nil
}

// ProxyCount returns the number of registered proxies.
func (t *ServiceTable) ProxyCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, e := range t.entries {
		n += e.proxies.Len()
	}
	return n
}

// StubCount returns the number of connected stubs.
func (t *ServiceTable) StubCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, e := range t.entries {
		if e.stub != nil && e.stub.IsConnected() {
			n++
		}
	}
	return n
}

func (t *ServiceTable) entry(k stubKey) *tableEntry {
	e, ok := t.entries[k]
	if !ok {
		e = &tableEntry{key: k}
		t.entries[k] = e
	}
	return e
}

func (t *ServiceTable) prune(e *tableEntry) {
	if e.stub == nil && e.proxies.Len() == 0 {
		delete(t.entries, e.key)
	}
}

func (t *ServiceTable) sortedEntries() []*tableEntry {
	out := make([]*tableEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key.String() < out[j].key.String() })
	return out
}

// dropStub disconnects the stub of e and fans out to its proxies.
func (t *ServiceTable) dropStub(e *tableEntry, reason string) []ServiceProxy {
	addr := e.stub.address
	old := e.stub.state
	e.stub.state = service.StateDisconnected
	e.stub = nil
	if old == service.StateConnected {
		t.metrics.StubsConnected.Dec()
	}
	t.traceStub(addr, old, service.StateDisconnected, reason)

	n := e.proxies.StubServiceUnavailable()
	t.metrics.Fanout.WithLabelValues(FanoutUnavailable).Add(float64(n))
	e.proxies.Each(func(p *ServiceProxy) bool {
		t.traceProxy(p, service.StateConnected, "stub unavailable")
		return true
	})

	t.logger.Info("stub unregistered", "stub", addr.Path(), "reason", reason, "pending", n)
	return e.proxies.Proxies()
}

func (t *ServiceTable) reject(p *ServiceProxy, stub service.StubAddress) ServiceProxy {
	old := p.state
	p.stub = stub
	p.state = service.StateRejected
	t.metrics.Rejected.Inc()
	t.traceProxy(p, old, "incompatible version")
	t.logger.Warn("proxy rejected", "proxy", p.proxy.Path(), "stub", stub.Path())
	return *p
}

func (t *ServiceTable) removed(p *ServiceProxy, reason string) {
	t.metrics.ProxiesRegistered.Dec()
	old := p.state
	p.state = service.StateDisconnected
	t.traceProxy(p, old, reason)
	p.state = old
}

func (t *ServiceTable) traceProxy(p *ServiceProxy, old service.ConnectionState, reason string) {
	t.plog.Log(log.Event{
		Timestamp:  time.Now(),
		InstanceID: t.id,
		Layer:      log.LayerRouter,
		Category:   log.CategoryState,
		Thread:     p.proxy.ThreadName,
		Cookie:     uint64(p.proxy.Cookie),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityProxy,
			Address:  p.proxy.Path(),
			OldState: old.String(),
			NewState: p.state.String(),
			Reason:   reason,
		},
	})
}

func (t *ServiceTable) traceStub(addr service.StubAddress, old, state service.ConnectionState, reason string) {
	t.plog.Log(log.Event{
		Timestamp:  time.Now(),
		InstanceID: t.id,
		Layer:      log.LayerRouter,
		Category:   log.CategoryState,
		Thread:     addr.ThreadName,
		Cookie:     uint64(addr.Cookie),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityStub,
			Address:  addr.Path(),
			OldState: old.String(),
			NewState: state.String(),
			Reason:   reason,
		},
	})
}

func (t *ServiceTable) traceError(thread string, cookie service.Cookie, err error, context string) {
	t.plog.Log(log.Event{
		Timestamp:  time.Now(),
		InstanceID: t.id,
		Layer:      log.LayerRouter,
		Category:   log.CategoryError,
		Thread:     thread,
		Cookie:     uint64(cookie),
		Error: &log.ErrorEventData{
			Layer:   log.LayerRouter,
			Message: err.Error(),
			Context: context,
		},
	})
}
