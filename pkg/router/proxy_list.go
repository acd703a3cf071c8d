package router

import (
	"container/list"

	"github.com/mash-protocol/svcbus/pkg/service"
)

// ListServiceProxies holds the proxies of one stub in registration order.
// The zero value is an empty list. It is not safe for concurrent use.
type ListServiceProxies struct {
	entries list.List
}

// NewListServiceProxies creates an empty list.
func NewListServiceProxies() *ListServiceProxies {
	return &ListServiceProxies{}
}

func (l *ListServiceProxies) find(addr service.ProxyAddress) *list.Element {
	for e := l.entries.Front(); e != nil; e = e.Next() {
		if e.Value.(*ServiceProxy).proxy.Equal(addr) {
			return e
		}
	}
	return nil
}

// RegisterService returns the entry of addr, creating it in Pending state if
// absent. An invalid address yields InvalidServiceProxy().
func (l *ListServiceProxies) RegisterService(addr service.ProxyAddress) *ServiceProxy {
	return l.RegisterServiceWithStub(addr, nil)
}

// RegisterServiceWithStub is RegisterService for a caller that knows the
// stub. A new entry starts Connected to stub if stub is connected, Pending
// otherwise. An existing entry is returned unchanged.
func (l *ListServiceProxies) RegisterServiceWithStub(addr service.ProxyAddress, stub *ServiceStub) *ServiceProxy {
	if !addr.IsValid() {
		return invalidProxy
	}
	if e := l.find(addr); e != nil {
		return e.Value.(*ServiceProxy)
	}

	p := newServiceProxy(addr)
	if stub != nil && stub.IsConnected() {
		p.connect(stub.address)
	}
	l.entries.PushBack(p)
	return p
}

// UnregisterService removes the entry of addr and returns a copy of it, or
// a copy of InvalidServiceProxy() if absent.
func (l *ListServiceProxies) UnregisterService(addr service.ProxyAddress) ServiceProxy {
	e := l.find(addr)
	if e == nil {
		return *invalidProxy
	}
	return *l.entries.Remove(e).(*ServiceProxy)
}

// IsServiceRegistered returns true if addr has an entry.
func (l *ListServiceProxies) IsServiceRegistered(addr service.ProxyAddress) bool {
	return l.find(addr) != nil
}

// Find returns the entry of addr, or InvalidServiceProxy().
func (l *ListServiceProxies) Find(addr service.ProxyAddress) *ServiceProxy {
	if e := l.find(addr); e != nil {
		return e.Value.(*ServiceProxy)
	}
	return invalidProxy
}

// StubServiceAvailable connects every entry to stub and returns the number
// of entries.
func (l *ListServiceProxies) StubServiceAvailable(stub service.StubAddress) int {
	n := 0
	for e := l.entries.Front(); e != nil; e = e.Next() {
		e.Value.(*ServiceProxy).connect(stub)
		n++
	}
	return n
}

// StubServiceUnavailable clears the target of every entry, moves it to
// Pending and returns the number of entries.
func (l *ListServiceProxies) StubServiceUnavailable() int {
	n := 0
	for e := l.entries.Front(); e != nil; e = e.Next() {
		e.Value.(*ServiceProxy).disconnect()
		n++
	}
	return n
}

// GetSpecificService appends a copy of every entry whose proxy lives on the
// connection cookie to out and returns how many were appended. The list is
// not modified.
func (l *ListServiceProxies) GetSpecificService(out *[]ServiceProxy, cookie service.Cookie) int {
	n := 0
	for e := l.entries.Front(); e != nil; e = e.Next() {
		p := e.Value.(*ServiceProxy)
		if p.Cookie() == cookie {
			*out = append(*out, *p)
			n++
		}
	}
	return n
}

// Len returns the number of entries.
func (l *ListServiceProxies) Len() int { return l.entries.Len() }

// Each calls fn for every entry in registration order until fn returns
// false.
func (l *ListServiceProxies) Each(fn func(*ServiceProxy) bool) {
	for e := l.entries.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(*ServiceProxy)) {
			return
		}
	}
}

// Proxies returns copies of all entries in registration order.
func (l *ListServiceProxies) Proxies() []ServiceProxy {
	out := make([]ServiceProxy, 0, l.entries.Len())
	for e := l.entries.Front(); e != nil; e = e.Next() {
		out = append(out, *e.Value.(*ServiceProxy))
	}
	return out
}
