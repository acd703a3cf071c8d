package router

import (
	"fmt"

	"github.com/mash-protocol/svcbus/pkg/service"
)

// ServiceProxy is a proxy registration: the consumer address, the stub it
// resolved to and the connection state.
type ServiceProxy struct {
	proxy service.ProxyAddress
	stub  service.StubAddress
	state service.ConnectionState
}

var invalidProxy = &ServiceProxy{
	proxy: service.InvalidProxyAddress(),
	stub:  service.InvalidStubAddress(),
	state: service.StateUnknown,
}

// InvalidServiceProxy returns the shared invalid entry. It must not be
// modified.
func InvalidServiceProxy() *ServiceProxy { return invalidProxy }

func newServiceProxy(addr service.ProxyAddress) *ServiceProxy {
	return &ServiceProxy{
		proxy: addr,
		stub:  service.InvalidStubAddress(),
		state: service.StatePending,
	}
}

// ProxyAddress returns the consumer address.
func (p *ServiceProxy) ProxyAddress() service.ProxyAddress { return p.proxy }

// StubAddress returns the resolved stub, or an invalid address while the
// proxy waits.
func (p *ServiceProxy) StubAddress() service.StubAddress { return p.stub }

// State returns the connection state.
func (p *ServiceProxy) State() service.ConnectionState { return p.state }

// Cookie returns the cookie of the connection the proxy lives on.
func (p *ServiceProxy) Cookie() service.Cookie { return p.proxy.Cookie }

// IsValid returns true if the proxy address is valid.
func (p *ServiceProxy) IsValid() bool { return p.proxy.IsValid() }

// IsConnected returns true if the proxy is bound to a stub.
func (p *ServiceProxy) IsConnected() bool {
	return p.state == service.StateConnected && p.stub.IsValid()
}

// IsWaiting returns true if the proxy waits for its stub.
func (p *ServiceProxy) IsWaiting() bool { return p.state == service.StatePending }

func (p *ServiceProxy) connect(stub service.StubAddress) {
	p.stub = stub
	p.state = service.StateConnected
}

func (p *ServiceProxy) disconnect() {
	p.stub = service.InvalidStubAddress()
	p.state = service.StatePending
}

// String returns "<proxy path> -> <stub path> [STATE]".
func (p *ServiceProxy) String() string {
	return fmt.Sprintf("%s -> %s [%s]", p.proxy.Path(), p.stub.Path(), p.state)
}

// ServiceStub is a stub registration.
type ServiceStub struct {
	address service.StubAddress
	state   service.ConnectionState
}

var invalidStub = &ServiceStub{
	address: service.InvalidStubAddress(),
	state:   service.StateUnknown,
}

// InvalidServiceStub returns the shared invalid stub. It must not be
// modified.
func InvalidServiceStub() *ServiceStub { return invalidStub }

// NewServiceStub creates a stub registration in the given state.
func NewServiceStub(addr service.StubAddress, state service.ConnectionState) *ServiceStub {
	return &ServiceStub{address: addr, state: state}
}

// Address returns the stub address.
func (s *ServiceStub) Address() service.StubAddress { return s.address }

// State returns the stub state.
func (s *ServiceStub) State() service.ConnectionState { return s.state }

// IsValid returns true if the stub address is valid.
func (s *ServiceStub) IsValid() bool { return s.address.IsValid() }

// IsConnected returns true if the stub is up.
func (s *ServiceStub) IsConnected() bool {
	return s.state == service.StateConnected && s.address.IsValid()
}

func (s *ServiceStub) snapshot() *ServiceStub {
	if s == invalidStub {
		return s
	}
	c := *s
	return &c
}
