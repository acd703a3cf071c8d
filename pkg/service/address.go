package service

import (
	"strconv"
	"strings"
)

// Cookie identifies the connection an address lives on.
type Cookie uint64

const (
	// CookieInvalid is the cookie of an unbound address.
	CookieInvalid Cookie = 0

	// CookieLocal marks addresses inside the local process.
	CookieLocal Cookie = 1

	// CookieRouter is the cookie of the router itself.
	CookieRouter Cookie = 2

	// CookieFirstRemote is the first cookie the router hands to a remote
	// connection.
	CookieFirstRemote Cookie = 256
)

// IsRemote returns true for cookies assigned to remote connections.
func (c Cookie) IsRemote() bool { return c >= CookieFirstRemote }

// String returns the decimal cookie value.
func (c Cookie) String() string { return strconv.FormatUint(uint64(c), 10) }

// StubAddress identifies a provider instance.
type StubAddress struct {
	Service    ServiceItem `cbor:"1,keyasint"`
	RoleName   string      `cbor:"2,keyasint"`
	ThreadName string      `cbor:"3,keyasint"`
	Cookie     Cookie      `cbor:"4,keyasint"`
}

// NewStubAddress creates a stub address.
func NewStubAddress(svc ServiceItem, role, thread string, cookie Cookie) StubAddress {
	return StubAddress{Service: svc, RoleName: role, ThreadName: thread, Cookie: cookie}
}

// InvalidStubAddress returns an address that reports IsValid() == false.
func InvalidStubAddress() StubAddress {
	return StubAddress{Service: InvalidServiceItem()}
}

// IsValid returns true if the service and role name are set. Role and
// thread names must not contain PathSeparator.
func (a StubAddress) IsValid() bool {
	return a.Service.IsValid() && a.RoleName != "" && pathSafe(a.RoleName, a.ThreadName)
}

// Equal compares all address fields.
func (a StubAddress) Equal(other StubAddress) bool {
	return a.Service.Equal(other.Service) && a.RoleName == other.RoleName &&
		a.ThreadName == other.ThreadName && a.Cookie == other.Cookie
}

// Path returns "<service path>/<role>/<thread>/<cookie>".
func (a StubAddress) Path() string {
	return composePath(a.Service, a.RoleName, a.ThreadName, a.Cookie)
}

// String returns the address path.
func (a StubAddress) String() string { return a.Path() }

// ParseStubPath parses a path written by StubAddress.Path. A malformed path
// yields an invalid address.
func ParseStubPath(path string) StubAddress {
	svc, role, thread, cookie, ok := decomposePath(path)
	if !ok {
		return InvalidStubAddress()
	}
	return NewStubAddress(svc, role, thread, cookie)
}

// ProxyAddress identifies a consumer instance. RoleName is the role of the
// stub the proxy targets.
type ProxyAddress struct {
	Service    ServiceItem `cbor:"1,keyasint"`
	RoleName   string      `cbor:"2,keyasint"`
	ThreadName string      `cbor:"3,keyasint"`
	Cookie     Cookie      `cbor:"4,keyasint"`
}

// NewProxyAddress creates a proxy address.
func NewProxyAddress(svc ServiceItem, role, thread string, cookie Cookie) ProxyAddress {
	return ProxyAddress{Service: svc, RoleName: role, ThreadName: thread, Cookie: cookie}
}

// InvalidProxyAddress returns an address that reports IsValid() == false.
func InvalidProxyAddress() ProxyAddress {
	return ProxyAddress{Service: InvalidServiceItem()}
}

// IsValid returns true if the service, target role and thread are set. Role
// and thread names must not contain PathSeparator.
func (a ProxyAddress) IsValid() bool {
	return a.Service.IsValid() && a.RoleName != "" && a.ThreadName != "" &&
		pathSafe(a.RoleName, a.ThreadName)
}

// Equal compares all address fields.
func (a ProxyAddress) Equal(other ProxyAddress) bool {
	return a.Service.Equal(other.Service) && a.RoleName == other.RoleName &&
		a.ThreadName == other.ThreadName && a.Cookie == other.Cookie
}

// IsStubCompatible returns true if stub has the role this proxy targets and
// its service can serve the proxy's version.
func (a ProxyAddress) IsStubCompatible(stub StubAddress) bool {
	return a.RoleName == stub.RoleName && stub.Service.IsServiceCompatible(a.Service)
}

// Path returns "<service path>/<role>/<thread>/<cookie>".
func (a ProxyAddress) Path() string {
	return composePath(a.Service, a.RoleName, a.ThreadName, a.Cookie)
}

// String returns the address path.
func (a ProxyAddress) String() string { return a.Path() }

// ParseProxyPath parses a path written by ProxyAddress.Path. A malformed path
// yields an invalid address.
func ParseProxyPath(path string) ProxyAddress {
	svc, role, thread, cookie, ok := decomposePath(path)
	if !ok {
		return InvalidProxyAddress()
	}
	return NewProxyAddress(svc, role, thread, cookie)
}

func pathSafe(parts ...string) bool {
	for _, p := range parts {
		if strings.Contains(p, PathSeparator) {
			return false
		}
	}
	return true
}

func composePath(svc ServiceItem, role, thread string, cookie Cookie) string {
	var b strings.Builder
	b.WriteString(ConvAddressToPath(svc))
	b.WriteString(PathSeparator)
	b.WriteString(role)
	b.WriteString(PathSeparator)
	b.WriteString(thread)
	b.WriteString(PathSeparator)
	b.WriteString(cookie.String())
	return b.String()
}

func decomposePath(path string) (svc ServiceItem, role, thread string, cookie Cookie, ok bool) {
	svc, next := ConvPathToAddress(path)
	if !svc.IsValid() {
		return svc, "", "", CookieInvalid, false
	}

	parts := strings.Split(next, PathSeparator)
	if len(parts) != 3 || parts[0] == "" {
		return svc, "", "", CookieInvalid, false
	}
	n, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return svc, "", "", CookieInvalid, false
	}
	return svc, parts[0], parts[1], Cookie(n), true
}
