package service

import (
	"fmt"
	"strings"
)

// ServiceType is the visibility of a service.
type ServiceType uint8

const (
	// TypeInvalid marks an unset or unknown type.
	TypeInvalid ServiceType = 0

	// TypeLocal services are visible inside one process only.
	TypeLocal ServiceType = 1

	// TypePublic services are visible across processes through the router.
	TypePublic ServiceType = 2

	// TypeAny matches local and public services.
	TypeAny ServiceType = 3
)

// String returns the type name.
func (t ServiceType) String() string {
	switch t {
	case TypeLocal:
		return "Local"
	case TypePublic:
		return "Public"
	case TypeAny:
		return "Any"
	default:
		return "Invalid"
	}
}

// IsValid returns true for Local, Public and Any.
func (t ServiceType) IsValid() bool {
	return t >= TypeLocal && t <= TypeAny
}

// ParseType parses a type name (case-insensitive).
func ParseType(s string) (ServiceType, error) {
	switch strings.ToLower(s) {
	case "local":
		return TypeLocal, nil
	case "public":
		return TypePublic, nil
	case "any":
		return TypeAny, nil
	default:
		return TypeInvalid, fmt.Errorf("invalid service type: %q (must be local, public or any)", s)
	}
}

// ConnectionState is the state of a proxy-to-stub connection.
type ConnectionState uint8

const (
	// StateUnknown is the initial state.
	StateUnknown ConnectionState = iota

	// StateConnected means the stub is available and bound.
	StateConnected

	// StatePending means the proxy waits for its stub.
	StatePending

	// StateDisconnected means the stub went away.
	StateDisconnected

	// StateRejected means the stub refused the proxy (e.g. version mismatch).
	StateRejected

	// StateFailed means the connection could not be established.
	StateFailed

	// StateShutdown means the router is shutting down.
	StateShutdown
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case StateUnknown:
		return "UNKNOWN"
	case StateConnected:
		return "CONNECTED"
	case StatePending:
		return "PENDING"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateRejected:
		return "REJECTED"
	case StateFailed:
		return "FAILED"
	case StateShutdown:
		return "SHUTDOWN"
	default:
		return "INVALID"
	}
}

// IsConnected returns true for StateConnected.
func (s ConnectionState) IsConnected() bool {
	return s == StateConnected
}
