package log

import (
	"time"

	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/wire"
)

// Event represents a trace event captured by the router, a proxy or the
// timer manager. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// InstanceID identifies the emitting component instance (UUID).
	InstanceID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Thread is the dispatcher thread the event belongs to.
	Thread string `cbor:"6,keyasint,omitempty"`

	// Cookie is the connection the event belongs to.
	Cookie uint64 `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Timer       *TimerEvent       `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerRouter is the service table and proxy lists.
	LayerRouter Layer = 0
	// LayerProxy is the consumer side.
	LayerProxy Layer = 1
	// LayerTimer is the timer manager.
	LayerTimer Layer = 2
	// LayerWire is the envelope codec.
	LayerWire Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerRouter:
		return "ROUTER"
	case LayerProxy:
		return "PROXY"
	case LayerTimer:
		return "TIMER"
	case LayerWire:
		return "WIRE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates an envelope.
	CategoryMessage Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryTimer indicates a timer transition.
	CategoryTimer Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryTimer:
		return "TIMER"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures an envelope.
type MessageEvent struct {
	// Type is the category of MessageID.
	Type msgid.DataType `cbor:"1,keyasint"`

	// MessageID is the interface message id.
	MessageID msgid.ID `cbor:"2,keyasint"`

	// Sequence correlates requests and responses.
	Sequence uint64 `cbor:"3,keyasint,omitempty"`

	// Source and Target are address paths.
	Source string `cbor:"4,keyasint,omitempty"`
	Target string `cbor:"5,keyasint,omitempty"`

	// For responses and attributes: the result reported by the stub.
	Result *wire.Result `cbor:"6,keyasint,omitempty"`

	// PayloadSize is the size of the opaque payload in bytes.
	PayloadSize int `cbor:"7,keyasint,omitempty"`
}

// StateChangeEvent captures proxy and stub connection transitions.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// Address is the path of the proxy or stub.
	Address string `cbor:"2,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"3,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"4,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"5,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityProxy indicates a proxy registration.
	StateEntityProxy StateEntity = 0
	// StateEntityStub indicates a stub registration.
	StateEntityStub StateEntity = 1
	// StateEntityConnection indicates a remote connection.
	StateEntityConnection StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityProxy:
		return "PROXY"
	case StateEntityStub:
		return "STUB"
	case StateEntityConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// TimerEvent captures a timer transition.
type TimerEvent struct {
	// Name of the timer.
	Name string `cbor:"1,keyasint"`

	// Handle is the manager-assigned timer handle.
	Handle uint64 `cbor:"2,keyasint"`

	// Owner is the id of the owning dispatcher thread.
	Owner uint64 `cbor:"3,keyasint"`

	// Action taken.
	Action TimerAction `cbor:"4,keyasint"`

	// FiredAt is the fire time in nanoseconds since the Unix epoch.
	FiredAt uint64 `cbor:"5,keyasint,omitempty"`
}

// TimerAction indicates what happened to a timer.
type TimerAction uint8

const (
	// TimerStarted indicates the timer was armed.
	TimerStarted TimerAction = 0
	// TimerExpired indicates the timer fired.
	TimerExpired TimerAction = 1
	// TimerStopped indicates the timer was stopped.
	TimerStopped TimerAction = 2
	// TimerDropped indicates a stray callback was absorbed.
	TimerDropped TimerAction = 3
)

// String returns the timer action name.
func (a TimerAction) String() string {
	switch a {
	case TimerStarted:
		return "STARTED"
	case TimerExpired:
		return "EXPIRED"
	case TimerStopped:
		return "STOPPED"
	case TimerDropped:
		return "DROPPED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
