package wire

import (
	"errors"
	"fmt"

	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/service"
)

// CBOR map keys shared by all envelopes.
const (
	KeyMessageID = 1
	KeySequence  = 2
)

// ErrInvalidMessage is returned when an envelope fails validation.
var ErrInvalidMessage = errors.New("invalid message")

// Request is a call from a proxy to a stub.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32 in the request range
//	  2: sequence,   // uint64, echoed by the response
//	  3: source,     // proxy address
//	  4: target,     // stub address
//	  5: payload     // opaque bytes
//	}
type Request struct {
	MessageID msgid.ID             `cbor:"1,keyasint"`
	Sequence  uint64               `cbor:"2,keyasint"`
	Source    service.ProxyAddress `cbor:"3,keyasint"`
	Target    service.StubAddress  `cbor:"4,keyasint"`
	Payload   []byte               `cbor:"5,keyasint,omitempty"`
}

// Validate checks the message id category and both addresses.
func (r *Request) Validate() error {
	if !msgid.IsRequest(r.MessageID) {
		return fmt.Errorf("%w: %s is not a request id", ErrInvalidMessage, r.MessageID)
	}
	if !r.Source.IsValid() {
		return fmt.Errorf("%w: invalid source proxy %s", ErrInvalidMessage, r.Source)
	}
	if !r.Target.IsValid() {
		return fmt.Errorf("%w: invalid target stub %s", ErrInvalidMessage, r.Target)
	}
	return nil
}

// Response is a reply or attribute update from a stub.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32 in the response or attribute range
//	  2: sequence,   // uint64, sequence of the request (0 for attributes)
//	  3: source,     // stub address
//	  4: target,     // proxy address (invalid for attribute broadcasts)
//	  5: result,     // uint8
//	  6: payload     // opaque bytes
//	}
type Response struct {
	MessageID msgid.ID             `cbor:"1,keyasint"`
	Sequence  uint64               `cbor:"2,keyasint"`
	Source    service.StubAddress  `cbor:"3,keyasint"`
	Target    service.ProxyAddress `cbor:"4,keyasint"`
	Result    Result               `cbor:"5,keyasint"`
	Payload   []byte               `cbor:"6,keyasint,omitempty"`
}

// IsAttribute returns true for attribute updates.
func (r *Response) IsAttribute() bool {
	return msgid.IsAttribute(r.MessageID)
}

// IsSuccess returns true if the response carries valid data.
func (r *Response) IsSuccess() bool {
	return r.Result.IsSuccess()
}

// Validate checks the message id category, result and addresses. Attribute
// updates may omit the target.
func (r *Response) Validate() error {
	if !msgid.IsResponse(r.MessageID) && !msgid.IsAttribute(r.MessageID) {
		return fmt.Errorf("%w: %s is neither a response nor an attribute id", ErrInvalidMessage, r.MessageID)
	}
	if !r.Result.IsValid() {
		return fmt.Errorf("%w: unknown result %d", ErrInvalidMessage, r.Result)
	}
	if !r.Source.IsValid() {
		return fmt.Errorf("%w: invalid source stub %s", ErrInvalidMessage, r.Source)
	}
	if msgid.IsResponse(r.MessageID) && !r.Target.IsValid() {
		return fmt.Errorf("%w: invalid target proxy %s", ErrInvalidMessage, r.Target)
	}
	return nil
}

// ServiceMessage carries registration and connection control between the
// router and its clients.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32 in the service range
//	  2: sequence,   // uint64
//	  3: proxy,      // proxy address (invalid for stub registrations)
//	  4: stub,       // stub address
//	  5: state       // uint8 connection state
//	}
type ServiceMessage struct {
	MessageID msgid.ID                `cbor:"1,keyasint"`
	Sequence  uint64                  `cbor:"2,keyasint"`
	Proxy     service.ProxyAddress    `cbor:"3,keyasint"`
	Stub      service.StubAddress     `cbor:"4,keyasint"`
	State     service.ConnectionState `cbor:"5,keyasint"`
}

// Validate checks that the message id is a registration id and that at least
// one address is set.
func (m *ServiceMessage) Validate() error {
	if !msgid.IsRegistration(m.MessageID) {
		return fmt.Errorf("%w: %s is not a service id", ErrInvalidMessage, m.MessageID)
	}
	if !m.Proxy.IsValid() && !m.Stub.IsValid() {
		return fmt.Errorf("%w: service message without address", ErrInvalidMessage)
	}
	return nil
}
