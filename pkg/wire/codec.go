package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/mash-protocol/svcbus/pkg/msgid"
)

// encMode is the CBOR encoder mode for envelopes.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for envelopes.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient so newer peers can add keys.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder creates a new CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a new CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// EncodeRequest encodes a request to CBOR bytes.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return Marshal(req)
}

// DecodeRequest decodes CBOR bytes into a request.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// EncodeResponse encodes a response or attribute update to CBOR bytes.
func EncodeResponse(resp *Response) ([]byte, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return Marshal(resp)
}

// DecodeResponse decodes CBOR bytes into a response.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EncodeServiceMessage encodes a control message to CBOR bytes.
func EncodeServiceMessage(msg *ServiceMessage) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return Marshal(msg)
}

// DecodeServiceMessage decodes CBOR bytes into a control message.
func DecodeServiceMessage(data []byte) (*ServiceMessage, error) {
	var msg ServiceMessage
	if err := Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode service message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// PeekMessageType classifies a frame by its message id (key 1) without
// decoding the rest of the envelope.
func PeekMessageType(data []byte) (msgid.DataType, error) {
	var peek struct {
		MessageID msgid.ID `cbor:"1,keyasint"`
	}
	if err := Unmarshal(data, &peek); err != nil {
		return msgid.DataTypeUndefined, fmt.Errorf("failed to peek message: %w", err)
	}
	return msgid.DataTypeOf(peek.MessageID), nil
}

// Clone creates a deep copy by re-encoding.
func Clone[T any](v T) (T, error) {
	var result T
	data, err := Marshal(v)
	if err != nil {
		return result, err
	}
	err = Unmarshal(data, &result)
	return result, err
}

// Equal compares two values by their CBOR encoding.
func Equal(a, b any) bool {
	dataA, errA := Marshal(a)
	dataB, errB := Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(dataA, dataB)
}
