package log

import (
	"time"

	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/wire"
)

// RequestMessage describes req as a message event.
func RequestMessage(req *wire.Request) *MessageEvent {
	return &MessageEvent{
		Type:        msgid.DataTypeOf(req.MessageID),
		MessageID:   req.MessageID,
		Sequence:    req.Sequence,
		Source:      req.Source.Path(),
		Target:      req.Target.Path(),
		PayloadSize: len(req.Payload),
	}
}

// ResponseMessage describes resp as a message event. Attribute broadcasts
// carry no target.
func ResponseMessage(resp *wire.Response) *MessageEvent {
	result := resp.Result
	m := &MessageEvent{
		Type:        msgid.DataTypeOf(resp.MessageID),
		MessageID:   resp.MessageID,
		Sequence:    resp.Sequence,
		Source:      resp.Source.Path(),
		Result:      &result,
		PayloadSize: len(resp.Payload),
	}
	if resp.Target.IsValid() {
		m.Target = resp.Target.Path()
	}
	return m
}

// WireTracer wraps the envelope codec of one connection and logs every
// frame it encodes (DirectionOut) or decodes (DirectionIn). Frames that fail
// to encode or decode are logged as errors.
type WireTracer struct {
	logger Logger
	id     string
	cookie uint64
	now    func() time.Time
}

// NewWireTracer creates a tracer stamping events with instanceID and the
// connection cookie. A nil logger disables tracing.
func NewWireTracer(logger Logger, instanceID string, cookie uint64) *WireTracer {
	return &WireTracer{
		logger: OrNoop(logger),
		id:     instanceID,
		cookie: cookie,
		now:    time.Now,
	}
}

// EncodeRequest encodes req and logs it.
func (t *WireTracer) EncodeRequest(req *wire.Request) ([]byte, error) {
	data, err := wire.EncodeRequest(req)
	if err != nil {
		t.failed("encode request", err)
		return nil, err
	}
	t.message(DirectionOut, req.Source.ThreadName, RequestMessage(req))
	return data, nil
}

// DecodeRequest decodes a request frame and logs it.
func (t *WireTracer) DecodeRequest(data []byte) (*wire.Request, error) {
	req, err := wire.DecodeRequest(data)
	if err != nil {
		t.failed("decode request", err)
		return nil, err
	}
	t.message(DirectionIn, req.Target.ThreadName, RequestMessage(req))
	return req, nil
}

// EncodeResponse encodes resp and logs it.
func (t *WireTracer) EncodeResponse(resp *wire.Response) ([]byte, error) {
	data, err := wire.EncodeResponse(resp)
	if err != nil {
		t.failed("encode response", err)
		return nil, err
	}
	t.message(DirectionOut, resp.Source.ThreadName, ResponseMessage(resp))
	return data, nil
}

// DecodeResponse decodes a response frame and logs it.
func (t *WireTracer) DecodeResponse(data []byte) (*wire.Response, error) {
	resp, err := wire.DecodeResponse(data)
	if err != nil {
		t.failed("decode response", err)
		return nil, err
	}
	t.message(DirectionIn, resp.Target.ThreadName, ResponseMessage(resp))
	return resp, nil
}

func (t *WireTracer) message(dir Direction, thread string, m *MessageEvent) {
	t.logger.Log(Event{
		Timestamp:  t.now(),
		InstanceID: t.id,
		Direction:  dir,
		Layer:      LayerWire,
		Category:   CategoryMessage,
		Thread:     thread,
		Cookie:     t.cookie,
		Message:    m,
	})
}

func (t *WireTracer) failed(context string, err error) {
	t.logger.Log(Event{
		Timestamp:  t.now(),
		InstanceID: t.id,
		Layer:      LayerWire,
		Category:   CategoryError,
		Cookie:     t.cookie,
		Error: &ErrorEventData{
			Layer:   LayerWire,
			Message: err.Error(),
			Context: context,
		},
	})
}
