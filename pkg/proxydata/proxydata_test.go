package proxydata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/svcbus/pkg/iface"
	"github.com/mash-protocol/svcbus/pkg/log"
	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/service"
	"github.com/mash-protocol/svcbus/pkg/version"
	"github.com/mash-protocol/svcbus/pkg/wire"
)

var (
	reqHello    = msgid.RequestID(0)
	reqShutdown = msgid.RequestID(1)
	respHello   = msgid.ResponseID(0)
	respStatus  = msgid.ResponseID(1)
	attrClients = msgid.AttributeID(0)
)

// helloWorld has two requests (the second is fire-and-forget), a response
// with two parameters, a response without parameters and one attribute.
func helloWorld(t *testing.T) *iface.Descriptor {
	t.Helper()
	return iface.MustNew(iface.Definition{
		Name:              "HelloWorld",
		Version:           version.New(1, 0, 0),
		Type:              service.TypeLocal,
		Requests:          []msgid.ID{reqHello, reqShutdown},
		Responses:         []msgid.ID{respHello, respStatus},
		Attributes:        []msgid.ID{attrClients},
		RequestToResponse: []msgid.ID{respHello, msgid.ResponseNone},
		ResponseParams:    []int{2, 0},
	})
}

func TestNewStartsUndefined(t *testing.T) {
	p := New(helloWorld(t))

	assert.Equal(t, StateUndefined, p.ImplVersionState())
	assert.Equal(t, StateUndefined, p.AttributeState(attrClients))
	assert.Equal(t, StateUndefined, p.ParamState(respHello, 0))
	assert.Equal(t, StateUndefined, p.ParamState(respHello, 1))
	assert.Equal(t, StateUndefined, p.ResponseState(respHello))
	assert.False(t, p.IsImplVersionValid())
}

func TestNewWithNilDescriptor(t *testing.T) {
	p := New(nil)

	assert.Same(t, iface.Empty(), p.Descriptor())
	p.SetDataState(attrClients, StateOK)
	assert.Equal(t, StateUndefined, p.AttributeState(attrClients))
	assert.Equal(t, msgid.Invalid, p.ResponseID(reqHello))
}

func TestEndToEnd(t *testing.T) {
	p := New(helloWorld(t))

	p.SetDataState(attrClients, StateOK)
	assert.Equal(t, StateOK, p.AttributeState(attrClients))

	p.SetDataState(respHello, StateInvalid)
	assert.Equal(t, StateInvalid, p.ParamState(respHello, 0))
	assert.Equal(t, StateInvalid, p.ParamState(respHello, 1))

	p.ResetStates()
	assert.Equal(t, StateUnavailable, p.AttributeState(attrClients))
	assert.Equal(t, StateUnavailable, p.ParamState(respHello, 0))
	assert.Equal(t, StateUnavailable, p.ParamState(respHello, 1))
	assert.Equal(t, StateUnavailable, p.ImplVersionState())
}

func TestResetFromAnyState(t *testing.T) {
	for _, s := range []DataState{StateUndefined, StateOK, StateInvalid, StateUnavailable, StateUnexpectedError} {
		t.Run(s.String(), func(t *testing.T) {
			p := New(helloWorld(t))
			p.SetDataState(attrClients, s)
			p.SetDataState(respHello, s)
			p.SetDataState(msgid.ServiceNotifyVersion, s)

			p.ResetStates()

			assert.Equal(t, StateUnavailable, p.AttributeState(attrClients))
			assert.Equal(t, StateUnavailable, p.ParamState(respHello, 0))
			assert.Equal(t, StateUnavailable, p.ParamState(respHello, 1))
			assert.Equal(t, StateUnavailable, p.ImplVersionState())
		})
	}
}

func TestResponseID(t *testing.T) {
	p := New(helloWorld(t))

	assert.Equal(t, respHello, p.ResponseID(reqHello))
	assert.Equal(t, msgid.ResponseNone, p.ResponseID(reqShutdown))
	assert.Equal(t, msgid.Invalid, p.ResponseID(msgid.RequestID(5)))
}

func TestSetDataStateIgnoresOtherIDs(t *testing.T) {
	p := New(helloWorld(t))

	for _, id := range []msgid.ID{reqHello, msgid.ServiceRequestConnection, msgid.EmptyFunction, msgid.Invalid, msgid.AttributeID(9), msgid.ResponseID(9)} {
		p.SetDataState(id, StateOK)
	}

	assert.Equal(t, StateUndefined, p.AttributeState(attrClients))
	assert.Equal(t, StateUndefined, p.ParamState(respHello, 0))
	assert.Equal(t, StateUndefined, p.ImplVersionState())
}

func TestImplVersionState(t *testing.T) {
	p := New(helloWorld(t))

	p.SetDataState(msgid.ServiceNotifyVersion, StateOK)
	assert.True(t, p.IsImplVersionValid())
	assert.Equal(t, StateUndefined, p.AttributeState(attrClients))
}

func TestResponseStateWithoutParams(t *testing.T) {
	p := New(helloWorld(t))

	p.SetDataState(respStatus, StateOK)
	assert.Equal(t, StateUnavailable, p.ResponseState(respStatus))
	assert.Equal(t, StateUnavailable, p.ResponseState(msgid.ResponseID(7)))
}

func TestApplyResponse(t *testing.T) {
	tests := []struct {
		name   string
		id     msgid.ID
		result wire.Result
		want   DataState
	}{
		{"ok response", respHello, wire.ResultOK, StateOK},
		{"invalid response", respHello, wire.ResultInvalid, StateInvalid},
		{"busy response", respHello, wire.ResultBusy, StateUnexpectedError},
		{"canceled response", respHello, wire.ResultCanceled, StateUnavailable},
		{"error attribute", attrClients, wire.ResultError, StateUnexpectedError},
		{"unavailable attribute", attrClients, wire.ResultUnavailable, StateUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(helloWorld(t))
			assert.True(t, p.ApplyResponse(&wire.Response{MessageID: tt.id, Result: tt.result}))

			if msgid.IsAttribute(tt.id) {
				assert.Equal(t, tt.want, p.AttributeState(tt.id))
			} else {
				assert.Equal(t, tt.want, p.ParamState(tt.id, 0))
				assert.Equal(t, tt.want, p.ParamState(tt.id, 1))
			}
		})
	}

	p := New(helloWorld(t))
	assert.False(t, p.ApplyResponse(nil))
	assert.False(t, p.ApplyResponse(&wire.Response{MessageID: msgid.AttributeID(4)}))
	assert.False(t, p.ApplyResponse(&wire.Response{MessageID: reqHello}))
}

type recordingLogger struct{ events []log.Event }

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func TestApplyResponseTrace(t *testing.T) {
	desc := helloWorld(t)
	stub := service.NewStubAddress(desc.ServiceItem(), "hello", "ServerThread", service.CookieLocal)
	proxy := service.NewProxyAddress(desc.ServiceItem(), "hello", "ClientThread", service.CookieLocal)

	rec := &recordingLogger{}
	p := New(desc)
	p.SetProtocolLogger(rec, "proxy-1")

	require.True(t, p.ApplyResponse(&wire.Response{
		MessageID: respHello, Sequence: 3, Source: stub, Target: proxy,
		Result: wire.ResultOK, Payload: []byte("hi"),
	}))
	require.False(t, p.ApplyResponse(&wire.Response{MessageID: msgid.AttributeID(4), Source: stub}))

	require.Len(t, rec.events, 2)
	ok := rec.events[0]
	assert.Equal(t, log.DirectionIn, ok.Direction)
	assert.Equal(t, log.LayerProxy, ok.Layer)
	assert.Equal(t, log.CategoryMessage, ok.Category)
	assert.Equal(t, "proxy-1", ok.InstanceID)
	assert.Equal(t, "ClientThread", ok.Thread)
	require.NotNil(t, ok.Message)
	assert.Equal(t, msgid.DataTypeResponse, ok.Message.Type)
	assert.Equal(t, uint64(3), ok.Message.Sequence)
	assert.Equal(t, stub.Path(), ok.Message.Source)
	assert.Equal(t, proxy.Path(), ok.Message.Target)
	assert.Equal(t, 2, ok.Message.PayloadSize)
	require.NotNil(t, ok.Message.Result)
	assert.Equal(t, wire.ResultOK, *ok.Message.Result)
	assert.Nil(t, ok.Error)

	ignored := rec.events[1]
	assert.Equal(t, log.CategoryError, ignored.Category)
	require.NotNil(t, ignored.Error)
	assert.Equal(t, log.LayerProxy, ignored.Error.Layer)
	assert.Equal(t, "apply response", ignored.Error.Context)
	assert.Contains(t, ignored.Error.Message, "HelloWorld")

	p.SetProtocolLogger(nil, "")
	assert.True(t, p.ApplyResponse(&wire.Response{MessageID: attrClients}))
	assert.Len(t, rec.events, 2)
}

func TestStateArrayBounds(t *testing.T) {
	a := NewStateArray(2)

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.SetState(1, StateOK))
	assert.False(t, a.SetState(2, StateOK))
	assert.False(t, a.SetState(-1, StateOK))
	assert.Equal(t, StateOK, a.State(1))
	assert.Equal(t, StateUndefined, a.State(5))

	a.Fill(StateInvalid)
	assert.Equal(t, StateInvalid, a.State(0))
	assert.Equal(t, StateInvalid, a.State(1))

	neg := NewStateArray(-3)
	assert.Equal(t, 0, neg.Len())
}

func TestParameterArray(t *testing.T) {
	p := NewParameterArray([]int{3, 0, 1})

	assert.Equal(t, 3, p.ResponseCount())
	assert.Equal(t, 3, p.ParamCount(0))
	assert.Equal(t, 0, p.ParamCount(1))
	assert.Equal(t, -1, p.ParamCount(3))

	assert.True(t, p.SetAll(0, StateOK))
	assert.False(t, p.SetAll(3, StateOK))
	for i := 0; i < 3; i++ {
		assert.Equal(t, StateOK, p.State(0, i))
	}
	assert.Equal(t, StateUndefined, p.State(2, 0))

	p.Fill(StateUnavailable)
	assert.Equal(t, StateUnavailable, p.State(2, 0))
	assert.Equal(t, StateUndefined, p.State(1, 0))
}
