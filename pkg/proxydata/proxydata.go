package proxydata

import (
	"fmt"
	"time"

	"github.com/mash-protocol/svcbus/pkg/iface"
	"github.com/mash-protocol/svcbus/pkg/log"
	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/wire"
)

// ProxyData is the data-state cache of one proxy instance.
type ProxyData struct {
	desc        *iface.Descriptor
	implVersion DataState
	attributes  StateArray
	params      ParameterArray

	plog log.Logger
	id   string
}

// New creates the state cache for a proxy of desc. Every slot starts
// Undefined. A nil desc binds the proxy to iface.Empty().
func New(desc *iface.Descriptor) *ProxyData {
	if desc == nil {
		desc = iface.Empty()
	}
	return &ProxyData{
		desc:        desc,
		implVersion: StateUndefined,
		attributes:  NewStateArray(desc.AttributeCount()),
		params:      NewParameterArray(desc.ResponseParamCounts()),
	}
}

// SetProtocolLogger makes ApplyResponse trace every envelope it is handed,
// stamped with instanceID. A nil logger disables tracing.
func (p *ProxyData) SetProtocolLogger(l log.Logger, instanceID string) {
	p.plog = l
	p.id = instanceID
}

// Descriptor returns the interface the proxy is bound to.
func (p *ProxyData) Descriptor() *iface.Descriptor { return p.desc }

// SetDataState records the state of the data carried by id. The version
// notification sets the implementation-version state, an attribute id sets
// that attribute and a response id sets all of its parameters. Any other id
// is ignored.
func (p *ProxyData) SetDataState(id msgid.ID, s DataState) {
	switch {
	case id == msgid.ServiceNotifyVersion:
		p.implVersion = s
	case msgid.IsAttribute(id):
		p.attributes.SetState(msgid.AttributeIndex(id), s)
	case msgid.IsResponse(id):
		p.params.SetAll(msgid.ResponseIndex(id), s)
	}
}

// AttributeState returns the state of an attribute.
func (p *ProxyData) AttributeState(id msgid.ID) DataState {
	return p.attributes.State(msgid.AttributeIndex(id))
}

// ResponseState returns the state of a response, represented by its first
// parameter. A response without parameters reports StateUnavailable.
func (p *ProxyData) ResponseState(id msgid.ID) DataState {
	r := msgid.ResponseIndex(id)
	if p.params.ParamCount(r) <= 0 {
		return StateUnavailable
	}
	return p.params.State(r, 0)
}

// ParamState returns the state of parameter i of a response.
func (p *ProxyData) ParamState(id msgid.ID, i int) DataState {
	return p.params.State(msgid.ResponseIndex(id), i)
}

// ImplVersionState returns the state of the stub's implementation version.
func (p *ProxyData) ImplVersionState() DataState { return p.implVersion }

// IsImplVersionValid returns true once the stub version was received.
func (p *ProxyData) IsImplVersionValid() bool { return p.implVersion == StateOK }

// ResetStates marks every slot and the implementation version Unavailable.
// It is called whenever the service connects or disconnects.
func (p *ProxyData) ResetStates() {
	p.implVersion = StateUnavailable
	p.attributes.Fill(StateUnavailable)
	p.params.Fill(StateUnavailable)
}

// ResponseID returns the response awaited by requestID, see
// iface.Descriptor.ResponseID.
func (p *ProxyData) ResponseID(requestID msgid.ID) msgid.ID {
	return p.desc.ResponseID(requestID)
}

// ApplyResponse records the outcome of a received response or attribute
// update. Envelopes for messages the interface does not declare are
// ignored; it returns whether a state was recorded.
func (p *ProxyData) ApplyResponse(resp *wire.Response) bool {
	if resp == nil {
		return false
	}
	id := resp.MessageID
	if !p.desc.HasResponse(id) && !p.desc.HasAttribute(id) {
		p.trace(resp, &log.ErrorEventData{
			Layer:   log.LayerProxy,
			Message: fmt.Sprintf("%s not declared by %s", id, p.desc.Name()),
			Context: "apply response",
		})
		return false
	}
	p.SetDataState(id, FromResult(resp.Result))
	p.trace(resp, nil)
	return true
}

func (p *ProxyData) trace(resp *wire.Response, failure *log.ErrorEventData) {
	if p.plog == nil {
		return
	}
	e := log.Event{
		Timestamp:  time.Now(),
		InstanceID: p.id,
		Direction:  log.DirectionIn,
		Layer:      log.LayerProxy,
		Category:   log.CategoryMessage,
		Thread:     resp.Target.ThreadName,
		Cookie:     uint64(resp.Target.Cookie),
		Message:    log.ResponseMessage(resp),
	}
	if failure != nil {
		e.Category = log.CategoryError
		e.Error = failure
	}
	p.plog.Log(e)
}
