// Package iface describes service interfaces: the message ids a service
// declares, which response each request awaits and how many parameters each
// response carries.
//
// A Descriptor is built once per interface and never mutated afterwards, so
// it can be shared by every proxy and stub of that interface without locking.
package iface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/service"
	"github.com/mash-protocol/svcbus/pkg/version"
)

// ErrInvalidDefinition is returned when a Definition is inconsistent.
var ErrInvalidDefinition = errors.New("invalid interface definition")

// Definition is the raw input for a Descriptor, as produced by a code
// generator or a descriptor file. Ids in each category are dense: the i-th
// entry of Requests is msgid.RequestID(i), and so on.
type Definition struct {
	Name    string
	Version version.Version
	Type    service.ServiceType

	Requests   []msgid.ID
	Responses  []msgid.ID
	Attributes []msgid.ID

	// RequestToResponse is indexed by request index. msgid.ResponseNone marks
	// a fire-and-forget request.
	RequestToResponse []msgid.ID

	// ResponseParams is indexed by response index.
	ResponseParams []int

	// Names optionally maps ids to message names for diagnostics.
	Names map[msgid.ID]string
}

// Validate checks that the definition can back a Descriptor.
func (d *Definition) Validate() error {
	var errs []error

	if !service.NewServiceItem(d.Name, d.Version, d.Type).IsValid() {
		errs = append(errs, fmt.Errorf("service %q %s %s is not a valid service item", d.Name, d.Version, d.Type))
	}

	errs = append(errs, checkDense("request", d.Requests, msgid.RequestID)...)
	errs = append(errs, checkDense("response", d.Responses, msgid.ResponseID)...)
	errs = append(errs, checkDense("attribute", d.Attributes, msgid.AttributeID)...)

	if len(d.RequestToResponse) != len(d.Requests) {
		errs = append(errs, fmt.Errorf("request map has %d entries, want %d", len(d.RequestToResponse), len(d.Requests)))
	}
	for i, resp := range d.RequestToResponse {
		if resp == msgid.ResponseNone {
			continue
		}
		idx := msgid.ResponseIndex(resp)
		if idx < 0 || idx >= len(d.Responses) {
			errs = append(errs, fmt.Errorf("request %d maps to undeclared response %s", i, resp))
		}
	}

	if len(d.ResponseParams) != len(d.Responses) {
		errs = append(errs, fmt.Errorf("parameter map has %d entries, want %d", len(d.ResponseParams), len(d.Responses)))
	}
	for i, n := range d.ResponseParams {
		if n < 0 {
			errs = append(errs, fmt.Errorf("response %d has negative parameter count %d", i, n))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(errs...))
	}
	return nil
}

func checkDense(kind string, ids []msgid.ID, idAt func(int) msgid.ID) []error {
	var errs []error
	if len(ids) > int(msgid.FuncRange)+1 {
		errs = append(errs, fmt.Errorf("%d %s ids exceed the category range", len(ids), kind))
	}
	for i, id := range ids {
		if want := idAt(i); id != want {
			errs = append(errs, fmt.Errorf("%s %d has id %s, want %s", kind, i, id, want))
		}
	}
	return errs
}

// Descriptor is the immutable metadata of one service interface.
type Descriptor struct {
	item       service.ServiceItem
	requests   []msgid.ID
	responses  []msgid.ID
	attributes []msgid.ID
	reqToResp  []msgid.ID
	respParams []int
	names      map[msgid.ID]string
}

// New validates def and builds a Descriptor from a copy of its data.
func New(def Definition) (*Descriptor, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	names := make(map[msgid.ID]string, len(def.Names))
	for id, n := range def.Names {
		names[id] = n
	}

	return &Descriptor{
		item:       service.NewServiceItem(def.Name, def.Version, def.Type),
		requests:   clone(def.Requests),
		responses:  clone(def.Responses),
		attributes: clone(def.Attributes),
		reqToResp:  clone(def.RequestToResponse),
		respParams: clone(def.ResponseParams),
		names:      names,
	}, nil
}

// MustNew is like New but panics on an invalid definition. It is meant for
// package-level descriptor variables.
func MustNew(def Definition) *Descriptor {
	d, err := New(def)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	emptyOnce sync.Once
	empty     *Descriptor
)

// Empty returns the shared descriptor of no interface. It declares no
// messages and reports IsValid() == false.
func Empty() *Descriptor {
	emptyOnce.Do(func() {
		empty = &Descriptor{item: service.InvalidServiceItem()}
	})
	return empty
}

func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Name returns the interface name.
func (d *Descriptor) Name() string { return d.item.Name() }

// Version returns the interface version.
func (d *Descriptor) Version() version.Version { return d.item.Version() }

// Type returns the service type.
func (d *Descriptor) Type() service.ServiceType { return d.item.Type() }

// ServiceItem returns the service identity of the interface.
func (d *Descriptor) ServiceItem() service.ServiceItem { return d.item }

// IsValid returns false for Empty().
func (d *Descriptor) IsValid() bool { return d.item.IsValid() }

// RequestCount returns the number of declared requests.
func (d *Descriptor) RequestCount() int { return len(d.requests) }

// ResponseCount returns the number of declared responses.
func (d *Descriptor) ResponseCount() int { return len(d.responses) }

// AttributeCount returns the number of declared attributes.
func (d *Descriptor) AttributeCount() int { return len(d.attributes) }

// Requests returns a copy of the request ids.
func (d *Descriptor) Requests() []msgid.ID { return clone(d.requests) }

// Responses returns a copy of the response ids.
func (d *Descriptor) Responses() []msgid.ID { return clone(d.responses) }

// Attributes returns a copy of the attribute ids.
func (d *Descriptor) Attributes() []msgid.ID { return clone(d.attributes) }

// ResponseParamCounts returns a copy of the per-response parameter counts.
func (d *Descriptor) ResponseParamCounts() []int { return clone(d.respParams) }

// HasRequest returns true if id is a request declared by the interface.
func (d *Descriptor) HasRequest(id msgid.ID) bool {
	idx := msgid.RequestIndex(id)
	return idx >= 0 && idx < len(d.requests)
}

// HasResponse returns true if id is a response declared by the interface.
func (d *Descriptor) HasResponse(id msgid.ID) bool {
	idx := msgid.ResponseIndex(id)
	return idx >= 0 && idx < len(d.responses)
}

// HasAttribute returns true if id is an attribute declared by the interface.
func (d *Descriptor) HasAttribute(id msgid.ID) bool {
	idx := msgid.AttributeIndex(id)
	return idx >= 0 && idx < len(d.attributes)
}

// ResponseID returns the response awaited by requestID, msgid.ResponseNone
// for a fire-and-forget request, or msgid.Invalid when the request is not
// declared.
func (d *Descriptor) ResponseID(requestID msgid.ID) msgid.ID {
	idx := msgid.RequestIndex(requestID)
	if idx < 0 || idx >= len(d.requests) || idx >= len(d.reqToResp) {
		return msgid.Invalid
	}
	return d.reqToResp[idx]
}

// ParamCount returns the parameter count of a response, or -1 if the
// response is not declared.
func (d *Descriptor) ParamCount(responseID msgid.ID) int {
	idx := msgid.ResponseIndex(responseID)
	if idx < 0 || idx >= len(d.respParams) {
		return -1
	}
	return d.respParams[idx]
}

// MessageName returns the declared name of id, or its generic form.
func (d *Descriptor) MessageName(id msgid.ID) string {
	if n, ok := d.names[id]; ok {
		return n
	}
	return id.String()
}
