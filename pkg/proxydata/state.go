// Package proxydata tracks, per proxy, how fresh the remotely sourced data
// is: the state of every attribute, of every response parameter and of the
// stub's implementation version.
//
// States are a cache-freshness hint, not a guarantee. A slot is Undefined
// only until it is first touched; a disconnect moves every slot to
// Unavailable.
//
// Nothing in this package locks. A ProxyData belongs to the dispatch thread
// of its proxy.
package proxydata

import "github.com/mash-protocol/svcbus/pkg/wire"

// DataState is the freshness of one data slot.
type DataState uint8

const (
	// StateUndefined means the slot was never touched.
	StateUndefined DataState = iota

	// StateOK means the slot holds valid data.
	StateOK

	// StateInvalid means the stub explicitly rejected or invalidated the data.
	StateInvalid

	// StateUnavailable means no data has arrived yet or the service is down.
	StateUnavailable

	// StateUnexpectedError means the stub failed while producing the data.
	StateUnexpectedError
)

// String returns the state name.
func (s DataState) String() string {
	switch s {
	case StateUndefined:
		return "UNDEFINED"
	case StateOK:
		return "OK"
	case StateInvalid:
		return "INVALID"
	case StateUnavailable:
		return "UNAVAILABLE"
	case StateUnexpectedError:
		return "UNEXPECTED_ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the data can be read.
func (s DataState) IsValid() bool {
	return s == StateOK
}

// FromResult maps the result of a received response to a data state.
func FromResult(r wire.Result) DataState {
	switch r {
	case wire.ResultOK:
		return StateOK
	case wire.ResultInvalid:
		return StateInvalid
	case wire.ResultUnavailable, wire.ResultCanceled:
		return StateUnavailable
	default:
		return StateUnexpectedError
	}
}

// StateArray is a fixed-length array of data states.
type StateArray struct {
	states []DataState
}

// NewStateArray creates an array of n Undefined slots.
func NewStateArray(n int) StateArray {
	if n < 0 {
		n = 0
	}
	return StateArray{states: make([]DataState, n)}
}

// Len returns the number of slots.
func (a *StateArray) Len() int { return len(a.states) }

// State returns the state of slot i, or StateUndefined if i is out of range.
func (a *StateArray) State(i int) DataState {
	if i < 0 || i >= len(a.states) {
		return StateUndefined
	}
	return a.states[i]
}

// SetState sets slot i. It returns false if i is out of range.
func (a *StateArray) SetState(i int, s DataState) bool {
	if i < 0 || i >= len(a.states) {
		return false
	}
	a.states[i] = s
	return true
}

// Fill sets every slot to s.
func (a *StateArray) Fill(s DataState) {
	for i := range a.states {
		a.states[i] = s
	}
}

// ParameterArray holds one StateArray per response, sized by the response's
// parameter count.
type ParameterArray struct {
	responses []StateArray
}

// NewParameterArray creates the parameter states for the given per-response
// parameter counts.
func NewParameterArray(paramCounts []int) ParameterArray {
	p := ParameterArray{responses: make([]StateArray, len(paramCounts))}
	for i, n := range paramCounts {
		p.responses[i] = NewStateArray(n)
	}
	return p
}

// ResponseCount returns the number of responses.
func (p *ParameterArray) ResponseCount() int { return len(p.responses) }

// ParamCount returns the parameter count of response r, or -1 if r is out of
// range.
func (p *ParameterArray) ParamCount(r int) int {
	if r < 0 || r >= len(p.responses) {
		return -1
	}
	return p.responses[r].Len()
}

// State returns the state of parameter i of response r.
func (p *ParameterArray) State(r, i int) DataState {
	if r < 0 || r >= len(p.responses) {
		return StateUndefined
	}
	return p.responses[r].State(i)
}

// SetAll sets every parameter of response r. Parameters of one response
// arrive in one payload, so they always change together. It returns false if
// r is out of range.
func (p *ParameterArray) SetAll(r int, s DataState) bool {
	if r < 0 || r >= len(p.responses) {
		return false
	}
	p.responses[r].Fill(s)
	return true
}

// Fill sets every parameter of every response to s.
func (p *ParameterArray) Fill(s DataState) {
	for i := range p.responses {
		p.responses[i].Fill(s)
	}
}
