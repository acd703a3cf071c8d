package iface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/service"
	"github.com/mash-protocol/svcbus/pkg/version"
)

// helloWorldDef declares two requests (one awaiting a response, one
// fire-and-forget), one response with two parameters and one attribute.
func helloWorldDef() Definition {
	return Definition{
		Name:              "HelloWorld",
		Version:           version.New(1, 0, 0),
		Type:              service.TypeLocal,
		Requests:          []msgid.ID{msgid.RequestID(0), msgid.RequestID(1)},
		Responses:         []msgid.ID{msgid.ResponseID(0)},
		Attributes:        []msgid.ID{msgid.AttributeID(0)},
		RequestToResponse: []msgid.ID{msgid.ResponseID(0), msgid.ResponseNone},
		ResponseParams:    []int{2},
		Names: map[msgid.ID]string{
			msgid.RequestID(0): "HelloWorld",
		},
	}
}

func TestNew(t *testing.T) {
	d, err := New(helloWorldDef())
	require.NoError(t, err)

	assert.True(t, d.IsValid())
	assert.Equal(t, "HelloWorld", d.Name())
	assert.Equal(t, version.New(1, 0, 0), d.Version())
	assert.Equal(t, service.TypeLocal, d.Type())
	assert.True(t, d.ServiceItem().IsValid())
	assert.Equal(t, 2, d.RequestCount())
	assert.Equal(t, 1, d.ResponseCount())
	assert.Equal(t, 1, d.AttributeCount())
	assert.Equal(t, []int{2}, d.ResponseParamCounts())
}

func TestResponseID(t *testing.T) {
	d := MustNew(helloWorldDef())

	tests := []struct {
		name    string
		request msgid.ID
		want    msgid.ID
	}{
		{"mapped", msgid.RequestID(0), msgid.ResponseID(0)},
		{"fire and forget", msgid.RequestID(1), msgid.ResponseNone},
		{"out of declared range", msgid.RequestID(2), msgid.Invalid},
		{"not a request", msgid.ResponseID(0), msgid.Invalid},
		{"invalid", msgid.Invalid, msgid.Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.ResponseID(tt.request))
		})
	}
}

func TestParamCountAndMembership(t *testing.T) {
	d := MustNew(helloWorldDef())

	assert.Equal(t, 2, d.ParamCount(msgid.ResponseID(0)))
	assert.Equal(t, -1, d.ParamCount(msgid.ResponseID(1)))
	assert.Equal(t, -1, d.ParamCount(msgid.RequestID(0)))

	assert.True(t, d.HasRequest(msgid.RequestID(1)))
	assert.False(t, d.HasRequest(msgid.RequestID(2)))
	assert.True(t, d.HasResponse(msgid.ResponseID(0)))
	assert.True(t, d.HasAttribute(msgid.AttributeID(0)))
	assert.False(t, d.HasAttribute(msgid.AttributeID(1)))
}

func TestDescriptorIsImmutable(t *testing.T) {
	def := helloWorldDef()
	d := MustNew(def)

	def.RequestToResponse[1] = msgid.ResponseID(0)
	def.ResponseParams[0] = 7
	assert.Equal(t, msgid.ResponseNone, d.ResponseID(msgid.RequestID(1)))
	assert.Equal(t, 2, d.ParamCount(msgid.ResponseID(0)))

	reqs := d.Requests()
	reqs[0] = msgid.Invalid
	assert.Equal(t, msgid.RequestID(0), d.Requests()[0])
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"invalid service", func(d *Definition) { d.Name = "" }},
		{"request in wrong category", func(d *Definition) { d.Requests[1] = msgid.AttributeID(1) }},
		{"sparse requests", func(d *Definition) { d.Requests[1] = msgid.RequestID(5) }},
		{"short request map", func(d *Definition) { d.RequestToResponse = d.RequestToResponse[:1] }},
		{"map to undeclared response", func(d *Definition) { d.RequestToResponse[0] = msgid.ResponseID(3) }},
		{"map to non-response", func(d *Definition) { d.RequestToResponse[0] = msgid.AttributeID(0) }},
		{"short parameter map", func(d *Definition) { d.ResponseParams = nil }},
		{"negative parameter count", func(d *Definition) { d.ResponseParams[0] = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := helloWorldDef()
			tt.mutate(&def)

			err := def.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDefinition))

			_, err = New(def)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
			assert.Panics(t, func() { MustNew(def) })
		})
	}
}

func TestEmpty(t *testing.T) {
	e := Empty()
	assert.Same(t, e, Empty())
	assert.False(t, e.IsValid())
	assert.Equal(t, 0, e.RequestCount())
	assert.Equal(t, msgid.Invalid, e.ResponseID(msgid.RequestID(0)))
	assert.Equal(t, -1, e.ParamCount(msgid.ResponseID(0)))
}

func TestMessageName(t *testing.T) {
	d := MustNew(helloWorldDef())
	assert.Equal(t, "HelloWorld", d.MessageName(msgid.RequestID(0)))
	assert.Equal(t, "request#1", d.MessageName(msgid.RequestID(1)))
}
