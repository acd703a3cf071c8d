package msgid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryDisjointness(t *testing.T) {
	ranges := []struct {
		name        string
		first, last ID
		want        DataType
	}{
		{"requests", RequestFirst, RequestLast, DataTypeRequest},
		{"responses", ResponseFirst, ResponseLast, DataTypeResponse},
		{"attributes", AttributeFirst, AttributeLast, DataTypeAttribute},
		{"registration", ServiceFirst, ServiceLast, DataTypeRegistration},
	}

	for _, r := range ranges {
		t.Run(r.name, func(t *testing.T) {
			for id := r.first; id <= r.last; id++ {
				matches := 0
				for _, pred := range []func(ID) bool{IsRequest, IsResponse, IsAttribute, IsRegistration} {
					if pred(id) {
						matches++
					}
				}
				if matches != 1 {
					t.Fatalf("id 0x%04X matched %d categories", uint32(id), matches)
				}
				if got := DataTypeOf(id); got != r.want {
					t.Fatalf("DataTypeOf(0x%04X) = %v, want %v", uint32(id), got, r.want)
				}
			}
		})
	}
}

func TestMalformedIDs(t *testing.T) {
	tests := []struct {
		name string
		id   ID
	}{
		{"invalid", Invalid},
		{"empty", EmptyFunction},
		{"two flags", RequestFlag | ResponseFlag | 1},
		{"high bits", 0x00010001},
		{"ordinal only", 0x0042},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsRequest(tt.id))
			assert.False(t, IsResponse(tt.id))
			assert.False(t, IsAttribute(tt.id))
			assert.False(t, IsRegistration(tt.id))
			assert.Equal(t, DataTypeUndefined, DataTypeOf(tt.id))
			assert.Equal(t, -1, Classify(tt.id).Index)
		})
	}
}

func TestIsExecutable(t *testing.T) {
	assert.True(t, IsExecutable(EmptyFunction))
	assert.True(t, IsExecutable(RequestFirst))
	assert.True(t, IsExecutable(ResponseFirst+5))
	assert.True(t, IsExecutable(AttributeLast))
	assert.False(t, IsExecutable(ServiceNotifyVersion))
	assert.False(t, IsExecutable(Invalid))
}

func TestIndexRoundTrip(t *testing.T) {
	for _, idx := range []int{0, 1, 17, int(FuncRange)} {
		r := RequestID(idx)
		assert.Equal(t, idx, RequestIndex(r))
		assert.Equal(t, int(r-RequestFirst), RequestIndex(r))

		assert.Equal(t, idx, ResponseIndex(ResponseID(idx)))
		assert.Equal(t, idx, AttributeIndex(AttributeID(idx)))
	}

	assert.Equal(t, Invalid, RequestID(-1))
	assert.Equal(t, Invalid, ResponseID(int(FuncRange)+1))

	// Index helpers reject ids of other categories.
	assert.Equal(t, -1, RequestIndex(ResponseFirst))
	assert.Equal(t, -1, ResponseIndex(AttributeFirst))
	assert.Equal(t, -1, AttributeIndex(RequestFirst))
}

func TestClassify(t *testing.T) {
	c := Classify(ResponseFirst + 2)
	assert.Equal(t, Class{Type: DataTypeResponse, Index: 2}, c)

	c = Classify(ServiceNotifyVersion)
	assert.Equal(t, DataTypeRegistration, c.Type)
	assert.Equal(t, 4, c.Index)
}

func TestIDString(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{RequestFirst + 3, "request#3"},
		{ResponseFirst, "response#0"},
		{AttributeFirst + 1, "attribute#1"},
		{ServiceNotifyConnection, "service#2"},
		{Invalid, "invalid"},
		{EmptyFunction, "empty"},
		{0x3000, "undefined(0x00003000)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.id.String())
	}
	assert.Equal(t, "REGISTRATION", DataTypeRegistration.String())
	assert.Equal(t, "UNDEFINED", DataType(99).String())
}
