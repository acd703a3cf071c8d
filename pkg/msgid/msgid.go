package msgid

import "fmt"

// ID is a service interface message identifier.
type ID uint32

// Reserved values and range limits.
const (
	// EmptyFunction is the reserved "no function" id.
	EmptyFunction ID = 0x00000000

	// Invalid marks an unknown or unmapped message.
	Invalid ID = 0xFFFFFFFF

	// FuncRange masks the ordinal part of an id.
	FuncRange ID = 0x00000FFF

	// categoryMask selects every bit above the ordinal.
	categoryMask ID = ^FuncRange
)

// Category flags. Exactly one is set for any real message id.
const (
	RequestFlag   ID = 0x1000
	ResponseFlag  ID = 0x2000
	AttributeFlag ID = 0x4000
	ServiceFlag   ID = 0x8000
)

// Category ranges.
const (
	RequestFirst ID = RequestFlag
	RequestLast  ID = RequestFlag | FuncRange

	ResponseFirst ID = ResponseFlag
	ResponseLast  ID = ResponseFlag | FuncRange

	AttributeFirst ID = AttributeFlag
	AttributeLast  ID = AttributeFlag | FuncRange

	ServiceFirst ID = ServiceFlag
	ServiceLast  ID = ServiceFlag | FuncRange
)

// ResponseNone is the mapped response of a fire-and-forget request.
const ResponseNone ID = EmptyFunction

// Reserved registration and connection control ids.
const (
	// ServiceRequestConnection asks the router to connect a proxy to its stub.
	ServiceRequestConnection ID = ServiceFirst + 0x0001

	// ServiceNotifyConnection reports a connection state change to a proxy or stub.
	ServiceNotifyConnection ID = ServiceFirst + 0x0002

	// ServiceRequestVersion asks a stub for its implementation version.
	ServiceRequestVersion ID = ServiceFirst + 0x0003

	// ServiceNotifyVersion carries the stub implementation version to a proxy.
	ServiceNotifyVersion ID = ServiceFirst + 0x0004

	// ServiceRequestRegister registers a proxy or stub at the router.
	ServiceRequestRegister ID = ServiceFirst + 0x0005

	// ServiceRequestUnregister removes a proxy or stub registration.
	ServiceRequestUnregister ID = ServiceFirst + 0x0006

	// ServiceLastMessage is the last reserved control id.
	ServiceLastMessage ID = ServiceLast
)

// DataType is the category of a message id.
type DataType uint8

const (
	// DataTypeUndefined is returned for empty, invalid or malformed ids.
	DataTypeUndefined DataType = iota

	// DataTypeRequest marks a request id.
	DataTypeRequest

	// DataTypeResponse marks a response id.
	DataTypeResponse

	// DataTypeAttribute marks an attribute notification id.
	DataTypeAttribute

	// DataTypeRegistration marks a service registration/control id.
	DataTypeRegistration
)

// String returns the data type name.
func (d DataType) String() string {
	switch d {
	case DataTypeRequest:
		return "REQUEST"
	case DataTypeResponse:
		return "RESPONSE"
	case DataTypeAttribute:
		return "ATTRIBUTE"
	case DataTypeRegistration:
		return "REGISTRATION"
	default:
		return "UNDEFINED"
	}
}

// IsRequest returns true if id is a request id.
func IsRequest(id ID) bool { return id&categoryMask == RequestFlag }

// IsResponse returns true if id is a response id.
func IsResponse(id ID) bool { return id&categoryMask == ResponseFlag }

// IsAttribute returns true if id is an attribute notification id.
func IsAttribute(id ID) bool { return id&categoryMask == AttributeFlag }

// IsRegistration returns true if id is a registration/control id.
func IsRegistration(id ID) bool { return id&categoryMask == ServiceFlag }

// IsEmpty returns true for the empty function id.
func IsEmpty(id ID) bool { return id == EmptyFunction }

// IsExecutable returns true if a component may execute the message: any
// request, response or attribute id, or the empty function.
func IsExecutable(id ID) bool {
	return IsRequest(id) || IsResponse(id) || IsAttribute(id) || IsEmpty(id)
}

// DataTypeOf classifies id. The first matching category wins.
func DataTypeOf(id ID) DataType {
	switch {
	case IsRequest(id):
		return DataTypeRequest
	case IsResponse(id):
		return DataTypeResponse
	case IsAttribute(id):
		return DataTypeAttribute
	case IsRegistration(id):
		return DataTypeRegistration
	default:
		return DataTypeUndefined
	}
}

// RequestIndex returns the request ordinal, or -1 if id is not a request.
func RequestIndex(id ID) int {
	if !IsRequest(id) {
		return -1
	}
	return int(id - RequestFirst)
}

// ResponseIndex returns the response ordinal, or -1 if id is not a response.
func ResponseIndex(id ID) int {
	if !IsResponse(id) {
		return -1
	}
	return int(id - ResponseFirst)
}

// AttributeIndex returns the attribute ordinal, or -1 if id is not an attribute.
func AttributeIndex(id ID) int {
	if !IsAttribute(id) {
		return -1
	}
	return int(id - AttributeFirst)
}

// RequestID returns the request id at index, or Invalid when out of range.
func RequestID(index int) ID { return fromIndex(RequestFirst, index) }

// ResponseID returns the response id at index, or Invalid when out of range.
func ResponseID(index int) ID { return fromIndex(ResponseFirst, index) }

// AttributeID returns the attribute id at index, or Invalid when out of range.
func AttributeID(index int) ID { return fromIndex(AttributeFirst, index) }

func fromIndex(first ID, index int) ID {
	if index < 0 || index > int(FuncRange) {
		return Invalid
	}
	return first + ID(index)
}

// Class is the tagged view of an id: its category plus the ordinal within it.
// Index is -1 for undefined ids.
type Class struct {
	Type  DataType
	Index int
}

// Classify returns the category and ordinal of id.
func Classify(id ID) Class {
	t := DataTypeOf(id)
	if t == DataTypeUndefined {
		return Class{Type: t, Index: -1}
	}
	return Class{Type: t, Index: int(id & FuncRange)}
}

// String returns a readable form such as "request#3".
func (id ID) String() string {
	switch {
	case id == Invalid:
		return "invalid"
	case id == EmptyFunction:
		return "empty"
	}
	c := Classify(id)
	if c.Type == DataTypeUndefined {
		return fmt.Sprintf("undefined(0x%08X)", uint32(id))
	}
	return fmt.Sprintf("%s#%d", lowerType(c.Type), c.Index)
}

func lowerType(t DataType) string {
	switch t {
	case DataTypeRequest:
		return "request"
	case DataTypeResponse:
		return "response"
	case DataTypeAttribute:
		return "attribute"
	default:
		return "service"
	}
}
