// Package msgid defines the message-ID space shared by every service interface.
//
// A message ID is an unsigned 32-bit value. The bits above the low 12 bits
// carry exactly one category flag; the low 12 bits carry the ordinal within
// that category:
//
//	0x0000          empty function (reserved)
//	0x1000..0x1FFF  requests
//	0x2000..0x2FFF  responses
//	0x4000..0x4FFF  attribute notifications
//	0x8000..0x8FFF  service registration / connection control
//	0xFFFFFFFF      invalid
//
// # Indexing
//
// Per-interface state arrays are indexed by the ordinal, so the request with
// id RequestFirst+3 lives at index 3. The index helpers return -1 for ids
// outside their category instead of producing a bogus slot.
//
// # Classification
//
// Classification never fails. An id with no or several category bits simply
// satisfies none of the predicates and classifies as DataTypeUndefined.
package msgid
