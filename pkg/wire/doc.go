// Package wire defines the CBOR envelopes exchanged between proxies, stubs
// and the router.
//
// Envelopes use CBOR (RFC 8949) maps with integer keys. Key 1 always carries
// the message id, so a receiver can classify a frame with PeekMessageType
// before decoding the rest.
//
// # Envelopes
//
//   - Request: proxy to stub, message id in the request range
//   - Response: stub to proxy, message id in the response or attribute range
//   - ServiceMessage: registration and connection control, message id in the
//     service range
//
// The payload of requests and responses is opaque to this package. Each
// service interface defines its own payload layout.
package wire
