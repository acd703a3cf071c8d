// Package service implements service identity and addressing.
//
// # ServiceItem
//
// A ServiceItem names a versioned service endpoint: {name, version, type}.
// The item caches a 32-bit fingerprint ("magic number") derived from the
// name and type only, so equality and compatibility checks are O(1) and a
// version bump never changes the fingerprint:
//
//	magic = murmur3(name || 0x00 || type)
//
// An invalid item carries the ChecksumIgnore fingerprint, which makes
// IsValid a single comparison.
//
// # Paths
//
// Items and addresses have a textual form used in logs and for composing
// hierarchical addresses:
//
//	HelloWorld/1.0.0/Public                      service item
//	HelloWorld/1.0.0/Public/main/MainThread/1    proxy or stub address
//
// ConvPathToAddress returns the unparsed remainder so callers can chain
// parsers over composite paths.
//
// # Addresses
//
// A StubAddress identifies a provider instance (role name + hosting thread),
// a ProxyAddress identifies a consumer that targets a stub by role name. Both
// carry the Cookie of the connection they live on.
package service
