// Package log provides structured trace logging for the service bus.
//
// This package defines the Logger interface and Event types for capturing
// routing, connection and timer events. It is separate from operational
// logging (slog): the trace is a complete machine-readable record for
// debugging and analysis.
//
// # Basic Usage
//
// Components take a Logger in their config:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/svcbus/router.blog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Message: envelopes routed between proxies and stubs (MessageEvent)
//   - State: proxy, stub and connection transitions (StateChangeEvent)
//   - Timer: timer start, expiry and stop (TimerEvent)
//
// Errors at any layer have a dedicated event type.
//
// WireTracer wraps the envelope codec of a connection and logs each frame
// it encodes or decodes.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .blog extension.
// The svcbus-log CLI tool views and summarizes them.
package log
