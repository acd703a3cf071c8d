package router

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mash-protocol/svcbus/pkg/log"
)

// Router errors.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidAddress = errors.New("invalid address")
	ErrDuplicateStub  = errors.New("stub already registered")
	ErrTooManyProxies = errors.New("too many proxies for stub")
)

// Config configures a ServiceTable.
type Config struct {
	// Logger receives operational records. Nil disables logging.
	Logger *slog.Logger

	// ProtocolLogger receives state change events. Nil disables tracing.
	ProtocolLogger log.Logger

	// Registerer receives the table metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// MaxProxiesPerStub limits the proxy list of one stub (0 = unlimited).
	MaxProxiesPerStub int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxProxiesPerStub: 1024,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.MaxProxiesPerStub < 0 {
		return ErrInvalidConfig
	}
	return nil
}
