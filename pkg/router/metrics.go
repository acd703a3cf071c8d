package router

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Fan-out directions used as the "direction" label.
const (
	FanoutAvailable   = "available"
	FanoutUnavailable = "unavailable"
)

// Metrics holds the Prometheus collectors of a ServiceTable.
type Metrics struct {
	StubsConnected    prometheus.Gauge
	ProxiesRegistered prometheus.Gauge
	Fanout            *prometheus.CounterVec
	Rejected          prometheus.Counter
}

// NewMetrics creates the router collectors and registers them with reg. A
// collector that reg already holds is reused, so tables sharing a registry
// share their series. A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StubsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "svcbus",
			Subsystem: "router",
			Name:      "stubs_connected",
			Help:      "Number of stubs currently connected",
		}),
		ProxiesRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "svcbus",
			Subsystem: "router",
			Name:      "proxies_registered",
			Help:      "Number of proxies currently registered",
		}),
		Fanout: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "svcbus",
			Subsystem: "router",
			Name:      "fanout_total",
			Help:      "Proxies notified by stub availability changes",
		}, []string{"direction"}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "svcbus",
			Subsystem: "router",
			Name:      "rejected_total",
			Help:      "Proxies rejected for an incompatible stub version",
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.StubsConnected, err = register(reg, m.StubsConnected); err != nil {
		return nil, err
	}
	if m.ProxiesRegistered, err = register(reg, m.ProxiesRegistered); err != nil {
		return nil, err
	}
	if m.Fanout, err = register(reg, m.Fanout); err != nil {
		return nil, err
	}
	if m.Rejected, err = register(reg, m.Rejected); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
