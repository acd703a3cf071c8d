package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/svcbus/pkg/version"
)

// ErrUnknownFactory is returned when a topology file names a factory that
// was not registered.
var ErrUnknownFactory = errors.New("unknown component factory")

// Factory pairs the functions that create and destroy one component type.
type Factory struct {
	Create CreateFunc
	Delete DeleteFunc
}

// Factories maps factory names used in topology files to their functions.
type Factories map[string]Factory

// Names returns the factory names in sorted order.
func (f Factories) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RawModel is a topology file.
type RawModel struct {
	Name    string      `yaml:"name"`
	Threads []RawThread `yaml:"threads"`
}

// RawThread declares a dispatcher thread.
type RawThread struct {
	Name       string         `yaml:"name"`
	Timeout    time.Duration  `yaml:"timeout"`
	Components []RawComponent `yaml:"components"`
}

// RawComponent declares a component. Factory names an entry of the
// Factories passed to Parse.
type RawComponent struct {
	Role         string       `yaml:"role"`
	Factory      string       `yaml:"factory"`
	Services     []RawService `yaml:"services"`
	Dependencies []string     `yaml:"dependencies"`
	Workers      []RawWorker  `yaml:"workers"`
	Data         any          `yaml:"data"`
}

// RawService declares an implemented service.
type RawService struct {
	Name    string          `yaml:"name"`
	Version version.Version `yaml:"version"`
}

// RawWorker declares a worker thread.
type RawWorker struct {
	Name     string        `yaml:"name"`
	Consumer string        `yaml:"consumer"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Build assembles a Model from the raw topology. A nil factories map leaves
// every component without create and delete functions.
func (raw *RawModel) Build(factories Factories) (*Model, error) {
	m := NewModel(raw.Name)
	var errs []error

	for _, rt := range raw.Threads {
		t := m.AddThread(rt.Name)
		t.Timeout = rt.Timeout

		for _, rc := range rt.Components {
			var f Factory
			if rc.Factory != "" && factories != nil {
				var ok bool
				if f, ok = factories[rc.Factory]; !ok {
					errs = append(errs, fmt.Errorf("%w %q for role %q", ErrUnknownFactory, rc.Factory, rc.Role))
				}
			}

			c := t.AddComponent(rc.Role, f.Create, f.Delete)
			c.Data = rc.Data
			for _, s := range rc.Services {
				c.AddSupportedService(s.Name, s.Version)
			}
			for _, d := range rc.Dependencies {
				c.AddDependencyService(d)
			}
			for _, w := range rc.Workers {
				c.AddWorkerThread(w.Name, w.Consumer, w.Timeout)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// ParseRaw parses a topology file without building it.
func ParseRaw(data []byte) (*RawModel, error) {
	var raw RawModel
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing topology: %w", err)
	}
	return &raw, nil
}

// Parse parses, builds and validates a topology.
func Parse(data []byte, factories Factories) (*Model, error) {
	raw, err := ParseRaw(data)
	if err != nil {
		return nil, err
	}
	m, err := raw.Build(factories)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads, builds and validates a topology file.
func LoadFile(path string, factories Factories) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, factories)
}
