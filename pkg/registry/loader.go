package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Loader errors.
var (
	ErrAlreadyLoaded = errors.New("model already loaded")
	ErrNoFactory     = errors.New("component has no create function")
)

// Instance is a component created by a Loader.
type Instance struct {
	Thread    *ThreadEntry
	Entry     *ComponentEntry
	Component any
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// Logger receives lifecycle records. Nil disables logging.
	Logger *slog.Logger
}

// Loader instantiates the components of a model and destroys them again.
type Loader struct {
	mu        sync.Mutex
	logger    *slog.Logger
	model     *Model
	instances []Instance
}

// NewLoader creates a loader.
func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{logger: logger}
}

// Load validates m and creates its components in model order. If a
// component fails, the ones already created are destroyed in reverse order
// and the error is returned.
func (l *Loader) Load(m *Model) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, l.model.Name)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	var created []Instance
	err := m.Walk(func(t *ThreadEntry, c *ComponentEntry) error {
		if c.Create == nil {
			return fmt.Errorf("%w: %s", ErrNoFactory, c.RoleName)
		}
		comp, err := c.Create(c, t)
		if err != nil {
			return fmt.Errorf("creating %s in %s: %w", c.RoleName, t.Name, err)
		}
		created = append(created, Instance{Thread: t, Entry: c, Component: comp})
		l.logger.Debug("component created", "role", c.RoleName, "thread", t.Name)
		return nil
	})
	if err != nil {
		l.logger.Error("model load failed", "model", m.Name, "error", err)
		destroy(created)
		return err
	}

	l.model = m
	l.instances = created
	l.logger.Info("model loaded", "model", m.Name, "threads", m.Threads.Len(), "components", len(created))
	return nil
}

// Unload destroys every created component in reverse creation order. It is
// a no-op if nothing is loaded.
func (l *Loader) Unload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model == nil {
		return
	}
	destroy(l.instances)
	l.logger.Info("model unloaded", "model", l.model.Name, "components", len(l.instances))
	l.model = nil
	l.instances = nil
}

func destroy(instances []Instance) {
	for i := len(instances) - 1; i >= 0; i-- {
		inst := instances[i]
		if inst.Entry.Delete != nil {
			inst.Entry.Delete(inst.Component, inst.Entry)
		}
	}
}

// Instances returns the created components in creation order.
func (l *Loader) Instances() []Instance {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Instance, len(l.instances))
	copy(out, l.instances)
	return out
}

// Instance returns the component created for role.
func (l *Loader) Instance(role string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, inst := range l.instances {
		if inst.Entry.RoleName == role {
			return inst.Component, true
		}
	}
	return nil, false
}

// IsLoaded returns true between a successful Load and Unload.
func (l *Loader) IsLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.model != nil
}
