package registry

import (
	"errors"
	"fmt"
)

// ErrInvalidModel is returned by Validate when the model breaks a topology
// rule.
var ErrInvalidModel = errors.New("invalid model")

// Model is the topology of one process.
type Model struct {
	Name    string
	Threads ThreadList
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddThread adds a dispatcher thread. An existing thread with the same name
// is returned unchanged.
func (m *Model) AddThread(name string) *ThreadEntry {
	return m.Threads.add(&ThreadEntry{Name: name})
}

// FindThread returns the index of the thread named name, or -1.
func (m *Model) FindThread(name string) int {
	return m.Threads.Find(name)
}

// Thread returns the thread named name, or InvalidThreadEntry().
func (m *Model) Thread(name string) *ThreadEntry {
	return m.Threads.Get(name)
}

// FindComponent returns the first component with role name role and its
// thread, or the invalid entries.
func (m *Model) FindComponent(role string) (*ThreadEntry, *ComponentEntry) {
	for _, t := range m.Threads.items {
		if c, ok := t.Components.get(role); ok {
			return t, c
		}
	}
	return invalidThread, invalidComponent
}

// HasComponent returns true if any thread hosts role.
func (m *Model) HasComponent(role string) bool {
	_, c := m.FindComponent(role)
	return c != invalidComponent
}

// ComponentsOfService returns every component that implements the service
// named name, in model order.
func (m *Model) ComponentsOfService(name string) []*ComponentEntry {
	var out []*ComponentEntry
	for _, t := range m.Threads.items {
		for _, c := range t.Components.items {
			if c.ImplementsService(name) {
				out = append(out, c)
			}
		}
	}
	return out
}

// SetComponentData replaces the data of the component with role name role.
// It returns false if no such component exists.
func (m *Model) SetComponentData(role string, data any) bool {
	_, c := m.FindComponent(role)
	if c == invalidComponent {
		return false
	}
	c.Data = data
	return true
}

// Walk calls fn for every component in model order. It stops at and returns
// the first error.
func (m *Model) Walk(fn func(thread *ThreadEntry, component *ComponentEntry) error) error {
	for _, t := range m.Threads.items {
		for _, c := range t.Components.items {
			if err := fn(t, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ComponentCount returns the number of components in all threads.
func (m *Model) ComponentCount() int {
	n := 0
	for _, t := range m.Threads.items {
		n += t.Components.Len()
	}
	return n
}

// Validate checks the rules that span more than one list:
//   - every entry is valid
//   - role names are unique across the model
//   - no two components of one thread implement the same service
//   - worker thread names are unique and do not collide with dispatcher
//     thread names
func (m *Model) Validate() error {
	var errs []error

	roles := make(map[string]string)
	workers := make(map[string]string)
	var workerOrder []string

	for ti, t := range m.Threads.items {
		if !t.IsValid() {
			errs = append(errs, fmt.Errorf("thread %d has no name", ti))
		}

		services := make(map[string]string)
		for ci, c := range t.Components.items {
			if !c.IsValid() {
				errs = append(errs, fmt.Errorf("thread %q: component %d has no role name", t.Name, ci))
				continue
			}
			if other, dup := roles[c.RoleName]; dup {
				errs = append(errs, fmt.Errorf("role %q is hosted by threads %q and %q", c.RoleName, other, t.Name))
			} else {
				roles[c.RoleName] = t.Name
			}

			for _, s := range c.Services.items {
				if !s.IsValid() {
					errs = append(errs, fmt.Errorf("component %q: invalid service %q %s", c.RoleName, s.Name, s.Version))
					continue
				}
				if other, dup := services[s.Name]; dup {
					errs = append(errs, fmt.Errorf("thread %q: service %q is implemented by %q and %q", t.Name, s.Name, other, c.RoleName))
				} else {
					services[s.Name] = c.RoleName
				}
			}

			for _, d := range c.Dependencies.items {
				if !d.IsValid() {
					errs = append(errs, fmt.Errorf("component %q: dependency without role name", c.RoleName))
				}
			}

			for _, w := range c.Workers.items {
				if !w.IsValid() {
					errs = append(errs, fmt.Errorf("component %q: worker thread %q needs a name and a consumer", c.RoleName, w.Name))
					continue
				}
				if other, dup := workers[w.Name]; dup {
					errs = append(errs, fmt.Errorf("worker thread %q is owned by %q and %q", w.Name, other, c.RoleName))
				} else {
					workers[w.Name] = c.RoleName
					workerOrder = append(workerOrder, w.Name)
				}
			}
		}
	}

	for _, name := range workerOrder {
		if m.Threads.Has(name) {
			errs = append(errs, fmt.Errorf("worker thread %q of %q collides with a dispatcher thread", name, workers[name]))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidModel, m.Name, errors.Join(errs...))
	}
	return nil
}
