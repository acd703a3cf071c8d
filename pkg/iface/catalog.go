package iface

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateInterface is returned when a different descriptor is already
// registered under the same name.
var ErrDuplicateInterface = errors.New("interface already registered")

// Catalog holds the descriptors known to a process, keyed by name.
type Catalog struct {
	mu    sync.RWMutex
	descs map[string]*Descriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{descs: make(map[string]*Descriptor)}
}

// Register adds d. Registering the same descriptor twice is a no-op.
func (c *Catalog) Register(d *Descriptor) error {
	if d == nil || !d.IsValid() {
		return fmt.Errorf("%w: cannot register invalid descriptor", ErrInvalidDefinition)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.descs[d.Name()]; ok && existing != d {
		return fmt.Errorf("%w: %s", ErrDuplicateInterface, d.Name())
	}
	c.descs[d.Name()] = d
	return nil
}

// Lookup returns the descriptor named name, or Empty().
func (c *Catalog) Lookup(name string) *Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if d, ok := c.descs[name]; ok {
		return d
	}
	return Empty()
}

// Names returns the registered interface names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.descs))
	for n := range c.descs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered interfaces.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descs)
}
