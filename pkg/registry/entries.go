package registry

import (
	"time"

	"github.com/mash-protocol/svcbus/pkg/version"
)

// CreateFunc instantiates the component described by entry in thread.
type CreateFunc func(entry *ComponentEntry, thread *ThreadEntry) (any, error)

// DeleteFunc destroys a component returned by the matching CreateFunc.
type DeleteFunc func(component any, entry *ComponentEntry)

// ServiceEntry names a service a component implements.
type ServiceEntry struct {
	Name    string
	Version version.Version
}

func (e *ServiceEntry) entryKey() string { return e.Name }

// IsValid returns true if the service has a name and a valid version.
func (e *ServiceEntry) IsValid() bool {
	return e != invalidService && e.Name != "" && e.Version.IsValid()
}

// DependencyEntry names the role of a component whose services are consumed.
type DependencyEntry struct {
	RoleName string
}

func (e *DependencyEntry) entryKey() string { return e.RoleName }

// IsValid returns true if the dependency has a role name.
func (e *DependencyEntry) IsValid() bool {
	return e != invalidDependency && e.RoleName != ""
}

// WorkerThreadEntry describes an auxiliary thread owned by a component.
// ConsumerName names the object inside the component that handles the
// worker's events.
type WorkerThreadEntry struct {
	Name         string
	ConsumerName string
	Timeout      time.Duration
}

func (e *WorkerThreadEntry) entryKey() string { return e.Name }

// IsValid returns true if the worker thread and its consumer are named.
func (e *WorkerThreadEntry) IsValid() bool {
	return e != invalidWorker && e.Name != "" && e.ConsumerName != ""
}

// ComponentEntry describes one component instance.
type ComponentEntry struct {
	RoleName   string
	ThreadName string
	Create     CreateFunc
	Delete     DeleteFunc

	// Data is handed to Create through the entry. It is opaque to the
	// registry.
	Data any

	Services     ServiceList
	Dependencies DependencyList
	Workers      WorkerThreadList
}

func (e *ComponentEntry) entryKey() string { return e.RoleName }

// IsValid returns true if the component has a role name.
func (e *ComponentEntry) IsValid() bool {
	return e != invalidComponent && e.RoleName != ""
}

// AddSupportedService declares that the component implements name. An
// existing entry with the same name is returned unchanged.
func (e *ComponentEntry) AddSupportedService(name string, ver version.Version) *ServiceEntry {
	if e == invalidComponent {
		return invalidService
	}
	return e.Services.add(&ServiceEntry{Name: name, Version: ver})
}

// AddDependencyService declares that the component consumes the services of
// role.
func (e *ComponentEntry) AddDependencyService(role string) *DependencyEntry {
	if e == invalidComponent {
		return invalidDependency
	}
	return e.Dependencies.add(&DependencyEntry{RoleName: role})
}

// AddWorkerThread declares a worker thread owned by the component.
func (e *ComponentEntry) AddWorkerThread(name, consumer string, timeout time.Duration) *WorkerThreadEntry {
	if e == invalidComponent {
		return invalidWorker
	}
	return e.Workers.add(&WorkerThreadEntry{Name: name, ConsumerName: consumer, Timeout: timeout})
}

// ImplementsService returns true if the component declares name.
func (e *ComponentEntry) ImplementsService(name string) bool {
	return e.Services.Has(name)
}

// ThreadEntry describes a dispatcher thread and the components it hosts.
// Timeout is the watchdog timeout of the thread; zero disables it.
type ThreadEntry struct {
	Name       string
	Timeout    time.Duration
	Components ComponentList
}

func (e *ThreadEntry) entryKey() string { return e.Name }

// IsValid returns true if the thread has a name.
func (e *ThreadEntry) IsValid() bool {
	return e != invalidThread && e.Name != ""
}

// AddComponent adds a component to the thread. An existing component with
// the same role name is returned unchanged.
func (e *ThreadEntry) AddComponent(role string, create CreateFunc, del DeleteFunc) *ComponentEntry {
	if e == invalidThread {
		return invalidComponent
	}
	return e.Components.add(&ComponentEntry{
		RoleName:   role,
		ThreadName: e.Name,
		Create:     create,
		Delete:     del,
	})
}

// Invalid entries returned by lookups. They must not be modified; builder
// methods called on them are no-ops.
var (
	invalidService    = &ServiceEntry{}
	invalidDependency = &DependencyEntry{}
	invalidWorker     = &WorkerThreadEntry{}
	invalidComponent  = &ComponentEntry{}
	invalidThread     = &ThreadEntry{}
)

func init() {
	invalidComponent.Services.sealed = true
	invalidComponent.Dependencies.sealed = true
	invalidComponent.Workers.sealed = true
	invalidThread.Components.sealed = true
}

// InvalidServiceEntry returns the invalid service entry.
func InvalidServiceEntry() *ServiceEntry { return invalidService }

// InvalidDependencyEntry returns the invalid dependency entry.
func InvalidDependencyEntry() *DependencyEntry { return invalidDependency }

// InvalidWorkerThreadEntry returns the invalid worker thread entry.
func InvalidWorkerThreadEntry() *WorkerThreadEntry { return invalidWorker }

// InvalidComponentEntry returns the invalid component entry.
func InvalidComponentEntry() *ComponentEntry { return invalidComponent }

// InvalidThreadEntry returns the invalid thread entry.
func InvalidThreadEntry() *ThreadEntry { return invalidThread }

// ServiceList is the list of services a component implements.
type ServiceList struct {
	entryList[ServiceEntry, *ServiceEntry]
}

// Add appends e unless a service with the same name exists. Lists of an invalid
// component are never modified.
func (l *ServiceList) Add(e ServiceEntry) *ServiceEntry {
	if l.sealed {
		return invalidService
	}
	return l.add(&e)
}

// Get returns the service named name, or InvalidServiceEntry().
func (l *ServiceList) Get(name string) *ServiceEntry {
	if e, ok := l.get(name); ok {
		return e
	}
	return invalidService
}

// At returns the i-th service, or InvalidServiceEntry().
func (l *ServiceList) At(i int) *ServiceEntry {
	if e, ok := l.at(i); ok {
		return e
	}
	return invalidService
}

// DependencyList is the list of roles a component consumes.
type DependencyList struct {
	entryList[DependencyEntry, *DependencyEntry]
}

// Add appends e unless a dependency on the same role exists. Lists of an invalid
// component are never modified.
func (l *DependencyList) Add(e DependencyEntry) *DependencyEntry {
	if l.sealed {
		return invalidDependency
	}
	return l.add(&e)
}

// Get returns the dependency on role, or InvalidDependencyEntry().
func (l *DependencyList) Get(role string) *DependencyEntry {
	if e, ok := l.get(role); ok {
		return e
	}
	return invalidDependency
}

// At returns the i-th dependency, or InvalidDependencyEntry().
func (l *DependencyList) At(i int) *DependencyEntry {
	if e, ok := l.at(i); ok {
		return e
	}
	return invalidDependency
}

// WorkerThreadList is the list of worker threads a component owns.
type WorkerThreadList struct {
	entryList[WorkerThreadEntry, *WorkerThreadEntry]
}

// Add appends e unless a worker thread with the same name exists. Lists of an invalid
// component are never modified.
func (l *WorkerThreadList) Add(e WorkerThreadEntry) *WorkerThreadEntry {
	if l.sealed {
		return invalidWorker
	}
	return l.add(&e)
}

// Get returns the worker thread named name, or InvalidWorkerThreadEntry().
func (l *WorkerThreadList) Get(name string) *WorkerThreadEntry {
	if e, ok := l.get(name); ok {
		return e
	}
	return invalidWorker
}

// At returns the i-th worker thread, or InvalidWorkerThreadEntry().
func (l *WorkerThreadList) At(i int) *WorkerThreadEntry {
	if e, ok := l.at(i); ok {
		return e
	}
	return invalidWorker
}

// ComponentList is the list of components a thread hosts.
type ComponentList struct {
	entryList[ComponentEntry, *ComponentEntry]
}

// Get returns the component with role name role, or InvalidComponentEntry().
func (l *ComponentList) Get(role string) *ComponentEntry {
	if e, ok := l.get(role); ok {
		return e
	}
	return invalidComponent
}

// At returns the i-th component, or InvalidComponentEntry().
func (l *ComponentList) At(i int) *ComponentEntry {
	if e, ok := l.at(i); ok {
		return e
	}
	return invalidComponent
}

// ThreadList is the list of dispatcher threads of a model.
type ThreadList struct {
	entryList[ThreadEntry, *ThreadEntry]
}

// Get returns the thread named name, or InvalidThreadEntry().
func (l *ThreadList) Get(name string) *ThreadEntry {
	if e, ok := l.get(name); ok {
		return e
	}
	return invalidThread
}

// At returns the i-th thread, or InvalidThreadEntry().
func (l *ThreadList) At(i int) *ThreadEntry {
	if e, ok := l.at(i); ok {
		return e
	}
	return invalidThread
}
