package registry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/svcbus/pkg/version"
)

var v1 = version.New(1, 0, 0)

// buildModel creates two threads hosting three components.
func buildModel() *Model {
	m := NewModel("TestProcess")

	main := m.AddThread("MainThread")
	hello := main.AddComponent("hello", nil, nil)
	hello.AddSupportedService("HelloWorld", v1)
	hello.AddSupportedService("Clock", version.New(2, 1, 0))
	hello.AddWorkerThread("HelloWorker", "HelloConsumer", time.Second)

	client := main.AddComponent("client", nil, nil)
	client.AddDependencyService("hello")
	client.AddDependencyService("remote")

	second := m.AddThread("SecondThread")
	second.AddComponent("alarm", nil, nil).AddSupportedService("HelloWorld", v1)

	return m
}

func TestBuilderIsIdempotent(t *testing.T) {
	m := buildModel()

	main := m.AddThread("MainThread")
	assert.Same(t, m.Thread("MainThread"), main)
	assert.Equal(t, 2, m.Threads.Len())

	hello := main.AddComponent("hello", nil, nil)
	assert.Equal(t, 2, main.Components.Len())

	svc := hello.AddSupportedService("HelloWorld", version.New(9, 0, 0))
	assert.Equal(t, v1, svc.Version, "existing entry returned unchanged")
	assert.Equal(t, 2, hello.Services.Len())

	hello.AddWorkerThread("HelloWorker", "Other", 0)
	assert.Equal(t, 1, hello.Workers.Len())
	assert.Equal(t, "HelloConsumer", hello.Workers.Get("HelloWorker").ConsumerName)

	_, client := m.FindComponent("client")
	client.AddDependencyService("hello")
	assert.Equal(t, 2, client.Dependencies.Len())
}

func TestFindAndGet(t *testing.T) {
	m := buildModel()

	assert.Equal(t, 0, m.FindThread("MainThread"))
	assert.Equal(t, 1, m.FindThread("SecondThread"))
	assert.Equal(t, -1, m.FindThread("Nope"))
	assert.Same(t, InvalidThreadEntry(), m.Thread("Nope"))
	assert.False(t, m.Thread("Nope").IsValid())

	main := m.Thread("MainThread")
	assert.Equal(t, 1, main.Components.Find("client"))
	assert.Equal(t, -1, main.Components.Find("alarm"))
	assert.Same(t, InvalidComponentEntry(), main.Components.Get("alarm"))
	assert.Same(t, InvalidComponentEntry(), main.Components.At(5))

	hello := main.Components.Get("hello")
	assert.Equal(t, "MainThread", hello.ThreadName)
	assert.Equal(t, 0, hello.Services.Find("HelloWorld"))
	assert.Same(t, InvalidServiceEntry(), hello.Services.Get("Nope"))
	assert.Same(t, InvalidServiceEntry(), hello.Services.At(-1))
	assert.Same(t, InvalidWorkerThreadEntry(), hello.Workers.Get("Nope"))
	assert.Same(t, InvalidWorkerThreadEntry(), hello.Workers.At(1))
	assert.Same(t, InvalidDependencyEntry(), hello.Dependencies.Get("x"))
	assert.Same(t, InvalidDependencyEntry(), hello.Dependencies.At(0))
	assert.Same(t, InvalidThreadEntry(), m.Threads.At(2))
}

func TestFindComponent(t *testing.T) {
	m := buildModel()

	thread, comp := m.FindComponent("alarm")
	assert.Equal(t, "SecondThread", thread.Name)
	assert.Equal(t, "alarm", comp.RoleName)
	assert.True(t, m.HasComponent("client"))

	thread, comp = m.FindComponent("ghost")
	assert.False(t, thread.IsValid())
	assert.False(t, comp.IsValid())
	assert.False(t, m.HasComponent("ghost"))
}

func TestComponentsOfService(t *testing.T) {
	m := buildModel()

	comps := m.ComponentsOfService("HelloWorld")
	require.Len(t, comps, 2)
	assert.Equal(t, "hello", comps[0].RoleName)
	assert.Equal(t, "alarm", comps[1].RoleName)
	assert.Empty(t, m.ComponentsOfService("Nope"))
	assert.Equal(t, 3, m.ComponentCount())
}

func TestSetComponentData(t *testing.T) {
	m := buildModel()

	assert.True(t, m.SetComponentData("client", 42))
	_, c := m.FindComponent("client")
	assert.Equal(t, 42, c.Data)

	assert.False(t, m.SetComponentData("ghost", 1))
	assert.Nil(t, InvalidComponentEntry().Data)
}

func TestInvalidEntriesAreKept(t *testing.T) {
	m := NewModel("x")
	th := m.AddThread("")
	assert.False(t, th.IsValid())
	assert.Equal(t, 1, m.Threads.Len())

	c := m.AddThread("T").AddComponent("", nil, nil)
	assert.False(t, c.IsValid())

	assert.False(t, (&ServiceEntry{Name: "S"}).IsValid())
	assert.False(t, (&WorkerThreadEntry{Name: "W"}).IsValid())
	assert.False(t, (&DependencyEntry{}).IsValid())
}

func TestBuilderOnInvalidEntriesIsNoop(t *testing.T) {
	m := NewModel("x")

	comp := m.Thread("missing").AddComponent("role", nil, nil)
	assert.Same(t, InvalidComponentEntry(), comp)
	assert.Same(t, InvalidServiceEntry(), comp.AddSupportedService("S", v1))
	assert.Same(t, InvalidDependencyEntry(), comp.AddDependencyService("d"))
	assert.Same(t, InvalidWorkerThreadEntry(), comp.AddWorkerThread("w", "c", 0))

	assert.Equal(t, 0, InvalidThreadEntry().Components.Len())
	assert.Equal(t, 0, InvalidComponentEntry().Services.Len())
}

func TestListAddOnInvalidEntriesIsNoop(t *testing.T) {
	m := buildModel()

	missing := m.Thread("MainThread").Components.Get("missing")
	require.Same(t, InvalidComponentEntry(), missing)

	assert.Same(t, InvalidServiceEntry(), missing.Services.Add(ServiceEntry{Name: "HelloWorld", Version: v1}))
	assert.Same(t, InvalidDependencyEntry(), missing.Dependencies.Add(DependencyEntry{RoleName: "hello"}))
	assert.Same(t, InvalidWorkerThreadEntry(), missing.Workers.Add(WorkerThreadEntry{Name: "W", ConsumerName: "C"}))

	again := m.Thread("MainThread").Components.Get("other")
	assert.Equal(t, 0, again.Services.Len())
	assert.Equal(t, 0, again.Dependencies.Len())
	assert.Equal(t, 0, again.Workers.Len())
	assert.False(t, again.ImplementsService("HelloWorld"))
	assert.False(t, m.Thread("nowhere").Components.Remove("hello"))
	assert.Equal(t, 0, InvalidThreadEntry().Components.Len())

	hello := m.Thread("MainThread").Components.Get("hello")
	assert.Equal(t, 2, hello.Services.Len())
	assert.Len(t, m.ComponentsOfService("HelloWorld"), 2)
}

func TestListRemove(t *testing.T) {
	m := buildModel()
	hello := m.Thread("MainThread").Components.Get("hello")

	assert.True(t, hello.Services.Remove("Clock"))
	assert.False(t, hello.Services.Remove("Clock"))
	assert.Equal(t, 1, hello.Services.Len())
	assert.False(t, hello.ImplementsService("Clock"))
}

func TestValidate(t *testing.T) {
	require.NoError(t, buildModel().Validate())

	tests := []struct {
		name   string
		mutate func(m *Model)
		want   string
	}{
		{"unnamed thread", func(m *Model) { m.AddThread("") }, "has no name"},
		{"unnamed component", func(m *Model) { m.Thread("MainThread").AddComponent("", nil, nil) }, "no role name"},
		{"duplicate role across threads", func(m *Model) { m.Thread("SecondThread").AddComponent("hello", nil, nil) }, `role "hello"`},
		{"same service twice in a thread", func(m *Model) {
			m.Thread("MainThread").Components.Get("client").AddSupportedService("HelloWorld", v1)
		}, `service "HelloWorld"`},
		{"invalid service version", func(m *Model) {
			m.Thread("SecondThread").Components.Get("alarm").AddSupportedService("Bad", version.Zero)
		}, "invalid service"},
		{"empty dependency", func(m *Model) {
			m.Thread("SecondThread").Components.Get("alarm").AddDependencyService("")
		}, "dependency without role"},
		{"worker without consumer", func(m *Model) {
			m.Thread("SecondThread").Components.Get("alarm").AddWorkerThread("W", "", 0)
		}, "needs a name and a consumer"},
		{"duplicate worker", func(m *Model) {
			m.Thread("SecondThread").Components.Get("alarm").AddWorkerThread("HelloWorker", "C", 0)
		}, `worker thread "HelloWorker" is owned`},
		{"worker collides with thread", func(m *Model) {
			m.Thread("SecondThread").Components.Get("alarm").AddWorkerThread("MainThread", "C", 0)
		}, "collides with a dispatcher thread"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModel()
			tt.mutate(m)

			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidModel))
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestWalk(t *testing.T) {
	m := buildModel()

	var roles []string
	require.NoError(t, m.Walk(func(th *ThreadEntry, c *ComponentEntry) error {
		roles = append(roles, th.Name+"/"+c.RoleName)
		return nil
	}))
	assert.Equal(t, []string{"MainThread/hello", "MainThread/client", "SecondThread/alarm"}, roles)

	stop := errors.New("stop")
	calls := 0
	err := m.Walk(func(*ThreadEntry, *ComponentEntry) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
