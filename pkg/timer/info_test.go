package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTimer struct{ mock.Mock }

func (m *mockTimer) Name() string           { return m.Called().String(0) }
func (m *mockTimer) Timeout() time.Duration { return m.Called().Get(0).(time.Duration) }
func (m *mockTimer) CanStart() bool         { return m.Called().Bool(0) }
func (m *mockTimer) IsActive() bool         { return m.Called().Bool(0) }
func (m *mockTimer) Started()               { m.Called() }
func (m *mockTimer) Fired()                 { m.Called() }
func (m *mockTimer) Stopped()               { m.Called() }

func TestNewInfo(t *testing.T) {
	info := NewInfo(New("t", time.Second, 1), 7, 3)
	assert.Equal(t, StateIdle, info.State())
	assert.True(t, info.IsValid())
	assert.Equal(t, Handle(7), info.Handle())
	assert.Equal(t, ThreadID(3), info.OwnerThread())
	assert.Zero(t, info.StartedAt())
	assert.Zero(t, info.FiredAt())

	invalid := NewInfo(nil, 0, 3)
	assert.Equal(t, StateInvalid, invalid.State())
	assert.False(t, invalid.IsValid())
	assert.False(t, invalid.IsTimerActive())
	assert.False(t, invalid.TimerStarting(1))
	invalid.TimerStopped()
	assert.Equal(t, StateInvalid, invalid.State())
}

func TestCanStartTimer(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		canStart bool
		want     bool
	}{
		{"idle and startable", StateIdle, true, true},
		{"idle but timer refuses", StateIdle, false, false},
		{"pending", StatePending, true, false},
		{"expired", StateExpired, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := &mockTimer{}
			mt.On("CanStart").Return(tt.canStart).Maybe()

			info := NewInfo(mt, 1, 1)
			info.state = tt.state
			assert.Equal(t, tt.want, info.CanStartTimer())
		})
	}
}

func TestIsTimerActive(t *testing.T) {
	mt := &mockTimer{}
	mt.On("IsActive").Return(true)

	info := NewInfo(mt, 1, 1)
	assert.False(t, info.IsTimerActive(), "idle record is never active")

	info.TimerStarting(10)
	assert.True(t, info.IsTimerActive())
	mt.AssertNumberOfCalls(t, "IsActive", 1)
}

func TestTransitions(t *testing.T) {
	info := NewInfo(New("t", time.Second, Continuous), 1, 1)

	assert.True(t, info.TimerStarting(100))
	assert.Equal(t, StatePending, info.State())
	assert.Equal(t, uint64(100), info.StartedAt())
	assert.False(t, info.TimerStarting(200), "already pending")
	assert.False(t, info.TimerRestarted(), "only from expired")

	high, low := SplitTime(5<<32 | 9)
	assert.True(t, info.IsTimerExpired(high, low))
	assert.Equal(t, StateExpired, info.State())
	assert.Equal(t, uint64(5<<32|9), info.FiredAt())

	assert.True(t, info.TimerRestarted())
	assert.Equal(t, StatePending, info.State())

	info.TimerStopped()
	assert.Equal(t, StateIdle, info.State())

	assert.True(t, info.TimerStarting(300))
	assert.Equal(t, uint64(100), info.StartedAt(), "first start is kept")
}

func TestIsTimerExpired_Idempotent(t *testing.T) {
	info := NewInfo(New("t", time.Second, 1), 1, 1)
	info.TimerStarting(1)

	assert.True(t, info.IsTimerExpired(0, 42))
	assert.False(t, info.IsTimerExpired(0, 99), "duplicate callback")
	assert.Equal(t, uint64(42), info.FiredAt())
	assert.Equal(t, StateExpired, info.State())

	info.TimerStopped()
	assert.False(t, info.IsTimerExpired(0, 100), "callback after stop")
	assert.Equal(t, uint64(42), info.FiredAt())
	assert.Equal(t, StateIdle, info.State())
}

func TestSplitJoinTime(t *testing.T) {
	for _, v := range []uint64{0, 1, 1<<32 - 1, 1 << 32, 0xDEADBEEFCAFEBABE, ^uint64(0)} {
		high, low := SplitTime(v)
		assert.Equal(t, v, JoinTime(high, low))
	}
	high, low := SplitTime(0x0000000100000002)
	assert.Equal(t, uint32(1), high)
	assert.Equal(t, uint32(2), low)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "PENDING", StatePending.String())
	assert.Equal(t, "EXPIRED", StateExpired.String())
	assert.Equal(t, "INVALID", StateInvalid.String())
	assert.Equal(t, "INVALID", State(42).String())
}

func TestEventTimer(t *testing.T) {
	e := New("twice", time.Second, 2)
	assert.Equal(t, "twice", e.Name())
	assert.Equal(t, time.Second, e.Timeout())
	assert.True(t, e.CanStart())
	assert.False(t, e.IsActive())

	e.Started()
	assert.False(t, e.CanStart())
	assert.Equal(t, 2, e.Remaining())
	e.Fired()
	assert.True(t, e.IsActive())
	e.Fired()
	assert.False(t, e.IsActive())
	assert.True(t, e.CanStart())

	assert.Equal(t, 1, New("once", time.Second, 0).Count())
	assert.Equal(t, Continuous, New("forever", time.Second, -5).Count())
	assert.False(t, New("zero", 0, 1).CanStart())
	assert.False(t, (&Event{name: "raw", timeout: time.Second}).CanStart(), "no fire count")
	assert.True(t, New("forever", time.Second, Continuous).CanStart())

	c := New("forever", time.Second, Continuous)
	c.Started()
	for range 10 {
		c.Fired()
	}
	assert.True(t, c.IsActive())
	c.Stopped()
	assert.False(t, c.IsActive())
}
