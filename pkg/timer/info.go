package timer

import (
	"strconv"
)

// State is the state of a timer record.
type State uint8

const (
	// StateInvalid marks a record without timer.
	StateInvalid State = iota

	// StateIdle means the timer is not armed.
	StateIdle

	// StatePending means the timer is armed and waits for expiry.
	StatePending

	// StateExpired means the timer fired and the expiry is being delivered.
	StateExpired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePending:
		return "PENDING"
	case StateExpired:
		return "EXPIRED"
	default:
		return "INVALID"
	}
}

// ThreadID identifies a dispatcher thread.
type ThreadID uint64

// Handle identifies a registered timer inside a Manager.
type Handle uint64

// String returns the decimal handle.
func (h Handle) String() string { return strconv.FormatUint(uint64(h), 10) }

// SplitTime splits a 64-bit timestamp into its high and low words.
func SplitTime(v uint64) (high, low uint32) {
	return uint32(v >> 32), uint32(v)
}

// JoinTime is the inverse of SplitTime.
func JoinTime(high, low uint32) uint64 {
	return uint64(high)<<32 | uint64(low)
}

// Info is the record of one timer. It is not safe for concurrent use.
type Info struct {
	timer     Timer
	handle    Handle
	owner     ThreadID
	startedAt uint64
	firedAt   uint64
	state     State
}

// NewInfo creates a record in Idle state, or Invalid if t is nil.
func NewInfo(t Timer, handle Handle, owner ThreadID) *Info {
	info := &Info{timer: t, handle: handle, owner: owner, state: StateIdle}
	if t == nil {
		info.state = StateInvalid
	}
	return info
}

// Timer returns the timer object.
func (i *Info) Timer() Timer { return i.timer }

// Handle returns the handle.
func (i *Info) Handle() Handle { return i.handle }

// OwnerThread returns the id of the thread allowed to start the timer.
func (i *Info) OwnerThread() ThreadID { return i.owner }

// StartedAt returns the first start time in nanoseconds, or 0.
func (i *Info) StartedAt() uint64 { return i.startedAt }

// FiredAt returns the last expiry time in nanoseconds, or 0.
func (i *Info) FiredAt() uint64 { return i.firedAt }

// State returns the record state.
func (i *Info) State() State { return i.state }

// IsValid returns true if the record has a timer.
func (i *Info) IsValid() bool { return i.state != StateInvalid }

// CanStartTimer returns true if the record is Idle and the timer can start.
func (i *Info) CanStartTimer() bool {
	return i.state == StateIdle && i.timer.CanStart()
}

// IsTimerActive returns true if the record is armed or expired and the
// timer is still running.
func (i *Info) IsTimerActive() bool {
	return i.state != StateIdle && i.state != StateInvalid && i.timer.IsActive()
}

// IsTimerExpired moves a Pending record to Expired and stores the fire time.
// In any other state it returns false and changes nothing.
func (i *Info) IsTimerExpired(high, low uint32) bool {
	if i.state != StatePending {
		return false
	}
	i.state = StateExpired
	i.firedAt = JoinTime(high, low)
	return true
}

// TimerStarting moves an Idle record to Pending. The first start time is
// recorded once.
func (i *Info) TimerStarting(now uint64) bool {
	if i.state != StateIdle {
		return false
	}
	i.state = StatePending
	if i.startedAt == 0 {
		i.startedAt = now
	}
	return true
}

// TimerRestarted moves an Expired record back to Pending.
func (i *Info) TimerRestarted() bool {
	if i.state != StateExpired {
		return false
	}
	i.state = StatePending
	return true
}

// TimerStopped moves the record to Idle.
func (i *Info) TimerStopped() {
	if i.state != StateInvalid {
		i.state = StateIdle
	}
}
