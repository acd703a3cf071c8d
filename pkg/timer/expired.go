package timer

// ExpiredInfo records one expiry.
type ExpiredInfo struct {
	Timer     Timer
	FiredHigh uint32
	FiredLow  uint32
}

// FiredAt returns the expiry time in nanoseconds.
func (e ExpiredInfo) FiredAt() uint64 { return JoinTime(e.FiredHigh, e.FiredLow) }

// Equal compares the timer identity only.
func (e ExpiredInfo) Equal(other ExpiredInfo) bool { return e.Timer == other.Timer }

// ExpiredTimers is an append-ordered queue of expiries. It is not safe for
// concurrent use.
type ExpiredTimers struct {
	items []ExpiredInfo
}

// Push appends e.
func (q *ExpiredTimers) Push(e ExpiredInfo) { q.items = append(q.items, e) }

// PushUnique appends e unless its timer is already queued. It returns true
// if e was appended.
func (q *ExpiredTimers) PushUnique(e ExpiredInfo) bool {
	if q.Contains(e.Timer) {
		return false
	}
	q.Push(e)
	return true
}

func (q *ExpiredTimers) index(t Timer) int {
	for i, e := range q.items {
		if e.Timer == t {
			return i
		}
	}
	return -1
}

// Contains returns true if t is queued.
func (q *ExpiredTimers) Contains(t Timer) bool { return q.index(t) >= 0 }

// Remove deletes the first record of t. It returns false if t is not
// queued.
func (q *ExpiredTimers) Remove(t Timer) bool {
	_, ok := q.Take(t)
	return ok
}

// Take removes and returns the first record of t.
func (q *ExpiredTimers) Take(t Timer) (ExpiredInfo, bool) {
	i := q.index(t)
	if i < 0 {
		return ExpiredInfo{}, false
	}
	e := q.items[i]
	q.items = append(q.items[:i], q.items[i+1:]...)
	return e, true
}

// RemoveAll deletes every record of t and returns how many were removed.
func (q *ExpiredTimers) RemoveAll(t Timer) int {
	kept := q.items[:0]
	for _, e := range q.items {
		if e.Timer != t {
			kept = append(kept, e)
		}
	}
	n := len(q.items) - len(kept)
	clear(q.items[len(kept):])
	q.items = kept
	return n
}

// PopFirst removes and returns the oldest record.
func (q *ExpiredTimers) PopFirst() (ExpiredInfo, bool) {
	if len(q.items) == 0 {
		return ExpiredInfo{}, false
	}
	e := q.items[0]
	q.items[0] = ExpiredInfo{}
	q.items = q.items[1:]
	return e, true
}

// Len returns the number of queued records.
func (q *ExpiredTimers) Len() int { return len(q.items) }

// Clear empties the queue.
func (q *ExpiredTimers) Clear() { q.items = nil }
