package timer

import "sort"

// Table maps timers to their records. It is not safe for concurrent use.
type Table struct {
	byTimer  map[Timer]*Info
	byHandle map[Handle]*Info
	next     Handle
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byTimer:  make(map[Timer]*Info),
		byHandle: make(map[Handle]*Info),
	}
}

// Register returns the record of t, creating it for owner if absent. A nil
// timer yields an invalid record that is not stored.
func (tb *Table) Register(t Timer, owner ThreadID) *Info {
	if t == nil {
		return NewInfo(nil, 0, owner)
	}
	if info, ok := tb.byTimer[t]; ok {
		return info
	}
	tb.next++
	info := NewInfo(t, tb.next, owner)
	tb.byTimer[t] = info
	tb.byHandle[info.handle] = info
	return info
}

// Find returns the record of t.
func (tb *Table) Find(t Timer) (*Info, bool) {
	info, ok := tb.byTimer[t]
	return info, ok
}

// FindByHandle returns the record with handle h.
func (tb *Table) FindByHandle(h Handle) (*Info, bool) {
	info, ok := tb.byHandle[h]
	return info, ok
}

// Unregister removes the record of t. It returns false if t is unknown.
func (tb *Table) Unregister(t Timer) bool {
	info, ok := tb.byTimer[t]
	if !ok {
		return false
	}
	delete(tb.byTimer, t)
	delete(tb.byHandle, info.handle)
	return true
}

// Len returns the number of records.
func (tb *Table) Len() int { return len(tb.byTimer) }

// Each calls fn for every record in handle order until fn returns false.
func (tb *Table) Each(fn func(*Info) bool) {
	handles := make([]Handle, 0, len(tb.byHandle))
	for h := range tb.byHandle {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	for _, h := range handles {
		if !fn(tb.byHandle[h]) {
			return
		}
	}
}
