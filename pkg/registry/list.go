package registry

// keyed is implemented by every entry pointer type.
type keyed interface {
	entryKey() string
}

// entryList is an insertion-ordered list of entries with unique keys. A
// sealed list belongs to an invalid entry and ignores mutation.
type entryList[T any, P interface {
	*T
	keyed
}] struct {
	items  []P
	sealed bool
}

// Len returns the number of entries.
func (l *entryList[T, P]) Len() int { return len(l.items) }

// Find returns the index of the entry named name, or -1.
func (l *entryList[T, P]) Find(name string) int {
	for i, e := range l.items {
		if e.entryKey() == name {
			return i
		}
	}
	return -1
}

// Has returns true if an entry named name exists.
func (l *entryList[T, P]) Has(name string) bool { return l.Find(name) >= 0 }

// Remove deletes the entry named name. It returns false if absent or if
// the list belongs to an invalid entry.
func (l *entryList[T, P]) Remove(name string) bool {
	if l.sealed {
		return false
	}
	i := l.Find(name)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

func (l *entryList[T, P]) at(i int) (P, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

func (l *entryList[T, P]) get(name string) (P, bool) {
	return l.at(l.Find(name))
}

// add appends e unless an entry with the same key exists, in which case the
// existing entry is returned.
func (l *entryList[T, P]) add(e P) P {
	if existing, ok := l.get(e.entryKey()); ok {
		return existing
	}
	l.items = append(l.items, e)
	return e
}

// All returns the entries in insertion order.
func (l *entryList[T, P]) All() []P {
	out := make([]P, len(l.items))
	copy(out, l.items)
	return out
}
