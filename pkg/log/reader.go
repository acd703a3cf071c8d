package log

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering log events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// InstanceID filters by exact instance ID match.
	InstanceID string

	// Direction filters message events by direction.
	Direction *Direction

	// Layer filters by layer.
	Layer *Layer

	// Category filters by event category.
	Category *Category

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time

	// Thread filters by dispatcher thread name.
	Thread string

	// Cookie filters by connection cookie.
	Cookie *uint64

	// Address filters events that mention an address path containing this
	// substring.
	Address string
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.InstanceID != "" && event.InstanceID != f.InstanceID {
		return false
	}
	if f.Direction != nil && (event.Message == nil || event.Direction != *f.Direction) {
		return false
	}
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.Thread != "" && event.Thread != f.Thread {
		return false
	}
	if f.Cookie != nil && event.Cookie != *f.Cookie {
		return false
	}
	if f.Address != "" && !mentionsAddress(event, f.Address) {
		return false
	}
	return true
}

func mentionsAddress(event Event, sub string) bool {
	switch {
	case event.Message != nil:
		return strings.Contains(event.Message.Source, sub) || strings.Contains(event.Message.Target, sub)
	case event.StateChange != nil:
		return strings.Contains(event.StateChange.Address, sub)
	default:
		return false
	}
}

// Reader reads events from a CBOR-encoded log file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all events from the specified log file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads events matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event that matches the filter.
// Returns io.EOF when no more events are available.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
