package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mash-protocol/svcbus/pkg/log"
)

// FilterOptions holds the raw selection flags shared by view and filter.
type FilterOptions struct {
	Output     string
	InstanceID string
	Thread     string
	Cookie     string
	Address    string
	TimeStart  string
	TimeEnd    string
	Layer      string
	Direction  string
	Category   string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		InstanceID: o.InstanceID,
		Thread:     o.Thread,
		Address:    o.Address,
	}

	if o.Cookie != "" {
		c, err := strconv.ParseUint(o.Cookie, 0, 64)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid cookie %q: %w", o.Cookie, err)
		}
		filter.Cookie = &c
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Layer != "" {
		l, err := parseLayer(o.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}

	if o.Direction != "" {
		d, err := parseDirection(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}

	if o.Category != "" {
		c, err := parseCategory(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// RunFilter copies the events of path that match opts into opts.Output and
// returns how many were written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}
	if n := logger.Dropped(); n > 0 {
		return count, fmt.Errorf("%d events could not be written", n)
	}
	return count, nil
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "router":
		return log.LayerRouter, nil
	case "proxy":
		return log.LayerProxy, nil
	case "timer":
		return log.LayerTimer, nil
	case "wire":
		return log.LayerWire, nil
	default:
		return 0, fmt.Errorf("unknown layer: %s (valid: router, proxy, timer, wire)", s)
	}
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction: %s (valid: in, out)", s)
	}
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "timer":
		return log.CategoryTimer, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category: %s (valid: message, state, timer, error)", s)
	}
}
