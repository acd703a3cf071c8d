package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/svcbus/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Instances         map[string]*InstanceStats
	Threads           map[string]int
	Cookies           map[uint64]int
	TimerActions      map[log.TimerAction]int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// InstanceStats holds statistics for a single router or timer manager.
type InstanceStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	StateChanges int
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Instances:         make(map[string]*InstanceStats),
		Threads:           make(map[string]int),
		Cookies:           make(map[uint64]int),
		TimerActions:      make(map[log.TimerAction]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		if event.Message != nil {
			stats.EventsByDirection[event.Direction]++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		inst, ok := stats.Instances[event.InstanceID]
		if !ok {
			inst = &InstanceStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Instances[event.InstanceID] = inst
		}
		inst.Events++
		if event.Timestamp.After(inst.LastSeen) {
			inst.LastSeen = event.Timestamp
		}
		if event.StateChange != nil {
			inst.StateChanges++
		}

		if event.Thread != "" {
			stats.Threads[event.Thread]++
		}
		if event.Cookie != 0 {
			stats.Cookies[event.Cookie]++
		}
		if event.Timer != nil {
			stats.TimerActions[event.Timer.Action]++
		}
		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== svcbus Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerRouter, log.LayerProxy, log.LayerTimer, log.LayerWire} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryTimer, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.EventsByDirection) > 0 {
		fmt.Fprintln(w, "Messages by Direction:")
		for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
			if count := stats.EventsByDirection[dir]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.TimerActions) > 0 {
		fmt.Fprintln(w, "Timer Actions:")
		for _, a := range []log.TimerAction{log.TimerStarted, log.TimerExpired, log.TimerStopped, log.TimerDropped} {
			if count := stats.TimerActions[a]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", a.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.Threads) > 0 {
		names := make([]string, 0, len(stats.Threads))
		for name := range stats.Threads {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "Threads: %d\n", len(names))
		for _, name := range names {
			fmt.Fprintf(w, "  %-20s %d\n", name, stats.Threads[name])
		}
		fmt.Fprintln(w)
	}

	if len(stats.Cookies) > 0 {
		cookies := make([]uint64, 0, len(stats.Cookies))
		for c := range stats.Cookies {
			cookies = append(cookies, c)
		}
		sort.Slice(cookies, func(i, j int) bool { return cookies[i] < cookies[j] })

		fmt.Fprintf(w, "Connections: %d\n", len(cookies))
		for _, c := range cookies {
			fmt.Fprintf(w, "  cookie %-12d %d\n", c, stats.Cookies[c])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Instances: %d\n", len(stats.Instances))
	if len(stats.Instances) > 0 {
		type instInfo struct {
			id    string
			stats *InstanceStats
		}
		insts := make([]instInfo, 0, len(stats.Instances))
		for id, is := range stats.Instances {
			insts = append(insts, instInfo{id, is})
		}
		sort.Slice(insts, func(i, j int) bool {
			return insts[i].stats.FirstSeen.Before(insts[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, in := range insts {
			duration := in.stats.LastSeen.Sub(in.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(in.id), in.stats.Events, duration)
			if in.stats.StateChanges > 0 {
				fmt.Fprintf(w, "             State changes: %d\n", in.stats.StateChanges)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
