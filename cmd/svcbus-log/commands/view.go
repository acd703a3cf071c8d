// Package commands implements the svcbus-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/svcbus/pkg/log"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [inst:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format(timeLayout)

	dir := "-"
	if event.Message != nil {
		dir = event.Direction.String()
	}

	fmt.Fprintf(w, "%s [inst:%s] %-3s %s %s", ts, shortenID(event.InstanceID), dir, event.Layer.String(), typeLabel(event))
	if event.Thread != "" {
		fmt.Fprintf(w, " thread=%s", event.Thread)
	}
	if event.Cookie != 0 {
		fmt.Fprintf(w, " cookie=%d", event.Cookie)
	}
	fmt.Fprintln(w)

	switch {
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Timer != nil:
		formatTimerDetails(w, event.Timer)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func typeLabel(event log.Event) string {
	switch {
	case event.Message != nil:
		return event.Message.Type.String()
	case event.StateChange != nil:
		return "State"
	case event.Timer != nil:
		return "Timer"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of an instance ID.
func shortenID(id string) string {
	if id == "" {
		return "--------"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  MessageID: %s\n", msg.MessageID)
	if msg.Sequence != 0 {
		fmt.Fprintf(w, "  Sequence: %d\n", msg.Sequence)
	}
	if msg.Source != "" {
		fmt.Fprintf(w, "  Source: %s\n", msg.Source)
	}
	if msg.Target != "" {
		fmt.Fprintf(w, "  Target: %s\n", msg.Target)
	}
	if msg.Result != nil {
		fmt.Fprintf(w, "  Result: %s\n", msg.Result)
	}
	if msg.PayloadSize > 0 {
		fmt.Fprintf(w, "  Payload: %d bytes\n", msg.PayloadSize)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	fmt.Fprintf(w, "  Address: %s\n", sc.Address)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  Transition: %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  State: %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatTimerDetails(w io.Writer, te *log.TimerEvent) {
	fmt.Fprintf(w, "  Timer: %s (handle %d, owner %d)\n", te.Name, te.Handle, te.Owner)
	fmt.Fprintf(w, "  Action: %s\n", te.Action)
	if te.FiredAt != 0 {
		fmt.Fprintf(w, "  FiredAt: %d\n", te.FiredAt)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", e.Layer)
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// RunView reads the trace file at path and writes the events matching
// filter to output.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}
