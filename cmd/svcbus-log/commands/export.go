package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mash-protocol/svcbus/pkg/log"
)

// RunExport exports the trace file to the specified format. An empty output
// writes to stdout.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return Export(path, format, w)
}

// Export writes the events of path to w in format (jsonl or csv).
func Export(path, format string, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"timestamp", "instance_id", "direction", "layer", "category", "thread", "cookie", "type", "message_id", "address", "detail"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return cw.Error()
}

func csvRow(event log.Event) []string {
	dir, msgID, address, detail := "", "", "", ""
	eventType := "unknown"

	switch {
	case event.Message != nil:
		eventType = event.Message.Type.String()
		dir = event.Direction.String()
		msgID = event.Message.MessageID.String()
		address = event.Message.Target
		if event.Message.Result != nil {
			detail = event.Message.Result.String()
		}
	case event.StateChange != nil:
		eventType = "state"
		address = event.StateChange.Address
		detail = event.StateChange.NewState
	case event.Timer != nil:
		eventType = "timer"
		address = event.Timer.Name
		detail = event.Timer.Action.String()
	case event.Error != nil:
		eventType = "error"
		detail = event.Error.Message
	}

	cookie := ""
	if event.Cookie != 0 {
		cookie = strconv.FormatUint(event.Cookie, 10)
	}

	return []string{
		event.Timestamp.UTC().Format(timeLayout),
		event.InstanceID,
		dir,
		event.Layer.String(),
		event.Category.String(),
		event.Thread,
		cookie,
		eventType,
		msgID,
		address,
		detail,
	}
}
