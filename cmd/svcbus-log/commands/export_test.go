package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportToJSONL(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sampleEvents(base))

	var buf bytes.Buffer
	if err := Export(path, "jsonl", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if first["InstanceID"] != routerID {
		t.Errorf("InstanceID = %v, want %s", first["InstanceID"], routerID)
	}
	sc, ok := first["StateChange"].(map[string]any)
	if !ok {
		t.Fatalf("expected StateChange object, got %v", first["StateChange"])
	}
	if sc["NewState"] != "CONNECTED" {
		t.Errorf("NewState = %v, want CONNECTED", sc["NewState"])
	}
}

func TestExportToCSV(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sampleEvents(base))

	var buf bytes.Buffer
	if err := Export(path, "csv", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", records[0])
	}

	tests := []struct {
		row  int
		want []string
	}{
		{1, []string{"2026-03-02T09:00:00.000000Z", routerID, "", "ROUTER", "STATE", "MainThread", "256", "state", "", "HelloWorld/1.0.0/MainThread/client", "CONNECTED"}},
		{2, []string{"2026-03-02T09:00:01.000000Z", routerID, "OUT", "PROXY", "MESSAGE", "MainThread", "256", "REQUEST", "request#3", "HelloWorld/1.0.0/hello", ""}},
		{3, []string{"2026-03-02T09:00:02.000000Z", routerID, "IN", "PROXY", "MESSAGE", "MainThread", "256", "RESPONSE", "response#3", "HelloWorld/1.0.0/MainThread/client", "UNAVAILABLE"}},
		{4, []string{"2026-03-02T09:00:03.000000Z", timerID, "", "TIMER", "TIMER", "SecondThread", "", "timer", "", "alarm", "EXPIRED"}},
		{5, []string{"2026-03-02T09:00:04.000000Z", routerID, "", "WIRE", "ERROR", "", "300", "error", "", "", "truncated envelope"}},
	}
	for _, tt := range tests {
		if got := strings.Join(records[tt.row], "|"); got != strings.Join(tt.want, "|") {
			t.Errorf("row %d:\n got  %s\n want %s", tt.row, got, strings.Join(tt.want, "|"))
		}
	}
}

func TestRunExportWritesFile(t *testing.T) {
	path := createTestLogFile(t, sampleEvents(time.Now()))
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 5 {
		t.Errorf("expected 5 lines, got %d", n)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	err := Export(path, "xml", &buf)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
