package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Log(Event{
		Timestamp:  time.Now(),
		InstanceID: "router-1",
		Layer:      LayerRouter,
		Category:   CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntityStub,
			Address:  "S/1.0.0/Public/main/T/1",
			NewState: "CONNECTED",
		},
	})
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if decoded.InstanceID != "router-1" {
		t.Errorf("InstanceID: got %q, want %q", decoded.InstanceID, "router-1")
	}
	if decoded.StateChange == nil || decoded.StateChange.Entity != StateEntityStub {
		t.Errorf("StateChange = %+v", decoded.StateChange)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test"+FileExtension)

	for i, id := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger %d failed: %v", i, err)
		}
		logger.Log(Event{Timestamp: time.Now(), InstanceID: id})
		logger.Close()
	}

	events := readAll(t, path, Filter{})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].InstanceID != "first" || events[1].InstanceID != "second" {
		t.Errorf("events out of order: %q, %q", events[0].InstanceID, events[1].InstanceID)
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				logger.Log(Event{Timestamp: time.Now(), Layer: LayerTimer, Timer: &TimerEvent{Handle: uint64(i)}})
			}
		}()
	}
	wg.Wait()
	logger.Close()

	if got := len(readAll(t, path, Filter{})); got != goroutines*perGoroutine {
		t.Errorf("got %d events, want %d", got, goroutines*perGoroutine)
	}
	if logger.Dropped() != 0 {
		t.Errorf("Dropped = %d, want 0", logger.Dropped())
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test"+FileExtension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Ignored after close.
	logger.Log(Event{Timestamp: time.Now()})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d, want 0", info.Size())
	}
}

func TestNewFileLoggerBadPath(t *testing.T) {
	if _, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "x.blog")); err == nil {
		t.Error("NewFileLogger should fail for a missing directory")
	}
}

func readAll(t *testing.T, path string, filter Filter) []Event {
	t.Helper()

	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var events []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, event)
	}
}
