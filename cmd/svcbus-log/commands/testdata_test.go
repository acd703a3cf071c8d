package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mash-protocol/svcbus/pkg/log"
	"github.com/mash-protocol/svcbus/pkg/msgid"
	"github.com/mash-protocol/svcbus/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test"+log.FileExtension)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

const (
	routerID = "3f2a9c1e-0000-4000-8000-000000000001"
	timerID  = "7b1d4e22-0000-4000-8000-000000000002"
)

// sampleEvents returns one event of every kind, one second apart.
func sampleEvents(base time.Time) []log.Event {
	failed := wire.ResultUnavailable
	return []log.Event{
		{
			Timestamp:  base,
			InstanceID: routerID,
			Layer:      log.LayerRouter,
			Category:   log.CategoryState,
			Thread:     "MainThread",
			Cookie:     256,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityProxy,
				Address:  "HelloWorld/1.0.0/MainThread/client",
				OldState: "PENDING",
				NewState: "CONNECTED",
			},
		},
		{
			Timestamp:  base.Add(time.Second),
			InstanceID: routerID,
			Direction:  log.DirectionOut,
			Layer:      log.LayerProxy,
			Category:   log.CategoryMessage,
			Thread:     "MainThread",
			Cookie:     256,
			Message: &log.MessageEvent{
				Type:        msgid.DataTypeRequest,
				MessageID:   msgid.RequestFirst + 3,
				Sequence:    42,
				Source:      "HelloWorld/1.0.0/MainThread/client",
				Target:      "HelloWorld/1.0.0/hello",
				PayloadSize: 12,
			},
		},
		{
			Timestamp:  base.Add(2 * time.Second),
			InstanceID: routerID,
			Direction:  log.DirectionIn,
			Layer:      log.LayerProxy,
			Category:   log.CategoryMessage,
			Thread:     "MainThread",
			Cookie:     256,
			Message: &log.MessageEvent{
				Type:      msgid.DataTypeResponse,
				MessageID: msgid.ResponseFirst + 3,
				Sequence:  42,
				Target:    "HelloWorld/1.0.0/MainThread/client",
				Result:    &failed,
			},
		},
		{
			Timestamp:  base.Add(3 * time.Second),
			InstanceID: timerID,
			Layer:      log.LayerTimer,
			Category:   log.CategoryTimer,
			Thread:     "SecondThread",
			Timer: &log.TimerEvent{
				Name:    "alarm",
				Handle:  1,
				Owner:   2,
				Action:  log.TimerExpired,
				FiredAt: 1234,
			},
		},
		{
			Timestamp:  base.Add(4 * time.Second),
			InstanceID: routerID,
			Layer:      log.LayerWire,
			Category:   log.CategoryError,
			Cookie:     300,
			Error: &log.ErrorEventData{
				Layer:   log.LayerWire,
				Message: "truncated envelope",
				Context: "decode",
			},
		},
	}
}
