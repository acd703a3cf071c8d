package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("instance", event.InstanceID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Thread != "" {
		attrs = append(attrs, slog.String("thread", event.Thread))
	}
	if event.Cookie != 0 {
		attrs = append(attrs, slog.Uint64("cookie", event.Cookie))
	}

	switch {
	case event.Message != nil:
		attrs = append(attrs,
			slog.String("direction", event.Direction.String()),
			slog.String("msg_id", event.Message.MessageID.String()),
			slog.String("msg_type", event.Message.Type.String()),
		)
		if event.Message.Sequence != 0 {
			attrs = append(attrs, slog.Uint64("seq", event.Message.Sequence))
		}
		if event.Message.Source != "" {
			attrs = append(attrs, slog.String("source", event.Message.Source))
		}
		if event.Message.Target != "" {
			attrs = append(attrs, slog.String("target", event.Message.Target))
		}
		if event.Message.Result != nil {
			attrs = append(attrs, slog.String("result", event.Message.Result.String()))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("address", event.StateChange.Address),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Timer != nil:
		attrs = append(attrs,
			slog.String("timer", event.Timer.Name),
			slog.Uint64("handle", event.Timer.Handle),
			slog.Uint64("owner", event.Timer.Owner),
			slog.String("action", event.Timer.Action.String()),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
