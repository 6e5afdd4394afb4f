package sdk

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologHooks adapts a zerolog logger into TelemetryHooks, wiring SDK log
// entries into the caller's structured log stream.
func ZerologHooks(logger zerolog.Logger) TelemetryHooks {
	return TelemetryHooks{
		OnLogEntry: func(_ context.Context, entry LogEntry) {
			var ev *zerolog.Event
			switch entry.Level {
			case LogLevelError:
				ev = logger.Error()
			default:
				ev = logger.Debug()
			}
			ev.Fields(entry.Fields).Msg(entry.Message)
		},
	}
}
