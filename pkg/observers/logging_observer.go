// Package observers provides observers for monitoring state machine changes
package observers

import (
	"context"
	"log/slog"

	"github.com/anggasct/fsm"
)

// LoggingObserver logs current state changes through slog
type LoggingObserver[S comparable] struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLoggingObserver creates a new logging observer writing to handler. Changes
// are logged at level; observer failures are always logged at error level.
func NewLoggingObserver[S comparable](handler slog.Handler, level slog.Level, prefix string) *LoggingObserver[S] {
	logger := slog.New(handler)
	if prefix != "" {
		logger = logger.WithGroup(prefix)
	}
	return &LoggingObserver[S]{
		logger: logger,
		level:  level,
	}
}

// NewDefaultLoggingObserver creates a logging observer on the default slog
// handler at info level
func NewDefaultLoggingObserver[S comparable]() *LoggingObserver[S] {
	return NewLoggingObserver[S](slog.Default().Handler(), slog.LevelInfo, "StateMachine")
}

// OnChange logs a current state change
func (o *LoggingObserver[S]) OnChange(change fsm.Change[S]) {
	attrs := []slog.Attr{
		slog.String("id", change.ID),
		slog.String("kind", change.Kind.String()),
		slog.Any("to", change.To),
	}
	if change.HasFrom {
		attrs = append(attrs, slog.Any("from", change.From))
	}

	msg := "Switched state"
	if change.Kind == fsm.ChangeTeleport {
		msg = "Set current state"
	}
	o.logger.LogAttrs(context.Background(), o.level, msg, attrs...)
}

// OnError logs a failure reported by the observer manager
func (o *LoggingObserver[S]) OnError(err error) {
	o.logger.Error("Observer failed", "error", err)
}
