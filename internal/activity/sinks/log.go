// Package sinks provides activity.Sink implementations.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/activity"
)

// LogSink emits structured logs for the activity stream. It is useful during
// development or audits where a durable journal is unavailable.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []activity.Event) error {
	for _, evt := range batch {
		s.logger.Info("activity event",
			zap.Time("ts", evt.TS),
			zap.String("type", string(evt.Type)),
			zap.Any("fields", evt.Fields),
		)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
