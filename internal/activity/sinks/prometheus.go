package sinks

import (
	"context"

	"github.com/fitfindr/fitfindr-server/internal/activity"
	"github.com/fitfindr/fitfindr-server/internal/metrics"
)

// PrometheusSink counts activity events by type.
type PrometheusSink struct{}

// NewPrometheusSink returns a sink backed by the shared metrics registry.
func NewPrometheusSink() *PrometheusSink {
	metrics.Init()
	return &PrometheusSink{}
}

// Consume increments the event counter for each event in the batch.
func (s *PrometheusSink) Consume(_ context.Context, batch []activity.Event) error {
	for _, evt := range batch {
		metrics.ObserveActivityEvent(string(evt.Type))
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
