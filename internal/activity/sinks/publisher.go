package sinks

import (
	"context"
	"fmt"

	"github.com/fitfindr/fitfindr-server/internal/activity"
	"github.com/fitfindr/fitfindr-server/internal/publisher"
)

// PublisherSink forwards event batches through a publisher.Publisher.
type PublisherSink struct {
	pub   publisher.Publisher
	topic string
}

// NewPublisherSink wires a publisher to the sink interface.
func NewPublisherSink(pub publisher.Publisher, topic string) *PublisherSink {
	return &PublisherSink{pub: pub, topic: topic}
}

// Consume publishes the whole batch as one message.
func (s *PublisherSink) Consume(ctx context.Context, batch []activity.Event) error {
	if s.pub == nil || len(batch) == 0 {
		return nil
	}
	if _, err := s.pub.Publish(ctx, s.topic, batch); err != nil {
		return fmt.Errorf("publish activity batch: %w", err)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *PublisherSink) Close(context.Context) error {
	return nil
}
