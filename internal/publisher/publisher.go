// Package publisher abstracts outbound event publication.
package publisher

import "context"

// Publisher pushes payloads to an external topic (Pub/Sub or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}
