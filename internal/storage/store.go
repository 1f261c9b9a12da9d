// Package storage defines the persistence interface consumed by the HTTP
// layer. The producer side of the contract is opaque: stores accept ordered
// Item sequences and never see raw provider payloads.
package storage

import (
	"context"
	"errors"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store persists users, items, feedback, and recommendations. Item and
// recommendation sets are replaced wholesale on each write, preserving the
// order handed over by the producer.
type Store interface {
	AppendUser(ctx context.Context, user model.User) error
	LatestUser(ctx context.Context) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)

	ReplaceItems(ctx context.Context, items []model.Item) error
	ListItems(ctx context.Context) ([]model.Item, error)

	AppendFeedback(ctx context.Context, fb model.Feedback) error
	ListFeedback(ctx context.Context) ([]model.Feedback, error)

	ReplaceRecommendations(ctx context.Context, recs []model.Recommendation) error
	ListRecommendations(ctx context.Context) ([]model.Recommendation, error)

	Close() error
}
