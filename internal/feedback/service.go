// Package feedback records user reactions to items and aggregates them into
// per-user summaries, trending rankings, and service-wide trends.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fitfindr/fitfindr-server/internal/metrics"
	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

// DefaultTrendingLimit bounds the trending list when the caller does not say
// otherwise.
const DefaultTrendingLimit = 10

// ErrInvalidFeedback marks rejected input so handlers can answer 400 instead
// of 500.
var ErrInvalidFeedback = errors.New("invalid feedback")

// IDGenerator produces feedback record IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Service validates and persists feedback and serves its aggregates.
type Service struct {
	store storage.Store
	ids   IDGenerator
	clock Clock
}

// NewService wires a feedback Service.
func NewService(store storage.Store, ids IDGenerator, clock Clock) *Service {
	return &Service{store: store, ids: ids, clock: clock}
}

// Record validates, stamps, and persists one feedback entry.
func (s *Service) Record(ctx context.Context, userID, itemID string, fbType model.FeedbackType) (model.Feedback, error) {
	if userID == "" || itemID == "" {
		return model.Feedback{}, fmt.Errorf("%w: user_id and item_id are required", ErrInvalidFeedback)
	}
	if !model.ValidFeedbackType(fbType) {
		return model.Feedback{}, fmt.Errorf("%w: unknown feedback type %q", ErrInvalidFeedback, fbType)
	}
	id, err := s.ids.NewID()
	if err != nil {
		return model.Feedback{}, fmt.Errorf("generate feedback id: %w", err)
	}
	fb := model.Feedback{
		ID:        id,
		UserID:    userID,
		ItemID:    itemID,
		Type:      fbType,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.AppendFeedback(ctx, fb); err != nil {
		return model.Feedback{}, fmt.Errorf("persist feedback: %w", err)
	}
	metrics.ObserveFeedback(string(fbType))
	return fb, nil
}

// UserSummary aggregates one user's feedback by type.
func (s *Service) UserSummary(ctx context.Context, userID string) (model.FeedbackSummary, error) {
	all, err := s.store.ListFeedback(ctx)
	if err != nil {
		return model.FeedbackSummary{}, fmt.Errorf("list feedback: %w", err)
	}
	summary := model.FeedbackSummary{
		UserID: userID,
		ByType: make(map[model.FeedbackType]int),
	}
	for _, fb := range all {
		if fb.UserID != userID {
			continue
		}
		summary.Total++
		summary.ByType[fb.Type]++
	}
	return summary, nil
}

// Trending ranks items by their like+save feedback counts, most popular
// first; ties order by item ID for stable output.
func (s *Service) Trending(ctx context.Context, limit int) ([]model.TrendingItem, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	all, err := s.store.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	counts := make(map[string]int)
	for _, fb := range all {
		if fb.Type == model.FeedbackLike || fb.Type == model.FeedbackSave {
			counts[fb.ItemID]++
		}
	}
	trending := make([]model.TrendingItem, 0, len(counts))
	for itemID, count := range counts {
		trending = append(trending, model.TrendingItem{ItemID: itemID, Count: count})
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].ItemID < trending[j].ItemID
	})
	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}

// Trends aggregates all feedback by type and by the style of the item it
// targets (items no longer in the catalog count under an empty style).
func (s *Service) Trends(ctx context.Context) (model.FeedbackTrends, error) {
	all, err := s.store.ListFeedback(ctx)
	if err != nil {
		return model.FeedbackTrends{}, fmt.Errorf("list feedback: %w", err)
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return model.FeedbackTrends{}, fmt.Errorf("list items: %w", err)
	}
	styleByItem := make(map[string]string, len(items))
	for _, it := range items {
		styleByItem[it.ID] = it.Style
	}
	trends := model.FeedbackTrends{
		ByType:  make(map[model.FeedbackType]int),
		ByStyle: make(map[string]int),
	}
	for _, fb := range all {
		trends.Total++
		trends.ByType[fb.Type]++
		if style := styleByItem[fb.ItemID]; style != "" {
			trends.ByStyle[style]++
		}
	}
	return trends, nil
}
