// Package model defines the canonical record types shared across subsystems.
package model

import "time"

// Item is the canonical normalized content record produced by the ingestion
// pipeline. Items are created fresh on every pipeline invocation and never
// mutated afterward; ownership transfers wholesale to the caller.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SourceURL   string `json:"source_url"`
	Style       string `json:"style"`
	Creator     string `json:"creator"`
	Likes       int    `json:"likes"`
	Saves       int    `json:"saves"`
	CreatedAt   string `json:"created_at"`
}

// User captures one processed style query.
type User struct {
	ID        string    `json:"id"`
	Style     string    `json:"style"`
	HasImage  bool      `json:"has_image"`
	ImageURI  string    `json:"image_uri,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackType classifies a user's reaction to an item.
type FeedbackType string

// Accepted feedback types.
const (
	FeedbackLike    FeedbackType = "like"
	FeedbackDislike FeedbackType = "dislike"
	FeedbackSave    FeedbackType = "save"
	FeedbackSkip    FeedbackType = "skip"
)

// ValidFeedbackType reports whether t is one of the accepted feedback types.
func ValidFeedbackType(t FeedbackType) bool {
	switch t {
	case FeedbackLike, FeedbackDislike, FeedbackSave, FeedbackSkip:
		return true
	default:
		return false
	}
}

// Feedback records one user reaction to one item.
type Feedback struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	ItemID    string       `json:"item_id"`
	Type      FeedbackType `json:"feedback_type"`
	CreatedAt time.Time    `json:"created_at"`
}

// Recommendation is a scored item for a specific user.
type Recommendation struct {
	UserID string  `json:"user_id"`
	Item   Item    `json:"item"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Outfit groups a few recommended items into a wearable combination.
type Outfit struct {
	ID    string `json:"id"`
	Style string `json:"style"`
	Items []Item `json:"items"`
}

// RecommendationSummary aggregates one recommendation run.
type RecommendationSummary struct {
	Count        int      `json:"count"`
	AverageScore float64  `json:"average_score"`
	TopStyles    []string `json:"top_styles"`
}

// FeedbackSummary aggregates one user's recorded feedback.
type FeedbackSummary struct {
	UserID string               `json:"user_id"`
	Total  int                  `json:"total"`
	ByType map[FeedbackType]int `json:"by_type"`
}

// TrendingItem pairs an item ID with its positive-feedback count.
type TrendingItem struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}

// FeedbackTrends aggregates feedback across all users.
type FeedbackTrends struct {
	Total   int                  `json:"total"`
	ByType  map[FeedbackType]int `json:"by_type"`
	ByStyle map[string]int       `json:"by_style"`
}
