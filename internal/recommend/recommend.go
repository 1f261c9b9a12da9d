// Package recommend turns the normalized item catalog into per-user outfit
// recommendations. Scoring is intentionally simple: it consumes Items as
// read-only input and never mutates them.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

// DefaultMax bounds a recommendation list when the caller does not say otherwise.
const DefaultMax = 10

// Scoring weights. Style match dominates; engagement numbers only break ties
// between items of the same style.
const (
	styleMatchScore  = 0.6
	likesWeight      = 0.3
	savesWeight      = 0.1
	likesScaleDenom  = 500.0
	savesScaleDenom  = 100.0
	maxItemsPerOutfit = 3
)

// Recommend scores items for the user and returns the top max entries in
// descending score order. Ties keep catalog order.
func Recommend(user model.User, items []model.Item, max int) []model.Recommendation {
	if max <= 0 {
		max = DefaultMax
	}
	recs := make([]model.Recommendation, 0, len(items))
	for _, item := range items {
		score, reason := score(user, item)
		recs = append(recs, model.Recommendation{
			UserID: user.ID,
			Item:   item,
			Score:  score,
			Reason: reason,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > max {
		recs = recs[:max]
	}
	return recs
}

func score(user model.User, item model.Item) (float64, string) {
	var s float64
	var reasons []string
	if strings.EqualFold(item.Style, user.Style) {
		s += styleMatchScore
		reasons = append(reasons, fmt.Sprintf("matches your %s style", user.Style))
	}
	s += float64(item.Likes) / likesScaleDenom * likesWeight
	s += float64(item.Saves) / savesScaleDenom * savesWeight
	reasons = append(reasons, "popular with the community")
	return s, strings.Join(reasons, "; ")
}

// Combinations groups recommendations into outfits of up to three items,
// preserving recommendation order.
func Combinations(recs []model.Recommendation) []model.Outfit {
	var outfits []model.Outfit
	for start := 0; start < len(recs); start += maxItemsPerOutfit {
		end := start + maxItemsPerOutfit
		if end > len(recs) {
			end = len(recs)
		}
		items := make([]model.Item, 0, end-start)
		for _, rec := range recs[start:end] {
			items = append(items, rec.Item)
		}
		outfits = append(outfits, model.Outfit{
			ID:    fmt.Sprintf("outfit_%d", len(outfits)+1),
			Style: items[0].Style,
			Items: items,
		})
	}
	return outfits
}

// Summarize aggregates a recommendation run.
func Summarize(recs []model.Recommendation) model.RecommendationSummary {
	summary := model.RecommendationSummary{Count: len(recs)}
	if len(recs) == 0 {
		return summary
	}
	var total float64
	styleCounts := make(map[string]int)
	for _, rec := range recs {
		total += rec.Score
		if rec.Item.Style != "" {
			styleCounts[rec.Item.Style]++
		}
	}
	summary.AverageScore = total / float64(len(recs))

	styles := make([]string, 0, len(styleCounts))
	for style := range styleCounts {
		styles = append(styles, style)
	}
	sort.Slice(styles, func(i, j int) bool {
		if styleCounts[styles[i]] != styleCounts[styles[j]] {
			return styleCounts[styles[i]] > styleCounts[styles[j]]
		}
		return styles[i] < styles[j]
	})
	if len(styles) > 3 {
		styles = styles[:3]
	}
	summary.TopStyles = styles
	return summary
}
