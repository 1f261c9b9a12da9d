package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

func TestRecommendPrefersStyleMatch(t *testing.T) {
	t.Parallel()

	user := model.User{ID: "u1", Style: "y2k"}
	items := []model.Item{
		{ID: "other", Style: "bohemian", Likes: 500, Saves: 100},
		{ID: "match", Style: "y2k", Likes: 50, Saves: 10},
	}

	recs := Recommend(user, items, 10)
	require.Len(t, recs, 2)

	// Style match (0.6) beats maximum engagement (0.3 + 0.1).
	assert.Equal(t, "match", recs[0].Item.ID)
	assert.Equal(t, "u1", recs[0].UserID)
	assert.Contains(t, recs[0].Reason, "matches your y2k style")
	assert.NotContains(t, recs[1].Reason, "matches your")
	assert.Greater(t, recs[0].Score, recs[1].Score)
}

func TestRecommendStyleMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	user := model.User{ID: "u1", Style: "Y2K"}
	recs := Recommend(user, []model.Item{{ID: "a", Style: "y2k"}}, 10)
	require.Len(t, recs, 1)
	assert.GreaterOrEqual(t, recs[0].Score, 0.6)
}

func TestRecommendTruncatesToMax(t *testing.T) {
	t.Parallel()

	user := model.User{ID: "u1", Style: "y2k"}
	items := make([]model.Item, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, model.Item{ID: string(rune('a' + i)), Style: "y2k"})
	}

	assert.Len(t, Recommend(user, items, 5), 5)
	// max <= 0 falls back to the default bound.
	assert.Len(t, Recommend(user, items, 0), DefaultMax)
}

func TestRecommendEngagementBreaksTies(t *testing.T) {
	t.Parallel()

	user := model.User{ID: "u1", Style: "y2k"}
	items := []model.Item{
		{ID: "cold", Style: "y2k", Likes: 50, Saves: 10},
		{ID: "hot", Style: "y2k", Likes: 500, Saves: 100},
	}

	recs := Recommend(user, items, 10)
	require.Len(t, recs, 2)
	assert.Equal(t, "hot", recs[0].Item.ID)
}

func TestCombinationsGroupsByThree(t *testing.T) {
	t.Parallel()

	recs := make([]model.Recommendation, 0, 7)
	for i := 0; i < 7; i++ {
		recs = append(recs, model.Recommendation{Item: model.Item{ID: string(rune('a' + i)), Style: "y2k"}})
	}

	outfits := Combinations(recs)
	require.Len(t, outfits, 3)
	assert.Equal(t, "outfit_1", outfits[0].ID)
	assert.Len(t, outfits[0].Items, 3)
	assert.Len(t, outfits[1].Items, 3)
	assert.Len(t, outfits[2].Items, 1)
	assert.Equal(t, "y2k", outfits[0].Style)
	assert.Equal(t, "a", outfits[0].Items[0].ID)
}

func TestCombinationsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Combinations(nil))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	recs := []model.Recommendation{
		{Score: 0.8, Item: model.Item{Style: "y2k"}},
		{Score: 0.4, Item: model.Item{Style: "y2k"}},
		{Score: 0.6, Item: model.Item{Style: "bohemian"}},
	}

	summary := Summarize(recs)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 0.6, summary.AverageScore, 1e-9)
	require.NotEmpty(t, summary.TopStyles)
	assert.Equal(t, "y2k", summary.TopStyles[0])
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.AverageScore)
	assert.Empty(t, summary.TopStyles)
}
