package api

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfindr/fitfindr-server/internal/activity"
	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/pinterest"
)

func livePins(n int) []pinterest.Pin {
	pins := make([]pinterest.Pin, 0, n)
	for i := 0; i < n; i++ {
		pins = append(pins, pinterest.Pin{
			ID:        string(rune('a' + i)),
			GridTitle: "Look " + string(rune('A'+i)),
			URL:       "https://pinterest.com/pin/" + string(rune('a'+i)),
			Images:    map[string]pinterest.PinImage{"orig": {URL: "https://img.example/" + string(rune('a'+i)) + ".jpg"}},
			Pinner:    pinterest.Pinner{FullName: "Jane Doe"},
		})
	}
	return pins
}

func TestScrapeLivePath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	env.searcher.resp = pinterest.SearchResponse{Success: true, Pins: livePins(3)}

	resp, body := env.do(t, http.MethodPost, "/v1/scrape",
		"application/json", strings.NewReader(`{"keyword": "y2k", "max_items": 10}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Items scraped successfully", body["message"])
	assert.EqualValues(t, 3, body["count"])
	assert.Equal(t, "y2k", body["keyword"])

	items, err := env.store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "y2k", items[0].Style)

	assert.Contains(t, env.emitter.types(), activity.TypeScrapeRequested)
	assert.Contains(t, env.emitter.types(), activity.TypeScrapeCompleted)
}

func TestScrapeFallbackPath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	env.searcher.err = errors.New("upstream down")

	resp, body := env.do(t, http.MethodPost, "/v1/scrape",
		"application/json", strings.NewReader(`{"keyword": "bohemian", "max_items": 4}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 4, body["count"])

	items, err := env.store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "mock_1", items[0].ID)

	assert.Contains(t, env.emitter.types(), activity.TypeScrapeFallback)
	assert.NotContains(t, env.emitter.types(), activity.TypeScrapeCompleted)
}

func TestScrapeDefaultsKeywordAndCount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	env.searcher.err = errors.New("upstream down")

	resp, body := env.do(t, http.MethodPost, "/v1/scrape", "application/json", strings.NewReader(`{}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "vintage streetwear", body["keyword"])
	assert.EqualValues(t, 20, body["count"])
}

func TestScrapeEmptyBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	env.searcher.err = errors.New("upstream down")

	resp, body := env.do(t, http.MethodPost, "/v1/scrape", "application/json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "vintage streetwear", body["keyword"])
}

func TestScrapeRejectsBadJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	resp, _ := env.do(t, http.MethodPost, "/v1/scrape", "application/json", strings.NewReader(`{"keyword":`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartBody(t *testing.T, style string, imageName string, imageData []byte) (string, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if style != "" {
		require.NoError(t, mw.WriteField("style", style))
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func TestQueryCreatesUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	contentType, body := multipartBody(t, "y2k", "", nil)

	resp, payload := env.do(t, http.MethodPost, "/v1/query", contentType, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Query processed successfully", payload["message"])

	user, err := env.store.LatestUser(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "y2k", user.Style)
	assert.False(t, user.HasImage)

	assert.Contains(t, env.emitter.types(), activity.TypeQueryProcessed)
}

func TestQueryWithImageArchivesUpload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	contentType, body := multipartBody(t, "bohemian", "fit.png", []byte("pngdata"))

	resp, _ := env.do(t, http.MethodPost, "/v1/query", contentType, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user, err := env.store.LatestUser(context.Background())
	require.NoError(t, err)
	assert.True(t, user.HasImage)
	assert.True(t, strings.HasPrefix(user.ImageURI, "mem://uploads/"))

	objects := env.archiver.Objects()
	require.Len(t, objects, 1)
	assert.Equal(t, []byte("pngdata"), objects[0].Data)
}

func TestQueryRequiresStyle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	contentType, body := multipartBody(t, "", "", nil)

	resp, payload := env.do(t, http.MethodPost, "/v1/query", contentType, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, payload["error"], "style")
}

func TestQueryRejectsUnsupportedImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	contentType, body := multipartBody(t, "y2k", "malware.exe", []byte("nope"))

	resp, _ := env.do(t, http.MethodPost, "/v1/query", contentType, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendRequiresUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	resp, payload := env.do(t, http.MethodPost, "/v1/recommend", "application/json", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No user data found. Please process a query first.", payload["error"])
}

func TestRecommendRequiresItems(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	require.NoError(t, env.store.AppendUser(context.Background(), model.User{ID: "u1", Style: "y2k"}))

	resp, payload := env.do(t, http.MethodPost, "/v1/recommend", "application/json", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No items found. Please scrape items first.", payload["error"])
}

func TestRecommendHappyPath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	require.NoError(t, env.store.AppendUser(ctx, model.User{ID: "u1", Style: "y2k"}))
	require.NoError(t, env.store.ReplaceItems(ctx, []model.Item{
		{ID: "a", Title: "A", Style: "y2k", Likes: 300, Saves: 50},
		{ID: "b", Title: "B", Style: "bohemian", Likes: 100, Saves: 20},
		{ID: "c", Title: "C", Style: "y2k", Likes: 200, Saves: 40},
		{ID: "d", Title: "D", Style: "y2k", Likes: 100, Saves: 10},
	}))

	resp, payload := env.do(t, http.MethodPost, "/v1/recommend",
		"application/json", strings.NewReader(`{"max_recommendations": 3}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Recommendations generated successfully", payload["message"])

	recs, ok := payload["recommendations"].([]any)
	require.True(t, ok)
	assert.Len(t, recs, 3)
	assert.NotEmpty(t, payload["outfits"])
	assert.NotEmpty(t, payload["summary"])

	stored, err := env.store.ListRecommendations(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "a", stored[0].Item.ID)

	assert.Contains(t, env.emitter.types(), activity.TypeRecommendationsGenerated)
}

func TestFeedbackRecorded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	resp, payload := env.do(t, http.MethodPost, "/v1/feedback",
		"application/json", strings.NewReader(`{"user_id": "u1", "item_id": "a", "feedback_type": "like"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Feedback recorded successfully", payload["message"])

	all, err := env.store.ListFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.FeedbackLike, all[0].Type)

	assert.Contains(t, env.emitter.types(), activity.TypeFeedbackRecorded)
}

func TestFeedbackValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())

	resp, _ := env.do(t, http.MethodPost, "/v1/feedback",
		"application/json", strings.NewReader(`{"user_id": "u1", "item_id": "a", "feedback_type": "love"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/v1/feedback",
		"application/json", strings.NewReader(`{"user_id": "", "item_id": "a", "feedback_type": "like"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/v1/feedback", "application/json", strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeRequiresUserID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	resp, _ := env.do(t, http.MethodPost, "/v1/analyze", "application/json", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeUnknownUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	resp, payload := env.do(t, http.MethodPost, "/v1/analyze",
		"application/json", strings.NewReader(`{"user_id": "ghost"}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", payload["error"])
}

func TestAnalyzeHappyPath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	require.NoError(t, env.store.AppendUser(ctx, model.User{ID: "u1", Style: "y2k"}))
	require.NoError(t, env.store.ReplaceRecommendations(ctx, []model.Recommendation{
		{UserID: "u1", Item: model.Item{ID: "a", Title: "Butterfly top"}, Score: 0.9},
	}))

	resp, payload := env.do(t, http.MethodPost, "/v1/analyze",
		"application/json", strings.NewReader(`{"user_id": "u1"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Analysis completed successfully", payload["message"])
	assert.Contains(t, payload["personalized_explanation"], "y2k")
	assert.EqualValues(t, 1, payload["recommendation_count"])

	assert.Contains(t, env.emitter.types(), activity.TypeAnalysisCompleted)
}

func TestAnalyzeFallsBackToGlobalRecommendations(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	require.NoError(t, env.store.AppendUser(ctx, model.User{ID: "u2", Style: "bohemian"}))
	recs := make([]model.Recommendation, 0, 8)
	for i := 0; i < 8; i++ {
		recs = append(recs, model.Recommendation{UserID: "someone-else", Item: model.Item{ID: string(rune('a' + i))}})
	}
	require.NoError(t, env.store.ReplaceRecommendations(ctx, recs))

	resp, payload := env.do(t, http.MethodPost, "/v1/analyze",
		"application/json", strings.NewReader(`{"user_id": "u2"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Global recommendations are capped when none belong to the user.
	assert.EqualValues(t, 5, payload["recommendation_count"])
}

func TestTrendingEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	require.NoError(t, env.store.AppendFeedback(ctx, model.Feedback{ID: "f1", UserID: "u1", ItemID: "a", Type: model.FeedbackLike}))
	require.NoError(t, env.store.AppendFeedback(ctx, model.Feedback{ID: "f2", UserID: "u2", ItemID: "a", Type: model.FeedbackSave}))

	resp, payload := env.do(t, http.MethodGet, "/v1/trending", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, payload["count"])

	items, ok := payload["trending_items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", first["item_id"])
	assert.EqualValues(t, 2, first["count"])
}

func TestStylesEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	resp, payload := env.do(t, http.MethodGet, "/v1/styles", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 8, payload["count"])

	styles, ok := payload["styles"].([]any)
	require.True(t, ok)
	assert.Equal(t, "vintage streetwear", styles[0])
}

func TestUserFeedbackEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	require.NoError(t, env.store.AppendFeedback(ctx, model.Feedback{ID: "f1", UserID: "u1", ItemID: "a", Type: model.FeedbackLike}))
	require.NoError(t, env.store.AppendFeedback(ctx, model.Feedback{ID: "f2", UserID: "u1", ItemID: "b", Type: model.FeedbackSkip}))
	require.NoError(t, env.store.AppendFeedback(ctx, model.Feedback{ID: "f3", UserID: "u2", ItemID: "a", Type: model.FeedbackLike}))

	resp, payload := env.do(t, http.MethodGet, "/v1/users/u1/feedback", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", payload["user_id"])

	summary, ok := payload["feedback_summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, summary["total"])
}

func TestAnalyticsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx := context.Background()
	require.NoError(t, env.store.ReplaceItems(ctx, []model.Item{{ID: "a", Style: "y2k"}}))
	require.NoError(t, env.store.AppendFeedback(ctx, model.Feedback{ID: "f1", UserID: "u1", ItemID: "a", Type: model.FeedbackLike}))

	resp, payload := env.do(t, http.MethodGet, "/v1/analytics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	analytics, ok := payload["analytics"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, analytics["total"])
}
