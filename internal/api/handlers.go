package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/activity"
	"github.com/fitfindr/fitfindr-server/internal/feedback"
	"github.com/fitfindr/fitfindr-server/internal/metrics"
	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/pinterest"
	"github.com/fitfindr/fitfindr-server/internal/recommend"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

// defaultKeyword matches the original product behavior: a scrape without a
// keyword still produces a browsable catalog.
const defaultKeyword = "vintage streetwear"

// Upload limits for the query image.
const (
	maxImageBytes   = 10 << 20
	maxStyleLength  = 100
	analyzeRecLimit = 5
)

type scrapeRequest struct {
	Keyword  string `json:"keyword"`
	MaxItems int    `json:"max_items"`
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Keyword == "" {
		req.Keyword = defaultKeyword
	}
	if req.MaxItems <= 0 {
		req.MaxItems = s.cfg.Pinterest.DefaultMaxItems
	}
	s.emitter.Emit(activity.New(activity.TypeScrapeRequested, map[string]any{
		"keyword":   req.Keyword,
		"max_items": req.MaxItems,
	}))

	items, source := s.pipeline.Process(r.Context(), req.Keyword, req.MaxItems)

	if err := s.store.ReplaceItems(r.Context(), items); err != nil {
		s.logger.Error("persist items failed", zap.Error(err))
		s.emitError(err)
		s.writeError(w, http.StatusInternalServerError, "failed to persist items")
		return
	}

	eventType := activity.TypeScrapeCompleted
	if source == pinterest.SourceFallback {
		eventType = activity.TypeScrapeFallback
	}
	s.emitter.Emit(activity.New(eventType, map[string]any{
		"keyword": req.Keyword,
		"count":   len(items),
	}))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Items scraped successfully",
		"count":   len(items),
		"keyword": req.Keyword,
		"items":   items,
	})
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	style := strings.TrimSpace(r.FormValue("style"))
	if style == "" {
		s.writeError(w, http.StatusBadRequest, "style is required")
		return
	}
	if len(style) > maxStyleLength {
		s.writeError(w, http.StatusBadRequest, "style is too long")
		return
	}

	id, err := s.ids.NewID()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate user id")
		return
	}
	user := model.User{
		ID:        id,
		Style:     style,
		CreatedAt: s.clock.Now(),
	}

	if file, header, ferr := r.FormFile("image"); ferr == nil {
		defer func() {
			if cerr := file.Close(); cerr != nil {
				s.logger.Debug("close uploaded image", zap.Error(cerr))
			}
		}()
		if !validImageName(header.Filename) {
			s.writeError(w, http.StatusBadRequest, "unsupported image type")
			return
		}
		data, rerr := io.ReadAll(io.LimitReader(file, maxImageBytes))
		if rerr != nil {
			s.writeError(w, http.StatusBadRequest, "failed to read image")
			return
		}
		user.HasImage = true
		user.ImageURI = s.archiveImage(r, user.ID, header.Filename, data)
	}

	if err := s.store.AppendUser(r.Context(), user); err != nil {
		s.logger.Error("persist user failed", zap.Error(err))
		s.emitError(err)
		s.writeError(w, http.StatusInternalServerError, "failed to persist user")
		return
	}

	s.emitter.Emit(activity.New(activity.TypeQueryProcessed, map[string]any{
		"user_id":   user.ID,
		"style":     user.Style,
		"has_image": user.HasImage,
	}))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Query processed successfully",
		"user":    user,
		"status":  "success",
	})
}

// archiveImage stores the uploaded image when an archiver is configured.
// Failures are logged and leave ImageURI empty; the query still succeeds.
func (s *Server) archiveImage(r *http.Request, userID, filename string, data []byte) string {
	if s.archiver == nil {
		return ""
	}
	path := fmt.Sprintf("uploads/%s/%s", userID, filepath.Base(filename))
	uri, err := s.archiver.PutObject(r.Context(), path, "application/octet-stream", data)
	if err != nil {
		s.logger.Warn("archive query image failed", zap.Error(err))
		return ""
	}
	return uri
}

func validImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

type recommendRequest struct {
	MaxRecommendations int `json:"max_recommendations"`
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.LatestUser(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusBadRequest, "No user data found. Please process a query first.")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	items, err := s.store.ListItems(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load items")
		return
	}
	if len(items) == 0 {
		s.writeError(w, http.StatusBadRequest, "No items found. Please scrape items first.")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	recs := recommend.Recommend(user, items, req.MaxRecommendations)
	outfits := recommend.Combinations(recs)
	summary := recommend.Summarize(recs)

	if err := s.store.ReplaceRecommendations(r.Context(), recs); err != nil {
		s.logger.Error("persist recommendations failed", zap.Error(err))
		s.emitError(err)
		s.writeError(w, http.StatusInternalServerError, "failed to persist recommendations")
		return
	}

	metrics.AddRecommendations(len(recs))
	s.emitter.Emit(activity.New(activity.TypeRecommendationsGenerated, map[string]any{
		"user_id":              user.ID,
		"recommendation_count": len(recs),
		"outfit_count":         len(outfits),
	}))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Recommendations generated successfully",
		"user":            user,
		"recommendations": recs,
		"outfits":         outfits,
		"summary":         summary,
	})
}

type feedbackRequest struct {
	UserID       string `json:"user_id"`
	ItemID       string `json:"item_id"`
	FeedbackType string `json:"feedback_type"`
}

func (s *Server) recordFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == "" || req.ItemID == "" || req.FeedbackType == "" {
		s.writeError(w, http.StatusBadRequest, "user_id, item_id, and feedback_type are required")
		return
	}

	fb, err := s.feedback.Record(r.Context(), req.UserID, req.ItemID, model.FeedbackType(req.FeedbackType))
	if err != nil {
		if errors.Is(err, feedback.ErrInvalidFeedback) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("record feedback failed", zap.Error(err))
		s.emitError(err)
		s.writeError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	s.emitter.Emit(activity.New(activity.TypeFeedbackRecorded, map[string]any{
		"user_id":       fb.UserID,
		"item_id":       fb.ItemID,
		"feedback_type": string(fb.Type),
	}))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Feedback recorded successfully",
		"feedback": fb,
	})
}

type analyzeRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	user, err := s.store.GetUser(r.Context(), req.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	all, err := s.store.ListRecommendations(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load recommendations")
		return
	}
	recs := filterRecommendations(all, req.UserID)

	explanation, err := s.explainer.Explain(r.Context(), user, recs)
	if err != nil {
		s.logger.Error("generate explanation failed", zap.Error(err))
		s.emitError(err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate explanation")
		return
	}

	s.emitter.Emit(activity.New(activity.TypeAnalysisCompleted, map[string]any{
		"user_id": user.ID,
	}))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":                  "Analysis completed successfully",
		"user_profile":             user,
		"personalized_explanation": explanation,
		"recommendation_count":     len(recs),
	})
}

// filterRecommendations keeps the user's own recommendations, falling back to
// the first few global ones when none are theirs.
func filterRecommendations(all []model.Recommendation, userID string) []model.Recommendation {
	var mine []model.Recommendation
	for _, rec := range all {
		if rec.UserID == userID {
			mine = append(mine, rec)
		}
	}
	if len(mine) > 0 {
		return mine
	}
	if len(all) > analyzeRecLimit {
		return all[:analyzeRecLimit]
	}
	return all
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	items, err := s.feedback.Trending(r.Context(), 0)
	if err != nil {
		s.logger.Error("load trending failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load trending items")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Trending items retrieved successfully",
		"trending_items": items,
		"count":          len(items),
	})
}

func (s *Server) styles(w http.ResponseWriter, _ *http.Request) {
	styles := pinterest.TrendingStyles()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Available styles retrieved successfully",
		"styles":  styles,
		"count":   len(styles),
	})
}

func (s *Server) userFeedback(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	summary, err := s.feedback.UserSummary(r.Context(), userID)
	if err != nil {
		s.logger.Error("load user feedback failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load user feedback")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":          "User feedback retrieved successfully",
		"user_id":          userID,
		"feedback_summary": summary,
	})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	trends, err := s.feedback.Trends(r.Context())
	if err != nil {
		s.logger.Error("load analytics failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Analytics retrieved successfully",
		"analytics": trends,
	})
}

func (s *Server) emitError(err error) {
	s.emitter.Emit(activity.New(activity.TypeError, map[string]any{
		"error": err.Error(),
	}))
}
