package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

// LLMExplainer generates explanations with a Gemini model via langchaingo.
// Any LLM failure falls back to the deterministic template output so the
// analyze endpoint never degrades to an error.
type LLMExplainer struct {
	apiKey   string
	model    string
	fallback Explainer
	logger   *zap.Logger
}

// NewLLMExplainer builds an LLM-backed Explainer.
func NewLLMExplainer(apiKey, modelName string, logger *zap.Logger) (*LLMExplainer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("analyzer api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExplainer{
		apiKey:   apiKey,
		model:    modelName,
		fallback: NewTemplateExplainer(),
		logger:   logger,
	}, nil
}

// Explain prompts the model with the user's style and their top picks.
func (e *LLMExplainer) Explain(ctx context.Context, user model.User, recs []model.Recommendation) (string, error) {
	llm, err := googleai.New(ctx, googleai.WithAPIKey(e.apiKey), googleai.WithDefaultModel(e.model))
	if err != nil {
		e.logger.Warn("create LLM client failed; using template explanation", zap.Error(err))
		return e.fallback.Explain(ctx, user, recs)
	}

	var picks strings.Builder
	for i, rec := range recs {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&picks, "- %s (by %s, score %.2f)\n", rec.Item.Title, rec.Item.Creator, rec.Score)
	}
	prompt := fmt.Sprintf(
		"You are a fashion stylist. In two or three sentences, explain to a user with a %q style "+
			"why these recommended looks fit them. Be specific and warm; no markdown.\n\nPicks:\n%s",
		user.Style, picks.String(),
	)

	explanation, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt)
	if err != nil {
		e.logger.Warn("LLM explanation failed; using template explanation", zap.Error(err))
		return e.fallback.Explain(ctx, user, recs)
	}
	return strings.TrimSpace(explanation), nil
}
