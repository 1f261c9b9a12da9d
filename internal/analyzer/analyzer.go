// Package analyzer produces personalized explanations for a user's
// recommendations. The default implementation is a deterministic template;
// an LLM-backed implementation is selected when a credential is configured.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

// Explainer generates a human-readable explanation of why the given
// recommendations suit the user.
type Explainer interface {
	Explain(ctx context.Context, user model.User, recs []model.Recommendation) (string, error)
}

// TemplateExplainer renders a fixed-form explanation without external calls.
type TemplateExplainer struct{}

// NewTemplateExplainer returns the deterministic explainer.
func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{}
}

// Explain summarizes the recommendation list in plain text.
func (TemplateExplainer) Explain(_ context.Context, user model.User, recs []model.Recommendation) (string, error) {
	if len(recs) == 0 {
		return fmt.Sprintf("We don't have picks for your %s style yet. Try scraping fresh items first.", user.Style), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your %s style, we picked %d looks for you.", user.Style, len(recs))
	top := recs[0]
	if top.Item.Title != "" {
		fmt.Fprintf(&b, " Our favorite is %q", top.Item.Title)
		if top.Item.Creator != "" {
			fmt.Fprintf(&b, " by %s", top.Item.Creator)
		}
		b.WriteString(".")
	}
	fmt.Fprintf(&b, " These pieces lean into the %s aesthetic while staying wearable day to day.", user.Style)
	return b.String(), nil
}
