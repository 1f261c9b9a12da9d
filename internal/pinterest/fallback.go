package pinterest

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

// Fixed fallback field values; only the id, title, and image URL vary per item.
const (
	fallbackDescriptionFmt = "Demo fallback %s item."
	fallbackImageFmt       = "https://picsum.photos/300/400?random=%d"
	fallbackSourceURL      = "https://pinterest.com"
	fallbackCreator        = "Mock User"
	fallbackCreatedAt      = "2025-01-01T00:00:00Z"
)

// FallbackGenerator synthesizes deterministic-shape, randomized-content
// placeholder Items whenever real data is unavailable. This is a deliberate
// degradation policy: callers always receive a count-correct, schema-correct
// list and cannot distinguish it from live data through the contract alone.
type FallbackGenerator struct {
	rand  Rand
	title cases.Caser
}

// NewFallbackGenerator builds a generator using rand for engagement scores.
func NewFallbackGenerator(rand Rand) *FallbackGenerator {
	if rand == nil {
		rand = SystemRand()
	}
	return &FallbackGenerator{
		rand:  rand,
		title: cases.Title(language.English),
	}
}

// Generate produces exactly count synthetic Items for keyword. IDs are
// sequential and unique within the list; image URLs differ per item so
// list-rendering clients can key on them.
func (g *FallbackGenerator) Generate(keyword string, count int) []model.Item {
	if count < 0 {
		count = 0
	}
	items := make([]model.Item, 0, count)
	for i := 1; i <= count; i++ {
		items = append(items, model.Item{
			ID:          fmt.Sprintf("mock_%d", i),
			Title:       fmt.Sprintf("Mock %s Item %d", g.title.String(keyword), i),
			Description: fmt.Sprintf(fallbackDescriptionFmt, keyword),
			ImageURL:    fmt.Sprintf(fallbackImageFmt, i),
			SourceURL:   fallbackSourceURL,
			Style:       keyword,
			Creator:     fallbackCreator,
			Likes:       g.rand.IntRange(likesMin, likesMax),
			Saves:       g.rand.IntRange(savesMin, savesMax),
			CreatedAt:   fallbackCreatedAt,
		})
	}
	return items
}
