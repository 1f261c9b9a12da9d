package pinterest

import (
	"fmt"

	"github.com/fitfindr/fitfindr-server/internal/model"
)

// Normalizer maps raw provider records into canonical Items.
type Normalizer struct {
	rand Rand
}

// NewNormalizer builds a Normalizer using rand for engagement scores.
func NewNormalizer(rand Rand) *Normalizer {
	if rand == nil {
		rand = SystemRand()
	}
	return &Normalizer{rand: rand}
}

// Normalize truncates the raw pin list to the first maxItems entries and maps
// each record into the Item shape. Provider order is preserved and the result
// may be shorter than maxItems. It never fails: any missing nested field
// degrades to an empty value for that field rather than aborting the batch.
func (n *Normalizer) Normalize(resp SearchResponse, keyword string, maxItems int) []model.Item {
	pins := resp.Pins
	if maxItems > 0 && len(pins) > maxItems {
		pins = pins[:maxItems]
	}
	items := make([]model.Item, 0, len(pins))
	for i, pin := range pins {
		items = append(items, n.mapPin(pin, keyword, i))
	}
	return items
}

func (n *Normalizer) mapPin(pin Pin, keyword string, idx int) model.Item {
	id := pin.ID
	if id == "" {
		id = fmt.Sprintf("pin_%d", idx+1)
	}
	title := pin.GridTitle
	if title == "" {
		title = pin.Description
	}
	imageURL := ""
	if orig, ok := pin.Images[originalImageVariant]; ok {
		imageURL = orig.URL
	}
	return model.Item{
		ID:          id,
		Title:       title,
		Description: pin.Description,
		ImageURL:    imageURL,
		SourceURL:   pin.URL,
		Style:       keyword,
		Creator:     pin.Pinner.FullName,
		Likes:       n.rand.IntRange(likesMin, likesMax),
		Saves:       n.rand.IntRange(savesMin, savesMax),
		CreatedAt:   pin.CreatedAt,
	}
}
