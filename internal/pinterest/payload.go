package pinterest

// SearchResponse is the raw provider payload returned by the search endpoint.
// Raw holds the undecoded body for optional archival; it is never exposed to
// downstream consumers.
type SearchResponse struct {
	Success bool  `json:"success"`
	Pins    []Pin `json:"pins"`

	Raw []byte `json:"-"`
}

// Pin is one raw provider record. Every field is optional on the wire;
// normalization degrades missing fields to empty values rather than failing.
type Pin struct {
	ID          string              `json:"id"`
	GridTitle   string              `json:"grid_title"`
	Description string              `json:"description"`
	URL         string              `json:"url"`
	CreatedAt   string              `json:"created_at"`
	Images      map[string]PinImage `json:"images"`
	Pinner      Pinner              `json:"pinner"`
}

// PinImage is one entry of the provider's image size-variant map.
type PinImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Pinner is the provider's attribution sub-object.
type Pinner struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// originalImageVariant is the key of the full-resolution entry in a pin's
// image map; it is the only variant normalization selects.
const originalImageVariant = "orig"
