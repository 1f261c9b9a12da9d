package pinterest

// TrendingStyles returns the fashion styles surfaced by the /styles endpoint.
// The list is curated, not derived from upstream data.
func TrendingStyles() []string {
	return []string{
		"vintage streetwear",
		"minimalist chic",
		"bohemian",
		"athleisure",
		"cottagecore",
		"dark academia",
		"y2k",
		"normcore",
	}
}
