package pinterest

import mrand "math/rand/v2"

// Engagement score ranges. The provider exposes no engagement counts, so
// these are fabricated display metadata on both the live and fallback paths.
const (
	likesMin = 50
	likesMax = 500
	savesMin = 10
	savesMax = 100
)

// Rand supplies the synthetic engagement counts attached to every Item.
// Tests can substitute a deterministic implementation without touching
// pipeline logic.
type Rand interface {
	// IntRange returns a pseudo-random int in [lo, hi].
	IntRange(lo, hi int) int
}

type systemRand struct{}

func (systemRand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + mrand.IntN(hi-lo+1)
}

// SystemRand returns the default math/rand-backed Rand.
func SystemRand() Rand {
	return systemRand{}
}
