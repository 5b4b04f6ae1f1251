package engine

import "unicode/utf8"

// StyleTier classifies a message by length so the surface can pick the
// matching animation speed and font.
type StyleTier string

const (
	StyleNormal   StyleTier = "normal"    // < 60 chars
	StyleLong     StyleTier = "long"      // < 100 chars
	StyleVeryLong StyleTier = "very-long" // everything else
)

// TierFor buckets a message into its style tier.
func TierFor(msg string) StyleTier {
	switch n := utf8.RuneCountInString(msg); {
	case n < 60:
		return StyleNormal
	case n < 100:
		return StyleLong
	default:
		return StyleVeryLong
	}
}

// Surface is the screen the director drives. Implementations must be
// idempotent: the director re-issues the current state every tick and
// never assumes what the surface already shows.
type Surface interface {
	ShowBaseGrid()
	HideBaseGrid()
	RenderMessage(msg string, tier StyleTier, warning, special bool)
	ShowImage(path string)
	HideImage()
	ShowAdhkar(frame AdhkarFrame)
	HideAdhkar()
}
