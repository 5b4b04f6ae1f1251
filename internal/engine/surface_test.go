package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	assert.Equal(t, StyleNormal, TierFor("short"))
	assert.Equal(t, StyleLong, TierFor(strings.Repeat("x", 60)))
	assert.Equal(t, StyleLong, TierFor(strings.Repeat("x", 99)))
	assert.Equal(t, StyleVeryLong, TierFor(strings.Repeat("x", 100)))

	// tiers count runes, not bytes
	assert.Equal(t, StyleNormal, TierFor(strings.Repeat("ص", 59)))
}
