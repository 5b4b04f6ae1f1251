package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitVerses(t *testing.T) {
	verses := SplitVerses("first | second |  | third|")
	assert.Equal(t, []string{"first", "second", "third"}, verses)
	assert.Nil(t, SplitVerses("  "))
}

func TestDistributeVerses(t *testing.T) {
	verses := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	pages := DistributeVerses(verses, []float64{30, 30, 40})
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"a", "b", "c"}, pages[0])
	assert.Equal(t, []string{"d", "e", "f"}, pages[1])
	// the final page absorbs the rounding slack
	assert.Equal(t, []string{"g", "h", "i", "j"}, pages[2])
}

func TestDistributeVersesIsDeterministic(t *testing.T) {
	verses := []string{"a", "b", "c", "d", "e", "f", "g"}
	first := DistributeVerses(verses, []float64{50, 50})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DistributeVerses(verses, []float64{50, 50}))
	}
}

func TestDistributeVersesFewerVersesThanPages(t *testing.T) {
	pages := DistributeVerses([]string{"a", "b"}, []float64{25, 25, 25, 25})
	require.Len(t, pages, 4)
	assert.Equal(t, []string{"a"}, pages[0])
	assert.Equal(t, []string{"b"}, pages[1])
	assert.Empty(t, pages[2])
	assert.Empty(t, pages[3])
}
