package engine

import "strings"

// VerseSeparator delimits verse units in an adhkar text file. Pages are
// built from whole verses; a verse is never cut mid-unit.
const VerseSeparator = "|"

// SplitVerses breaks an adhkar text into its verse units, dropping blanks.
func SplitVerses(text string) []string {
	var out []string
	for _, v := range strings.Split(text, VerseSeparator) {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// DistributeVerses assigns verses to pages by percentage. Each page keeps
// at least one verse while verses remain, and the final page absorbs the
// rounding slack. The split is deterministic for a given input.
func DistributeVerses(verses []string, percentages []float64) [][]string {
	pageCount := len(percentages)
	if pageCount == 0 {
		return nil
	}
	pages := make([][]string, pageCount)
	total := len(verses)
	idx := 0
	for i := 0; i < pageCount; i++ {
		if i == pageCount-1 {
			pages[i] = verses[idx:]
			break
		}
		n := int(float64(total) * percentages[i] / 100)
		if n < 1 {
			n = 1
		}
		if n > total-idx {
			n = total - idx
		}
		pages[i] = verses[idx : idx+n]
		idx += n
	}
	return pages
}
