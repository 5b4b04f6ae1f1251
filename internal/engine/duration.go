package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/masjidtech/minaret/internal/model"
)

// defaultDisplayMinutes applies when a display config carries neither page
// timings nor a total duration.
const defaultDisplayMinutes = 5

// ParseTimingSeconds reads one page timing: "mm:ss", or a bare number of
// minutes.
func ParseTimingSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timing")
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		m, err1 := strconv.Atoi(s[:i])
		sec, err2 := strconv.Atoi(s[i+1:])
		if err1 != nil || err2 != nil || m < 0 || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid timing %q", s)
		}
		return m*60 + sec, nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid timing %q", s)
	}
	return m * 60, nil
}

// TotalDisplaySeconds is the full on-screen time of one adhkar cycle set:
// the sum of page timings when present, else the configured total, else the
// default.
func TotalDisplaySeconds(d model.AdhkarDisplayConfig) int {
	if len(d.PageTimings) > 0 {
		total := 0
		valid := false
		for _, t := range d.PageTimings {
			sec, err := ParseTimingSeconds(t)
			if err != nil {
				continue
			}
			total += sec
			valid = true
		}
		if valid {
			return total
		}
	}
	if d.TotalDurationMinutes > 0 {
		return d.TotalDurationMinutes * 60
	}
	return defaultDisplayMinutes * 60
}

// TotalDisplayMinutes rounds the display duration up to whole minutes, the
// granularity trigger windows are computed in.
func TotalDisplayMinutes(d model.AdhkarDisplayConfig) int {
	return (TotalDisplaySeconds(d) + 59) / 60
}
