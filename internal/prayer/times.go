// Package prayer holds the day's prayer-time readouts and the monthly
// timetable they are loaded from.
package prayer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMinutes converts an "HH:MM" readout to minute-of-day. The second
// return is false for malformed input.
func ParseMinutes(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatMinutes renders a minute-of-day as "HH:MM", wrapping past midnight.
func FormatMinutes(min int) string {
	min %= 24 * 60
	if min < 0 {
		min += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// AddMinutes shifts an "HH:MM" readout, wrapping past midnight. Malformed
// input comes back unchanged.
func AddMinutes(s string, delta int) string {
	min, ok := ParseMinutes(s)
	if !ok {
		return s
	}
	return FormatMinutes(min + delta)
}

// FormatAmPm renders an "HH:MM" readout as "h:mmAM"/"h:mmPM" for the
// announcement band. Malformed input comes back unchanged.
func FormatAmPm(s string) string {
	min, ok := ParseMinutes(s)
	if !ok {
		return s
	}
	h24 := min / 60
	period := "AM"
	if h24 >= 12 {
		period = "PM"
	}
	h12 := h24 % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d%s", h12, min%60, period)
}
