// Package clock resolves wall-clock time into the display's local view of
// the day: minute-of-day plus day-of-week, adjusted for the regional
// daylight-saving rule, with an overridable simulation mode for testing
// screens against arbitrary times.
package clock

import "time"

// Clock supplies the current instant. The engine always works from UTC and
// applies the seasonal offset itself.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}
