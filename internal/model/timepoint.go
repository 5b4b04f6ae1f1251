package model

import "fmt"

// TimePoint is the engine's view of "now": the locale-adjusted minute of
// the day plus the (possibly rolled-over) day of week, 0 = Sunday.
type TimePoint struct {
	MinuteOfDay int `json:"minute_of_day"`
	DayOfWeek   int `json:"day_of_week"`
}

func (t TimePoint) String() string {
	return fmt.Sprintf("%02d:%02d (day %d)", t.MinuteOfDay/60, t.MinuteOfDay%60, t.DayOfWeek)
}
