package clock

import "time"

// The regional rule: summer time runs from 01:00 UTC on the last Sunday of
// March until 01:00 UTC on the last Sunday of October.
const (
	summerStartMonth = time.March
	summerEndMonth   = time.October
	transitionHour   = 1
)

// IsSummer reports whether the seasonal +1h offset applies at t.
func IsSummer(t time.Time) bool {
	start := transitionInstant(t.Year(), summerStartMonth)
	end := transitionInstant(t.Year(), summerEndMonth)
	return !t.Before(start) && t.Before(end)
}

// SeasonalOffsetMinutes is 60 during summer time, 0 otherwise.
func SeasonalOffsetMinutes(t time.Time) int {
	if IsSummer(t) {
		return 60
	}
	return 0
}

// TransitionReminder reports whether t falls on the day before a seasonal
// clock change, and which way the clocks move. Changes happen on a Sunday,
// so the reminder day is the preceding Saturday.
func TransitionReminder(t time.Time) (forward bool, ok bool) {
	y, m, d := t.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	spring := lastSunday(t.Year(), summerStartMonth).AddDate(0, 0, -1)
	if today.Equal(spring) {
		return true, true
	}
	fall := lastSunday(t.Year(), summerEndMonth).AddDate(0, 0, -1)
	if today.Equal(fall) {
		return false, true
	}
	return false, false
}

func transitionInstant(year int, month time.Month) time.Time {
	d := lastSunday(year, month)
	return time.Date(d.Year(), d.Month(), d.Day(), transitionHour, 0, 0, 0, time.UTC)
}

func lastSunday(year int, month time.Month) time.Time {
	// day 0 of the next month is the last day of this one
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
