package engine

import (
	"time"

	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/prayer"
)

const fridayWeekday = 5

// EvaluateRecurringWeekly reports whether a weekly rule is active at tp.
// The window runs from the seasonal start reference to the end reference
// plus its offset, bounds inclusive.
func EvaluateRecurringWeekly(rule *model.RecurringWeeklyRule, tp model.TimePoint, summer bool, reg *prayer.Registry) bool {
	if rule == nil || rule.Hidden || tp.DayOfWeek != rule.DayOfWeek {
		return false
	}
	timing := rule.Timing.Winter
	if summer {
		timing = rule.Timing.Summer
	}
	if timing == nil {
		return false
	}
	start := reg.Minutes(timing.StartRef)
	end := reg.Minutes(timing.EndRef) + timing.EndOffsetMinutes
	return tp.MinuteOfDay >= start && tp.MinuteOfDay <= end
}

// EvaluateDateRange reports whether an absolute window covers the instant,
// bounds inclusive.
func EvaluateDateRange(rule *model.DateRangeRule, instant time.Time) bool {
	if rule == nil {
		return false
	}
	return !instant.Before(rule.Start) && !instant.After(rule.End)
}

// EvaluatePostJamaah reports whether the trigger is live: a fixed delay
// after any listed jamaah (or every jamaah when ApplyToAllJamaah is set),
// for the display's total duration, end exclusive. Friday exclusions drop
// zohr or the whole day.
func EvaluatePostJamaah(trig *model.PostJamaahTrigger, display model.AdhkarDisplayConfig, tp model.TimePoint, reg *prayer.Registry) bool {
	if trig == nil {
		return false
	}
	friday := tp.DayOfWeek == fridayWeekday
	if friday && trig.ExcludeFriday {
		return false
	}
	refs := trig.JamaahTypes
	if trig.ApplyToAllJamaah {
		refs = model.JamaahReferences
	}
	duration := TotalDisplayMinutes(display)
	for _, ref := range refs {
		if friday && trig.ExcludeFridayZohr && ref == model.RefZohrJamaah {
			continue
		}
		start := reg.Minutes(ref) + trig.DelayMinutes
		if tp.MinuteOfDay >= start && tp.MinuteOfDay < start+duration {
			return true
		}
	}
	return false
}

// EvaluateDstSchedule reports whether a season-bound fixed-time trigger is
// live. The trigger only applies while its season is in effect.
func EvaluateDstSchedule(trig *model.DstScheduleTrigger, display model.AdhkarDisplayConfig, tp model.TimePoint, summer bool) bool {
	if trig == nil {
		return false
	}
	if (trig.DstType == model.DstForward) != summer {
		return false
	}
	startTime := trig.StartTime
	if summer && trig.Summer != nil {
		startTime = trig.Summer.StartTime
	} else if !summer && trig.Winter != nil {
		startTime = trig.Winter.StartTime
	}
	start, ok := prayer.ParseMinutes(startTime)
	if !ok {
		return false
	}
	duration := trig.DurationMinutes
	if duration <= 0 {
		duration = TotalDisplayMinutes(display)
	}
	return tp.MinuteOfDay >= start && tp.MinuteOfDay < start+duration
}
