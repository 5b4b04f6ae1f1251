package engine

import (
	"time"

	"github.com/masjidtech/minaret/internal/clock"
	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/prayer"
)

// Inputs is everything one tick's resolution depends on. All of it is read
// before resolving so the decision is a pure function of this snapshot.
type Inputs struct {
	Time    model.TimePoint
	Instant time.Time
	Summer  bool

	// AdhkarRunning short-circuits the adhkar layer: a live session keeps
	// its claim until it finishes, it is never re-triggered.
	AdhkarRunning bool
}

// Resolution is the resolver's verdict for one tick. StartAdhkar is set
// when an adhkar rule fired this tick and no session was running.
type Resolution struct {
	Decision    model.Decision
	StartAdhkar *model.Rule
}

// Resolve applies the strict priority order: warnings, adhkar, dynamic
// announcements, built-in recurring messages, default. The first layer to
// commit wins; lower layers are not evaluated. The text band and the image
// overlay are independent channels, so dynamic images ride along with
// whichever text layer commits.
func Resolve(in Inputs, rules model.RuleSet, reg *prayer.Registry) Resolution {
	if msg, ok := warningAt(in.Time.MinuteOfDay, reg); ok {
		return Resolution{Decision: model.Decision{Kind: model.DecisionWarning, Message: msg}}
	}

	if in.AdhkarRunning {
		return Resolution{Decision: model.Decision{Kind: model.DecisionAdhkar}}
	}
	if rule := firstTriggeredAdhkar(in, rules, reg); rule != nil {
		return Resolution{
			Decision:    model.Decision{Kind: model.DecisionAdhkar},
			StartAdhkar: rule,
		}
	}

	text, special, images := dynamicAnnouncements(in, rules, reg)
	if text == "" {
		if msg, sp, ok := recurringFallback(in, rules.Controls(), reg); ok {
			text, special = msg, sp
		}
	}
	if text == "" && images == nil {
		return Resolution{Decision: model.Decision{Kind: model.DecisionDefault, Message: DefaultMessage}}
	}
	if text == "" {
		text = DefaultMessage
	}
	return Resolution{Decision: model.Decision{
		Kind:    model.DecisionAnnouncement,
		Message: text,
		Special: special,
		Images:  images,
	}}
}

// warningAt checks the three no-salah windows. Real solar timings keep them
// disjoint, so the first hit is the only hit.
func warningAt(minute int, reg *prayer.Registry) (string, bool) {
	sunrise := reg.Minutes(model.RefSunrise)
	if minute >= sunrise && minute < sunrise+sunriseWarningMinutes {
		return sunriseWarning(reg.Readout(model.RefSunrise)), true
	}
	zawal := reg.Minutes(model.RefZawal)
	if minute >= zawal && minute < zawal+zawalWarningMinutes {
		return zawalWarning(reg.Readout(model.RefZawal), reg.Readout(model.RefZohrBegin)), true
	}
	magrib := reg.Minutes(model.RefMagribBegin)
	if minute >= magrib-sunsetWarningMinutes && minute < magrib {
		return sunsetWarning(reg.Readout(model.RefMagribBegin)), true
	}
	return "", false
}

func firstTriggeredAdhkar(in Inputs, rules model.RuleSet, reg *prayer.Registry) *model.Rule {
	for _, r := range rules.AdhkarByRank() {
		a := r.Adhkar
		fired := false
		switch {
		case a.PostJamaah != nil:
			fired = EvaluatePostJamaah(a.PostJamaah, a.Display, in.Time, reg)
		case a.DstSchedule != nil:
			fired = EvaluateDstSchedule(a.DstSchedule, a.Display, in.Time, in.Summer)
		}
		if fired {
			rule := r
			return &rule
		}
	}
	return nil
}

// dynamicAnnouncements scans date-range and recurring rules in declaration
// order: the first matching text wins, every matching image payload joins
// the merged cycle.
func dynamicAnnouncements(in Inputs, rules model.RuleSet, reg *prayer.Registry) (string, bool, *model.ImageCycle) {
	text := ""
	special := false
	var imagePayloads []model.ImagePayload

	for _, r := range rules.Rules {
		var matched bool
		var rtext *model.TextPayload
		var rimage *model.ImagePayload
		var rspecial bool
		switch r.Kind {
		case model.RuleDateRange:
			matched = EvaluateDateRange(r.DateRange, in.Instant)
			if matched {
				rtext, rimage, rspecial = r.DateRange.Text, r.DateRange.Image, r.DateRange.Special
			}
		case model.RuleRecurringWeekly:
			matched = EvaluateRecurringWeekly(r.Recurring, in.Time, in.Summer, reg)
			if matched {
				rtext, rimage, rspecial = r.Recurring.Text, r.Recurring.Image, r.Recurring.Special
			}
		default:
			continue
		}
		if !matched {
			continue
		}
		if text == "" && rtext != nil {
			text = rtext.Message
			special = rspecial
		}
		if rimage != nil {
			imagePayloads = append(imagePayloads, *rimage)
		}
	}
	return text, special, BuildImageCycle(imagePayloads)
}

// recurringFallback evaluates the built-in weekly messages: Thursday darood
// and Friday tafseer tracking the season's closing jamaah, plus the
// clock-change reminder on the eve of a transition.
func recurringFallback(in Inputs, controls map[string]bool, reg *prayer.Registry) (string, bool, bool) {
	closing := model.RefIshaJamaah
	if in.Summer {
		closing = model.RefMagribJamaah
	}
	closingMin := reg.Minutes(closing)
	minute := in.Time.MinuteOfDay

	const thursday = 4
	switch in.Time.DayOfWeek {
	case thursday:
		if controls[BuiltinThursdayDarood] && controls[BuiltinFridayTafseer] {
			break
		}
		fajr := reg.Minutes(model.RefFajrBegin)
		if !controls[BuiltinThursdayDarood] && minute >= fajr && minute < closingMin+5 {
			return thursdayDaroodMessage, false, true
		}
		if !controls[BuiltinFridayTafseer] && minute >= closingMin+6 && minute < 23*60+59 {
			return fridayTafseerMessage, false, true
		}
	case fridayWeekday:
		if !controls[BuiltinFridayTafseer] && minute > 1 && minute < closingMin+10 {
			return fridayTafseerMessage, false, true
		}
	}

	if !controls[BuiltinClockChange] {
		if forward, ok := clock.TransitionReminder(in.Instant); ok {
			if forward {
				return clocksForwardMessage, true, true
			}
			return clocksBackwardMessage, true, true
		}
	}
	return "", false, false
}
