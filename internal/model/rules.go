package model

import "time"

type RuleKind string

const (
	RuleDateRange       RuleKind = "date_range"
	RuleRecurringWeekly RuleKind = "recurring_weekly"
	RuleControl         RuleKind = "control"
	RuleAdhkar          RuleKind = "adhkar"
)

// Rule is one validated entry of the remote announcement list. Exactly one
// of the variant pointers is set, matching Kind. Declaration order in the
// source list is preserved because text matching is first-wins.
type Rule struct {
	ID   string   `json:"id"`
	Kind RuleKind `json:"type"`

	DateRange *DateRangeRule       `json:"date_range,omitempty"`
	Recurring *RecurringWeeklyRule `json:"recurring,omitempty"`
	Control   *ControlRule         `json:"control,omitempty"`
	Adhkar    *AdhkarRule          `json:"adhkar,omitempty"`
}

// TextPayload is a message shown in the announcement band.
type TextPayload struct {
	Message string `json:"message"`
}

// ImagePayload describes a full-screen image rotation request.
type ImagePayload struct {
	Images           []string `json:"images"`
	FrequencyMinutes int      `json:"frequency_minutes"`
	DurationSeconds  int      `json:"duration_seconds"`
	AvoidJamaahTime  bool     `json:"avoid_jamaah_time"`
}

// DateRangeRule is active inside an absolute instant window, bounds inclusive.
type DateRangeRule struct {
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Text    *TextPayload  `json:"text,omitempty"`
	Image   *ImagePayload `json:"image,omitempty"`
	Special bool          `json:"special"`
}

// WeeklyWindow bounds a recurring window by prayer references rather than
// fixed clock times, so it tracks the timetable through the year.
type WeeklyWindow struct {
	StartRef         Reference `json:"start_ref"`
	EndRef           Reference `json:"end_ref"`
	EndOffsetMinutes int       `json:"end_offset_minutes"`
}

// SeasonalTiming selects a window per daylight-saving season. A missing
// season means the rule is inactive in that season.
type SeasonalTiming struct {
	Summer *WeeklyWindow `json:"summer,omitempty"`
	Winter *WeeklyWindow `json:"winter,omitempty"`
}

// RecurringWeeklyRule is active on one weekday, inside the seasonal window.
type RecurringWeeklyRule struct {
	DayOfWeek int            `json:"day_of_week"`
	Timing    SeasonalTiming `json:"timing"`
	Text      *TextPayload   `json:"text,omitempty"`
	Image     *ImagePayload  `json:"image,omitempty"`
	Special   bool           `json:"special"`
	Hidden    bool           `json:"hidden"`
}

// ControlRule toggles a built-in recurring message; it renders nothing
// itself. The rule ID names the built-in it suppresses.
type ControlRule struct {
	Hide bool `json:"hide"`
}

// PostJamaahTrigger fires a fixed delay after any of the listed jamaah
// times, for the display's total duration.
type PostJamaahTrigger struct {
	ApplyToAllJamaah  bool        `json:"apply_to_all_jamaah"`
	DelayMinutes      int         `json:"delay_minutes"`
	JamaahTypes       []Reference `json:"jamaah_types"`
	ExcludeFridayZohr bool        `json:"exclude_friday_zohr"`
	ExcludeFriday     bool        `json:"exclude_friday"`
}

type DstType string

const (
	DstForward  DstType = "forward"
	DstBackward DstType = "backward"
)

// SeasonalStart gives a fixed "HH:MM" start per season.
type SeasonalStart struct {
	StartTime string `json:"start_time"`
}

// DstScheduleTrigger fires at a fixed clock time, but only while the
// matching daylight-saving season is in effect.
type DstScheduleTrigger struct {
	DstType         DstType        `json:"dst_type"`
	Summer          *SeasonalStart `json:"summer,omitempty"`
	Winter          *SeasonalStart `json:"winter,omitempty"`
	StartTime       string         `json:"start_time,omitempty"`
	DurationMinutes int            `json:"duration_minutes"`
}

// AdhkarDisplayConfig shapes the page-by-page presentation of an adhkar
// text. PageDistribution and PageTimings are indexed per page and must both
// have PageCount entries; timings are "mm:ss" or bare minutes.
type AdhkarDisplayConfig struct {
	PageCount               int       `json:"page_count"`
	PageDistribution        []float64 `json:"page_distribution"`
	PageTimings             []string  `json:"page_timings"`
	RepeatCycles            int       `json:"repeat_cycles"`
	ShowImagesBetweenCycles bool      `json:"show_images_between_cycles"`
	ShowCountdown           bool      `json:"show_countdown"`
	TakesOverImages         bool      `json:"takes_over_images"`
	TotalDurationMinutes    int       `json:"total_duration_minutes,omitempty"`
}

// AdhkarRule schedules a multi-page recitation text. Lower rank wins when
// several rules trigger in the same minute.
type AdhkarRule struct {
	Rank        int                 `json:"rank"`
	Enabled     bool                `json:"enabled"`
	PostJamaah  *PostJamaahTrigger  `json:"post_jamaah,omitempty"`
	DstSchedule *DstScheduleTrigger `json:"dst_schedule,omitempty"`
	Display     AdhkarDisplayConfig `json:"display"`
	TextSource  string              `json:"text_source"`
}

// RuleSet is the decoded snapshot of the remote rule list.
type RuleSet struct {
	Rules     []Rule    `json:"rules"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Controls returns the hide-state for built-in messages keyed by rule ID.
func (rs RuleSet) Controls() map[string]bool {
	out := make(map[string]bool)
	for _, r := range rs.Rules {
		if r.Kind == RuleControl && r.Control != nil {
			out[r.ID] = r.Control.Hide
		}
	}
	return out
}

// AdhkarByRank returns enabled adhkar rules sorted ascending by rank,
// declaration order breaking ties.
func (rs RuleSet) AdhkarByRank() []Rule {
	var out []Rule
	for _, r := range rs.Rules {
		if r.Kind == RuleAdhkar && r.Adhkar != nil && r.Adhkar.Enabled {
			out = append(out, r)
		}
	}
	// insertion sort keeps the scan stable for equal ranks
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Adhkar.Rank < out[j-1].Adhkar.Rank; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
