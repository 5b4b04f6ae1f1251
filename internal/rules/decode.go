// Package rules parses the remote announcement list into typed rule
// variants at the boundary. Individual malformed entries are skipped so one
// bad record never takes down the whole snapshot.
package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/model"
)

// envelope is the duck-typed wire shape of one rule entry. Only the fields
// belonging to the declared type are honoured.
type envelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// date_range
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`

	// recurring_weekly
	DayOfWeek *int                  `json:"day_of_week,omitempty"`
	Timing    *model.SeasonalTiming `json:"timing,omitempty"`
	Hidden    bool                  `json:"hidden,omitempty"`

	// shared payloads
	Text    *model.TextPayload  `json:"text,omitempty"`
	Image   *model.ImagePayload `json:"image,omitempty"`
	Special bool                `json:"special,omitempty"`

	// control
	Hide *bool `json:"hide,omitempty"`

	// adhkar
	Rank    int `json:"rank,omitempty"`
	Enabled bool
	Trigger *struct {
		PostJamaah  *model.PostJamaahTrigger  `json:"post_jamaah,omitempty"`
		DstSchedule *model.DstScheduleTrigger `json:"dst_schedule,omitempty"`
	} `json:"trigger,omitempty"`
	Display    *model.AdhkarDisplayConfig `json:"display,omitempty"`
	TextSource string                     `json:"text_source,omitempty"`
}

func (e *envelope) UnmarshalJSON(data []byte) error {
	type alias envelope
	a := alias{Enabled: true} // enabled unless the entry says otherwise
	var flags struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	if flags.Enabled != nil {
		a.Enabled = *flags.Enabled
	}
	*e = envelope(a)
	return nil
}

// Decode parses the remote rule list. The returned set holds every valid
// entry in declaration order; skipped counts invalid ones.
func Decode(data []byte, fetchedAt time.Time) (model.RuleSet, int) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Error().Err(err).Msg("rule list is not a JSON array")
		return model.RuleSet{FetchedAt: fetchedAt}, 0
	}

	set := model.RuleSet{FetchedAt: fetchedAt}
	skipped := 0
	for i, entry := range raw {
		var env envelope
		if err := json.Unmarshal(entry, &env); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping undecodable rule entry")
			skipped++
			continue
		}
		rule, err := env.toRule()
		if err != nil {
			log.Warn().Err(err).Int("index", i).Str("id", env.ID).Msg("skipping invalid rule entry")
			skipped++
			continue
		}
		set.Rules = append(set.Rules, rule)
	}
	return set, skipped
}

func (e envelope) toRule() (model.Rule, error) {
	if e.ID == "" {
		return model.Rule{}, fmt.Errorf("missing id")
	}
	switch model.RuleKind(e.Type) {
	case model.RuleDateRange:
		return e.toDateRange()
	case model.RuleRecurringWeekly:
		return e.toRecurring()
	case model.RuleControl:
		if e.Hide == nil {
			return model.Rule{}, fmt.Errorf("control rule missing hide flag")
		}
		return model.Rule{ID: e.ID, Kind: model.RuleControl,
			Control: &model.ControlRule{Hide: *e.Hide}}, nil
	case model.RuleAdhkar:
		return e.toAdhkar()
	}
	return model.Rule{}, fmt.Errorf("unknown rule type %q", e.Type)
}

func (e envelope) toDateRange() (model.Rule, error) {
	if e.Start == nil || e.End == nil {
		return model.Rule{}, fmt.Errorf("date range rule missing start/end")
	}
	if e.End.Before(*e.Start) {
		return model.Rule{}, fmt.Errorf("date range ends before it starts")
	}
	if err := validatePayloads(e.Text, e.Image); err != nil {
		return model.Rule{}, err
	}
	return model.Rule{ID: e.ID, Kind: model.RuleDateRange, DateRange: &model.DateRangeRule{
		Start:   *e.Start,
		End:     *e.End,
		Text:    e.Text,
		Image:   e.Image,
		Special: e.Special,
	}}, nil
}

func (e envelope) toRecurring() (model.Rule, error) {
	if e.DayOfWeek == nil || *e.DayOfWeek < 0 || *e.DayOfWeek > 6 {
		return model.Rule{}, fmt.Errorf("recurring rule needs day_of_week 0..6")
	}
	if e.Timing == nil || (e.Timing.Summer == nil && e.Timing.Winter == nil) {
		return model.Rule{}, fmt.Errorf("recurring rule needs at least one seasonal window")
	}
	for _, w := range []*model.WeeklyWindow{e.Timing.Summer, e.Timing.Winter} {
		if w == nil {
			continue
		}
		if !w.StartRef.Valid() || !w.EndRef.Valid() {
			return model.Rule{}, fmt.Errorf("recurring rule has unknown prayer reference")
		}
	}
	if err := validatePayloads(e.Text, e.Image); err != nil {
		return model.Rule{}, err
	}
	return model.Rule{ID: e.ID, Kind: model.RuleRecurringWeekly, Recurring: &model.RecurringWeeklyRule{
		DayOfWeek: *e.DayOfWeek,
		Timing:    *e.Timing,
		Text:      e.Text,
		Image:     e.Image,
		Special:   e.Special,
		Hidden:    e.Hidden,
	}}, nil
}

func (e envelope) toAdhkar() (model.Rule, error) {
	if e.Trigger == nil || (e.Trigger.PostJamaah == nil) == (e.Trigger.DstSchedule == nil) {
		return model.Rule{}, fmt.Errorf("adhkar rule needs exactly one trigger")
	}
	if e.TextSource == "" {
		return model.Rule{}, fmt.Errorf("adhkar rule missing text_source")
	}
	if e.Display == nil {
		return model.Rule{}, fmt.Errorf("adhkar rule missing display config")
	}
	if err := validateAdhkarDisplay(*e.Display); err != nil {
		return model.Rule{}, err
	}
	if pj := e.Trigger.PostJamaah; pj != nil {
		if !pj.ApplyToAllJamaah && len(pj.JamaahTypes) == 0 {
			return model.Rule{}, fmt.Errorf("post-jamaah trigger lists no jamaah types")
		}
		for _, ref := range pj.JamaahTypes {
			if !ref.Valid() {
				return model.Rule{}, fmt.Errorf("post-jamaah trigger has unknown reference %q", ref)
			}
		}
	}
	if ds := e.Trigger.DstSchedule; ds != nil {
		if ds.DstType != model.DstForward && ds.DstType != model.DstBackward {
			return model.Rule{}, fmt.Errorf("dst trigger has unknown type %q", ds.DstType)
		}
	}
	return model.Rule{ID: e.ID, Kind: model.RuleAdhkar, Adhkar: &model.AdhkarRule{
		Rank:        e.Rank,
		Enabled:     e.Enabled,
		PostJamaah:  e.Trigger.PostJamaah,
		DstSchedule: e.Trigger.DstSchedule,
		Display:     *e.Display,
		TextSource:  e.TextSource,
	}}, nil
}

func validatePayloads(text *model.TextPayload, image *model.ImagePayload) error {
	if text == nil && image == nil {
		return fmt.Errorf("rule carries neither text nor image payload")
	}
	if text != nil && text.Message == "" {
		return fmt.Errorf("text payload has empty message")
	}
	if image != nil {
		if len(image.Images) == 0 {
			return fmt.Errorf("image payload lists no images")
		}
		if image.DurationSeconds <= 0 {
			return fmt.Errorf("image payload needs a positive duration")
		}
	}
	return nil
}

// percentTolerance absorbs rounding in hand-written distributions.
const percentTolerance = 1.0

func validateAdhkarDisplay(d model.AdhkarDisplayConfig) error {
	if d.PageCount < 1 {
		return fmt.Errorf("display needs at least one page")
	}
	if d.RepeatCycles < 1 {
		return fmt.Errorf("display needs at least one cycle")
	}
	if len(d.PageDistribution) != d.PageCount || len(d.PageTimings) != d.PageCount {
		return fmt.Errorf("page distribution/timings must both have %d entries", d.PageCount)
	}
	sum := 0.0
	for _, p := range d.PageDistribution {
		if p < 0 {
			return fmt.Errorf("negative page percentage")
		}
		sum += p
	}
	if math.Abs(sum-100) > percentTolerance {
		return fmt.Errorf("page percentages sum to %.1f, want 100", sum)
	}
	return nil
}
