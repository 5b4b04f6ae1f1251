package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjidtech/minaret/internal/model"
)

func inputsAt(minute, day int) Inputs {
	return Inputs{
		Time:    model.TimePoint{MinuteOfDay: minute, DayOfWeek: day},
		Instant: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC), // a plain Monday
	}
}

func adhkarRule(id string, rank int, startMinute int) model.Rule {
	return model.Rule{ID: id, Kind: model.RuleAdhkar, Adhkar: &model.AdhkarRule{
		Rank:    rank,
		Enabled: true,
		PostJamaah: &model.PostJamaahTrigger{
			DelayMinutes: startMinute - 360, // relative to fajr jamaah 06:00
			JamaahTypes:  []model.Reference{model.RefFajrJamaah},
		},
		Display: model.AdhkarDisplayConfig{
			PageCount:        1,
			PageDistribution: []float64{100},
			PageTimings:      []string{"10:00"},
			RepeatCycles:     1,
		},
		TextSource: "adhkar/" + id + ".txt",
	}}
}

func TestResolveDefault(t *testing.T) {
	res := Resolve(inputsAt(10*60, 1), model.RuleSet{}, testRegistry())
	assert.Equal(t, model.DecisionDefault, res.Decision.Kind)
	assert.Equal(t, DefaultMessage, res.Decision.Message)
	assert.Nil(t, res.StartAdhkar)
}

func TestResolveWarningWindows(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name    string
		minute  int
		warning bool
	}{
		{"sunrise start", 6*60 + 45, true},
		{"sunrise last minute", 6*60 + 59, true},
		{"sunrise over", 7 * 60, false},
		{"zawal", 13*60 + 5, true},
		{"zawal over", 13*60 + 15, false},
		{"before sunset", 20*60 + 1, true},
		{"magrib begun", 20*60 + 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(inputsAt(tt.minute, 1), model.RuleSet{}, reg)
			if tt.warning {
				assert.Equal(t, model.DecisionWarning, res.Decision.Kind)
			} else {
				assert.NotEqual(t, model.DecisionWarning, res.Decision.Kind)
			}
		})
	}
}

func TestResolveWarningMessageWording(t *testing.T) {
	reg := testRegistry()

	res := Resolve(inputsAt(6*60+50, 1), model.RuleSet{}, reg)
	require.Equal(t, model.DecisionWarning, res.Decision.Kind)
	assert.Equal(t, "NO SALAH AFTER SUNRISE (6:45AM) • Please Wait Until 7:00AM", res.Decision.Message)

	res = Resolve(inputsAt(13*60+5, 1), model.RuleSet{}, reg)
	require.Equal(t, model.DecisionWarning, res.Decision.Kind)
	assert.Equal(t, "NO SALAH AT ZAWAL TIME (1:05PM) • Please Wait for Zohr to Begin (1:15PM)", res.Decision.Message)

	res = Resolve(inputsAt(20*60+5, 1), model.RuleSet{}, reg)
	require.Equal(t, model.DecisionWarning, res.Decision.Kind)
	assert.Equal(t, "NO SALAH DURING SUNSET • Please Wait for Magrib Adhan (8:10PM)", res.Decision.Message)
}

func TestResolveWarningBeatsEverything(t *testing.T) {
	reg := testRegistry()
	rules := model.RuleSet{Rules: []model.Rule{
		adhkarRule("morning", 1, 6*60+45),
		{ID: "banner", Kind: model.RuleDateRange, DateRange: &model.DateRangeRule{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			Text:  &model.TextPayload{Message: "OPEN DAY"},
		}},
	}}

	in := inputsAt(6*60+45, 1)
	res := Resolve(in, rules, reg)
	assert.Equal(t, model.DecisionWarning, res.Decision.Kind)
	assert.Nil(t, res.StartAdhkar, "a warning suppresses the adhkar trigger")

	in.AdhkarRunning = true
	res = Resolve(in, rules, reg)
	assert.Equal(t, model.DecisionWarning, res.Decision.Kind, "a warning outranks a live session")
}

func TestResolveAdhkarRanking(t *testing.T) {
	reg := testRegistry()
	// both trigger in the same minute; the lower rank wins
	rules := model.RuleSet{Rules: []model.Rule{
		adhkarRule("evening", 2, 370),
		adhkarRule("morning", 1, 370),
	}}

	res := Resolve(inputsAt(370, 1), rules, reg)
	assert.Equal(t, model.DecisionAdhkar, res.Decision.Kind)
	require.NotNil(t, res.StartAdhkar)
	assert.Equal(t, "morning", res.StartAdhkar.ID)
}

func TestResolveRunningSessionIsNotRetriggered(t *testing.T) {
	reg := testRegistry()
	rules := model.RuleSet{Rules: []model.Rule{adhkarRule("morning", 1, 370)}}

	in := inputsAt(370, 1)
	in.AdhkarRunning = true
	res := Resolve(in, rules, reg)
	assert.Equal(t, model.DecisionAdhkar, res.Decision.Kind)
	assert.Nil(t, res.StartAdhkar)
}

func TestResolveDynamicAnnouncement(t *testing.T) {
	reg := testRegistry()
	rules := model.RuleSet{Rules: []model.Rule{
		{ID: "first", Kind: model.RuleDateRange, DateRange: &model.DateRangeRule{
			Start: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
			Text:  &model.TextPayload{Message: "RAMADAN PREP CLASS"},
			Image: &model.ImagePayload{Images: []string{"class.png"}, DurationSeconds: 20, FrequencyMinutes: 5},
		}},
		{ID: "second", Kind: model.RuleDateRange, DateRange: &model.DateRangeRule{
			Start: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
			Text:  &model.TextPayload{Message: "SECOND TEXT"},
			Image: &model.ImagePayload{Images: []string{"other.png"}, DurationSeconds: 10, FrequencyMinutes: 2},
		}},
	}}

	res := Resolve(inputsAt(10*60, 1), rules, reg)
	require.Equal(t, model.DecisionAnnouncement, res.Decision.Kind)
	// first matching text wins, every image joins the merged cycle
	assert.Equal(t, "RAMADAN PREP CLASS", res.Decision.Message)
	require.NotNil(t, res.Decision.Images)
	assert.Len(t, res.Decision.Images.Entries, 2)
}

func TestResolveImageOnlyRuleKeepsDefaultText(t *testing.T) {
	reg := testRegistry()
	rules := model.RuleSet{Rules: []model.Rule{
		{ID: "gallery", Kind: model.RuleDateRange, DateRange: &model.DateRangeRule{
			Start: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
			Image: &model.ImagePayload{Images: []string{"event.png"}, DurationSeconds: 20},
		}},
	}}

	res := Resolve(inputsAt(10*60, 1), rules, reg)
	require.Equal(t, model.DecisionAnnouncement, res.Decision.Kind)
	assert.Equal(t, DefaultMessage, res.Decision.Message)
	require.NotNil(t, res.Decision.Images)
}

func TestResolveThursdayDarood(t *testing.T) {
	reg := testRegistry()

	// winter: closing jamaah is isha 22:15; window [fajr begin, closing+5)
	res := Resolve(inputsAt(19*60, 4), model.RuleSet{}, reg)
	require.Equal(t, model.DecisionAnnouncement, res.Decision.Kind)
	assert.Equal(t, thursdayDaroodMessage, res.Decision.Message)

	// after closing+6 the tafseer reminder takes over
	res = Resolve(inputsAt(22*60+25, 4), model.RuleSet{}, reg)
	require.Equal(t, model.DecisionAnnouncement, res.Decision.Kind)
	assert.Equal(t, fridayTafseerMessage, res.Decision.Message)

	// not on a Wednesday
	res = Resolve(inputsAt(19*60, 3), model.RuleSet{}, reg)
	assert.Equal(t, model.DecisionDefault, res.Decision.Kind)
}

func TestResolveFridayTafseer(t *testing.T) {
	reg := testRegistry()
	in := inputsAt(10*60, 5)
	in.Summer = true

	// summer: closing jamaah is magrib 20:15; window (00:01, closing+10)
	res := Resolve(in, model.RuleSet{}, reg)
	require.Equal(t, model.DecisionAnnouncement, res.Decision.Kind)
	assert.Equal(t, fridayTafseerMessage, res.Decision.Message)

	late := inputsAt(20*60+30, 5)
	late.Summer = true
	res = Resolve(late, model.RuleSet{}, reg)
	assert.Equal(t, model.DecisionDefault, res.Decision.Kind)
}

func TestResolveControlHidesBuiltins(t *testing.T) {
	reg := testRegistry()
	rules := model.RuleSet{Rules: []model.Rule{
		{ID: BuiltinThursdayDarood, Kind: model.RuleControl, Control: &model.ControlRule{Hide: true}},
	}}

	res := Resolve(inputsAt(19*60, 4), rules, reg)
	assert.Equal(t, model.DecisionDefault, res.Decision.Kind)
}

func TestResolveClockChangeReminder(t *testing.T) {
	reg := testRegistry()
	in := inputsAt(10*60, 6)
	in.Instant = time.Date(2025, 3, 29, 10, 0, 0, 0, time.UTC) // Saturday before spring change

	res := Resolve(in, model.RuleSet{}, reg)
	require.Equal(t, model.DecisionAnnouncement, res.Decision.Kind)
	assert.Equal(t, clocksForwardMessage, res.Decision.Message)
	assert.True(t, res.Decision.Special)

	hidden := model.RuleSet{Rules: []model.Rule{
		{ID: BuiltinClockChange, Kind: model.RuleControl, Control: &model.ControlRule{Hide: true}},
	}}
	res = Resolve(in, hidden, reg)
	assert.Equal(t, model.DecisionDefault, res.Decision.Kind)
}
