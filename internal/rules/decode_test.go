package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjidtech/minaret/internal/model"
)

func TestDecodeMixedList(t *testing.T) {
	payload := []byte(`[
		{
			"id": "eid-banner",
			"type": "date_range",
			"start": "2025-03-28T00:00:00Z",
			"end": "2025-03-31T23:59:59Z",
			"text": {"message": "EID MUBARAK"},
			"special": true
		},
		{
			"id": "sunday-school",
			"type": "recurring_weekly",
			"day_of_week": 0,
			"timing": {
				"summer": {"start_ref": "zohr_jamaah", "end_ref": "asr_jamaah", "end_offset_minutes": 30}
			},
			"image": {"images": ["school.png"], "frequency_minutes": 10, "duration_seconds": 15}
		},
		{
			"id": "thursday_darood",
			"type": "control",
			"hide": true
		},
		{
			"id": "post-fajr",
			"type": "adhkar",
			"rank": 1,
			"trigger": {"post_jamaah": {"delay_minutes": 10, "jamaah_types": ["fajr_jamaah"]}},
			"display": {
				"page_count": 2,
				"page_distribution": [50, 50],
				"page_timings": ["02:00", "02:00"],
				"repeat_cycles": 3,
				"show_countdown": true
			},
			"text_source": "adhkar/morning.txt"
		}
	]`)

	fetchedAt := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	set, skipped := Decode(payload, fetchedAt)
	assert.Zero(t, skipped)
	require.Len(t, set.Rules, 4)
	assert.Equal(t, fetchedAt, set.FetchedAt)

	assert.Equal(t, model.RuleDateRange, set.Rules[0].Kind)
	assert.True(t, set.Rules[0].DateRange.Special)

	require.Equal(t, model.RuleRecurringWeekly, set.Rules[1].Kind)
	require.NotNil(t, set.Rules[1].Recurring.Timing.Summer)
	assert.Equal(t, model.RefZohrJamaah, set.Rules[1].Recurring.Timing.Summer.StartRef)

	assert.Equal(t, map[string]bool{"thursday_darood": true}, set.Controls())

	require.Equal(t, model.RuleAdhkar, set.Rules[3].Kind)
	assert.True(t, set.Rules[3].Adhkar.Enabled, "enabled defaults to true")
	require.NotNil(t, set.Rules[3].Adhkar.PostJamaah)
	assert.Equal(t, 10, set.Rules[3].Adhkar.PostJamaah.DelayMinutes)
}

func TestDecodeSkipsInvalidEntries(t *testing.T) {
	payload := []byte(`[
		{"type": "date_range"},
		{"id": "x", "type": "banner"},
		{"id": "y", "type": "date_range", "start": "2025-04-01T00:00:00Z", "end": "2025-03-01T00:00:00Z",
		 "text": {"message": "backwards"}},
		{"id": "z", "type": "recurring_weekly", "day_of_week": 9,
		 "timing": {"winter": {"start_ref": "fajr_begin", "end_ref": "sunrise"}},
		 "text": {"message": "m"}},
		{"id": "ok", "type": "control", "hide": false}
	]`)

	set, skipped := Decode(payload, time.Now())
	assert.Equal(t, 4, skipped)
	require.Len(t, set.Rules, 1)
	assert.Equal(t, "ok", set.Rules[0].ID)
}

func TestDecodeNotAnArray(t *testing.T) {
	set, skipped := Decode([]byte(`{"rules": []}`), time.Now())
	assert.Empty(t, set.Rules)
	assert.Zero(t, skipped)
}

func TestDecodeAdhkarValidation(t *testing.T) {
	base := `{
		"id": "a",
		"type": "adhkar",
		"trigger": {"post_jamaah": {"jamaah_types": ["isha_jamaah"]}},
		"display": {%s},
		"text_source": "adhkar/night.txt"
	}`

	tests := []struct {
		name    string
		display string
		ok      bool
	}{
		{"valid", `"page_count": 2, "page_distribution": [60, 40], "page_timings": ["01:00", "01:00"], "repeat_cycles": 1`, true},
		{"distribution length mismatch", `"page_count": 2, "page_distribution": [100], "page_timings": ["01:00", "01:00"], "repeat_cycles": 1`, false},
		{"percentages off", `"page_count": 2, "page_distribution": [60, 60], "page_timings": ["01:00", "01:00"], "repeat_cycles": 1`, false},
		{"no cycles", `"page_count": 1, "page_distribution": [100], "page_timings": ["01:00"], "repeat_cycles": 0`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := []byte("[" + fmt.Sprintf(base, tt.display) + "]")
			set, skipped := Decode(payload, time.Now())
			if tt.ok {
				assert.Len(t, set.Rules, 1)
				assert.Zero(t, skipped)
			} else {
				assert.Empty(t, set.Rules)
				assert.Equal(t, 1, skipped)
			}
		})
	}
}

func TestDecodeApplyToAllJamaahNeedsNoTypes(t *testing.T) {
	payload := []byte(`[{
		"id": "after-every-jamaah",
		"type": "adhkar",
		"trigger": {"post_jamaah": {"delay_minutes": 5, "apply_to_all_jamaah": true}},
		"display": {"page_count": 1, "page_distribution": [100], "page_timings": ["01:00"], "repeat_cycles": 1},
		"text_source": "adhkar/short.txt"
	}]`)

	set, skipped := Decode(payload, time.Now())
	assert.Zero(t, skipped)
	require.Len(t, set.Rules, 1)
	assert.True(t, set.Rules[0].Adhkar.PostJamaah.ApplyToAllJamaah)
	assert.Empty(t, set.Rules[0].Adhkar.PostJamaah.JamaahTypes)
}

func TestDecodeHonoursDisabledFlag(t *testing.T) {
	payload := []byte(`[{
		"id": "off",
		"type": "adhkar",
		"enabled": false,
		"trigger": {"dst_schedule": {"dst_type": "forward", "start_time": "21:00", "duration_minutes": 10}},
		"display": {"page_count": 1, "page_distribution": [100], "page_timings": ["01:00"], "repeat_cycles": 1},
		"text_source": "adhkar/evening.txt"
	}]`)

	set, skipped := Decode(payload, time.Now())
	assert.Zero(t, skipped)
	require.Len(t, set.Rules, 1)
	assert.False(t, set.Rules[0].Adhkar.Enabled)
	assert.Empty(t, set.AdhkarByRank())
}
