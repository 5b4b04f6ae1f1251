package prayer

import (
	"fmt"

	"github.com/masjidtech/minaret/internal/model"
)

// DriftViolation flags a day whose time moved against the expected seasonal
// pattern, or by more than the plausible daily step.
type DriftViolation struct {
	Month     int
	Date      int
	Reference model.Reference
	Previous  string
	Current   string
	Diff      int
	Expected  string
}

func (v DriftViolation) String() string {
	return fmt.Sprintf("month %d day %d %s: %s -> %s (%+d min, expected %s)",
		v.Month, v.Date, v.Reference, v.Previous, v.Current, v.Diff, v.Expected)
}

// maxDailyDriftMinutes is the largest day-to-day movement a real timetable
// shows; anything bigger is almost certainly a transcription error.
const maxDailyDriftMinutes = 5

var validatedRefs = []model.Reference{
	model.RefFajrBegin,
	model.RefSunrise,
	model.RefZohrBegin,
	model.RefAsrBegin,
	model.RefMagribBegin,
	model.RefIshaBegin,
}

// ValidateTimetable checks that consecutive days drift gently in the
// direction the season dictates. Violations are reported for review; the
// timetable still loads.
func ValidateTimetable(days []TimetableDay) []DriftViolation {
	var out []DriftViolation
	for i := 1; i < len(days); i++ {
		prev, curr := days[i-1], days[i]
		if prev.Month != curr.Month {
			continue
		}
		for _, ref := range validatedRefs {
			pv, pok := prev.Times[ref]
			cv, cok := curr.Times[ref]
			if !pok || !cok {
				continue
			}
			pm, _ := ParseMinutes(pv)
			cm, _ := ParseMinutes(cv)
			diff := cm - pm
			expected := expectedDrift(curr.Month, ref)
			bad := false
			switch expected {
			case "increment":
				bad = diff < 0 || diff > maxDailyDriftMinutes
			case "decrement":
				bad = diff > 0 || diff < -maxDailyDriftMinutes
			}
			if bad {
				out = append(out, DriftViolation{
					Month:     curr.Month,
					Date:      curr.Date,
					Reference: ref,
					Previous:  pv,
					Current:   cv,
					Diff:      diff,
					Expected:  expected,
				})
			}
		}
	}
	return out
}

// expectedDrift encodes how each time moves through the year at this
// latitude: dawn times lengthen July-December, midday and afternoon times
// pull back late summer through autumn.
func expectedDrift(month int, ref model.Reference) string {
	switch ref {
	case model.RefFajrBegin, model.RefSunrise:
		if month >= 7 {
			return "increment"
		}
		return "decrement"
	case model.RefZohrBegin, model.RefAsrBegin:
		if month >= 8 && month <= 11 {
			return "decrement"
		}
		return "increment"
	case model.RefMagribBegin, model.RefIshaBegin:
		if month >= 7 && month <= 11 {
			return "decrement"
		}
		return "increment"
	}
	return "increment"
}
