package prayer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/masjidtech/minaret/internal/model"
)

// TimetableDay is one row of the monthly timetable: every reference's
// "HH:MM" value for a calendar day.
type TimetableDay struct {
	Month int
	Date  int
	Times map[model.Reference]string
}

// timetableColumns maps CSV headers to references, in the column order the
// timetable pipeline produces. ZAWAL is optional; older sheets omit it.
var timetableColumns = map[string]model.Reference{
	"FAJR BEGINNING":    model.RefFajrBegin,
	"SUNRISE BEGINNING": model.RefSunrise,
	"SUNRISE":           model.RefSunrise,
	"ZOHR BEGINNING":    model.RefZohrBegin,
	"ASAR BEGINNING":    model.RefAsrBegin,
	"MAGRIB BEGINNING":  model.RefMagribBegin,
	"ISHA BEGINNING":    model.RefIshaBegin,
	"FAJR JAMAAH":       model.RefFajrJamaah,
	"ZOHR JAMAAH":       model.RefZohrJamaah,
	"ASAR JAMAAH":       model.RefAsrJamaah,
	"MAGRIB JAMAAH":     model.RefMagribJamaah,
	"ISHA JAMAAH":       model.RefIshaJamaah,
	"ZAWAL":             model.RefZawal,
}

// LoadTimetable parses the timetable CSV. A bare double-quote cell is a
// ditto mark carrying the previous day's value forward, the way the source
// sheets are written.
func LoadTimetable(r io.Reader) ([]TimetableDay, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read timetable header: %w", err)
	}
	refByColumn := make([]model.Reference, len(header))
	monthCol, dateCol := -1, -1
	for i, h := range header {
		name := strings.ToUpper(strings.TrimSpace(h))
		switch name {
		case "MONTH":
			monthCol = i
		case "DATE":
			dateCol = i
		default:
			refByColumn[i] = timetableColumns[name]
		}
	}
	if monthCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("timetable header missing MONTH/DATE columns")
	}

	var days []TimetableDay
	carry := make(map[model.Reference]string)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read timetable line %d: %w", line, err)
		}
		month, err1 := strconv.Atoi(strings.TrimSpace(rec[monthCol]))
		date, err2 := strconv.Atoi(strings.TrimSpace(rec[dateCol]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("timetable line %d: bad month/date", line)
		}
		day := TimetableDay{Month: month, Date: date, Times: make(map[model.Reference]string)}
		for i, cell := range rec {
			ref := ""
			if i < len(refByColumn) {
				ref = string(refByColumn[i])
			}
			if ref == "" {
				continue
			}
			v := strings.TrimSpace(cell)
			if v == `"` || v == "" {
				v = carry[model.Reference(ref)]
			}
			if v == "" {
				continue
			}
			if _, ok := ParseMinutes(v); !ok {
				return nil, fmt.Errorf("timetable line %d: bad time %q in %s", line, cell, ref)
			}
			day.Times[model.Reference(ref)] = v
			carry[model.Reference(ref)] = v
		}
		days = append(days, day)
	}
	return days, nil
}

// DayFor finds the row for a calendar date.
func DayFor(days []TimetableDay, month time.Month, date int) (TimetableDay, bool) {
	for _, d := range days {
		if d.Month == int(month) && d.Date == date {
			return d, true
		}
	}
	return TimetableDay{}, false
}

// Apply loads this row's readouts into the registry.
func (d TimetableDay) Apply(reg *Registry) {
	reg.SetAll(d.Times)
}
