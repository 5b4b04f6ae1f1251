// Package db is the kiosk-local store: the last good rule snapshot and the
// monthly prayer timetable, kept in a sqlite file so a display that boots
// without network still has something to show.
package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/prayer"
)

const schema = `
CREATE TABLE IF NOT EXISTS rule_snapshots (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    BLOB      NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS timetable (
	month     INTEGER NOT NULL,
	date      INTEGER NOT NULL,
	reference TEXT    NOT NULL,
	value     TEXT    NOT NULL,
	PRIMARY KEY (month, date, reference)
);
`

type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite file and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}
	return &Store{db: conn}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRuleSnapshot replaces the single persisted rule list.
func (s *Store) SaveRuleSnapshot(payload []byte, fetchedAt time.Time) error {
	const q = `
	INSERT INTO rule_snapshots (id, payload, fetched_at)
	VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at;`
	if _, err := s.db.Exec(q, payload, fetchedAt); err != nil {
		log.Error().Err(err).Msg("SaveRuleSnapshot failed")
		return err
	}
	return nil
}

// LoadRuleSnapshot returns the persisted rule list, if any.
func (s *Store) LoadRuleSnapshot() ([]byte, time.Time, error) {
	var row struct {
		Payload   []byte    `db:"payload"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	const q = `SELECT payload, fetched_at FROM rule_snapshots WHERE id = 1;`
	if err := s.db.Get(&row, q); err != nil {
		return nil, time.Time{}, err
	}
	return row.Payload, row.FetchedAt, nil
}

// ReplaceTimetable swaps in a full year's timetable rows.
func (s *Store) ReplaceTimetable(days []prayer.TimetableDay) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM timetable;`); err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("ReplaceTimetable clear failed")
		return err
	}
	const q = `INSERT INTO timetable (month, date, reference, value) VALUES (?, ?, ?, ?);`
	for _, d := range days {
		for ref, v := range d.Times {
			if _, err := tx.Exec(q, d.Month, d.Date, string(ref), v); err != nil {
				tx.Rollback()
				log.Error().Err(err).Int("month", d.Month).Int("date", d.Date).
					Msg("ReplaceTimetable insert failed")
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadTimetable reads every stored timetable row, grouped by calendar day.
func (s *Store) LoadTimetable() ([]prayer.TimetableDay, error) {
	var rows []struct {
		Month     int    `db:"month"`
		Date      int    `db:"date"`
		Reference string `db:"reference"`
		Value     string `db:"value"`
	}
	const q = `SELECT month, date, reference, value FROM timetable ORDER BY month, date;`
	if err := s.db.Select(&rows, q); err != nil {
		log.Error().Err(err).Msg("LoadTimetable failed")
		return nil, err
	}
	var days []prayer.TimetableDay
	index := make(map[[2]int]int)
	for _, r := range rows {
		key := [2]int{r.Month, r.Date}
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, prayer.TimetableDay{
				Month: r.Month,
				Date:  r.Date,
				Times: make(map[model.Reference]string),
			})
		}
		days[i].Times[model.Reference(r.Reference)] = r.Value
	}
	return days, nil
}
