package clock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Basis turns Clock readings into the display's local TimePoint. While a
// simulation is active it ignores the seasonal rule and advances a virtual
// time-of-day at real elapsed speed instead.
type Basis struct {
	clock Clock

	mu  sync.RWMutex
	sim *simulation
}

type simulation struct {
	startedAt  time.Time
	baseSecond int
	day        int
	summer     bool
}

func NewBasis(c Clock) *Basis {
	return &Basis{clock: c}
}

// Simulate switches the basis to a virtual clock starting at "HH:MM" on the
// given day of week (0 = Sunday). The virtual time keeps moving at real
// speed and wraps day boundaries like the real clock does.
func (b *Basis) Simulate(hhmm string, dayOfWeek int, summer bool) error {
	sec, err := parseClockSeconds(hhmm)
	if err != nil {
		return err
	}
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Errorf("day of week out of range: %d", dayOfWeek)
	}
	b.mu.Lock()
	b.sim = &simulation{
		startedAt:  b.clock.Now(),
		baseSecond: sec,
		day:        dayOfWeek,
		summer:     summer,
	}
	b.mu.Unlock()
	log.Warn().Str("time", hhmm).Int("day_of_week", dayOfWeek).Bool("summer", summer).
		Msg("simulated clock enabled")
	return nil
}

// ClearSimulation returns the basis to the real clock.
func (b *Basis) ClearSimulation() {
	b.mu.Lock()
	b.sim = nil
	b.mu.Unlock()
	log.Warn().Msg("simulated clock disabled")
}

// Simulating reports whether a simulation override is active.
func (b *Basis) Simulating() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sim != nil
}

// Current resolves now into a TimePoint. When the seasonal offset pushes
// the hour past midnight the day of week advances with it.
func (b *Basis) Current() model.TimePoint {
	sec, day := b.secondAndDay()
	return model.TimePoint{MinuteOfDay: sec / 60, DayOfWeek: day}
}

// SecondOfDay is the locale-adjusted second since midnight. Image rotation
// uses this as its phase basis so independent screens stay aligned.
func (b *Basis) SecondOfDay() int {
	sec, _ := b.secondAndDay()
	return sec
}

// IsSummer reports the current daylight-saving season, honouring the
// simulation's season override when one is active.
func (b *Basis) IsSummer() bool {
	b.mu.RLock()
	sim := b.sim
	b.mu.RUnlock()
	if sim != nil {
		return sim.summer
	}
	return IsSummer(b.clock.Now())
}

// Today is the real calendar date, used for date-range rules and the
// clock-change reminder. Simulations override time-of-day, not the date.
func (b *Basis) Today() time.Time {
	return b.clock.Now()
}

func (b *Basis) secondAndDay() (int, int) {
	now := b.clock.Now()

	b.mu.RLock()
	sim := b.sim
	b.mu.RUnlock()

	if sim != nil {
		total := sim.baseSecond + int(now.Sub(sim.startedAt)/time.Second)
		day := (sim.day + total/secondsPerDay) % 7
		return total % secondsPerDay, day
	}

	sec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	sec += SeasonalOffsetMinutes(now) * 60
	day := int(now.Weekday())
	if sec >= secondsPerDay {
		sec -= secondsPerDay
		day = (day + 1) % 7
	}
	return sec, day
}

func parseClockSeconds(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*3600 + m*60, nil
}
