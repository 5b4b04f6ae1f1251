package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjidtech/minaret/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestBasisWinterTime(t *testing.T) {
	// a Wednesday in January, no seasonal offset
	fc := &fakeClock{now: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)}
	b := NewBasis(fc)

	tp := b.Current()
	assert.Equal(t, 10*60+30, tp.MinuteOfDay)
	assert.Equal(t, 3, tp.DayOfWeek)
	assert.False(t, b.IsSummer())
}

func TestBasisSummerOffsetRollsDayOver(t *testing.T) {
	// 23:30 UTC on a Wednesday in July becomes 00:30 Thursday local
	fc := &fakeClock{now: time.Date(2025, 7, 2, 23, 30, 0, 0, time.UTC)}
	b := NewBasis(fc)

	tp := b.Current()
	assert.Equal(t, 30, tp.MinuteOfDay)
	assert.Equal(t, 4, tp.DayOfWeek)
	assert.True(t, b.IsSummer())
}

func TestBasisSecondOfDay(t *testing.T) {
	fc := &fakeClock{now: time.Date(2025, 1, 15, 0, 1, 40, 0, time.UTC)}
	b := NewBasis(fc)
	assert.Equal(t, 100, b.SecondOfDay())
}

func TestSimulationAdvancesAndWraps(t *testing.T) {
	start := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	fc := &fakeClock{now: start}
	b := NewBasis(fc)

	require.NoError(t, b.Simulate("23:59", 6, true))
	assert.True(t, b.Simulating())
	assert.True(t, b.IsSummer(), "simulation season overrides the calendar")

	tp := b.Current()
	assert.Equal(t, 23*60+59, tp.MinuteOfDay)
	assert.Equal(t, 6, tp.DayOfWeek)

	// two real minutes later the virtual clock has wrapped into Sunday
	fc.now = start.Add(2 * time.Minute)
	tp = b.Current()
	assert.Equal(t, 1, tp.MinuteOfDay)
	assert.Equal(t, 0, tp.DayOfWeek)

	b.ClearSimulation()
	assert.False(t, b.Simulating())
	assert.False(t, b.IsSummer())
	assert.Equal(t, 3, b.Current().DayOfWeek)
}

func TestSimulateRejectsBadInput(t *testing.T) {
	b := NewBasis(&fakeClock{now: time.Now()})
	assert.Error(t, b.Simulate("25:00", 0, false))
	assert.Error(t, b.Simulate("12:61", 0, false))
	assert.Error(t, b.Simulate("noon", 0, false))
	assert.Error(t, b.Simulate("12:00", 7, false))
}

func TestCurrentReturnsTimePoint(t *testing.T) {
	fc := &fakeClock{now: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)} // Sunday
	b := NewBasis(fc)
	assert.Equal(t, model.TimePoint{MinuteOfDay: 0, DayOfWeek: 0}, b.Current())
}
