package engine

import "time"

// Timer is a pending callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler schedules future callbacks. The sequencer takes one by
// injection so tests can drive page advances with virtual time instead of
// sleeping.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// WallScheduler runs callbacks on real timers.
type WallScheduler struct{}

func (WallScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
