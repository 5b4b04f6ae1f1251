package prayer

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/model"
)

// Registry exposes the day's named prayer references as "HH:MM" readouts.
// It is written once per day when the timetable row changes and read every
// tick by the engine.
type Registry struct {
	mu     sync.RWMutex
	times  map[model.Reference]string
	warned map[model.Reference]bool
}

func NewRegistry() *Registry {
	return &Registry{
		times:  make(map[model.Reference]string),
		warned: make(map[model.Reference]bool),
	}
}

// Set stores one readout. An empty value clears the reference.
func (r *Registry) Set(ref model.Reference, hhmm string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hhmm == "" {
		delete(r.times, ref)
		return
	}
	r.times[ref] = hhmm
	delete(r.warned, ref)
}

// SetAll replaces every readout at once, clearing references absent from m.
func (r *Registry) SetAll(m map[model.Reference]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.times = make(map[model.Reference]string, len(m))
	for ref, v := range m {
		r.times[ref] = v
	}
	r.warned = make(map[model.Reference]bool)
}

// Readout returns the raw "HH:MM" value, or "" if the reference is unset.
func (r *Registry) Readout(ref model.Reference) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.times[ref]
}

// Minutes resolves a reference to minute-of-day. A missing or malformed
// readout degrades to 0 rather than failing the tick; the first occurrence
// per reference is logged.
func (r *Registry) Minutes(ref model.Reference) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.times[ref]
	if ok {
		if min, valid := ParseMinutes(raw); valid {
			return min
		}
	}
	if !r.warned[ref] {
		r.warned[ref] = true
		log.Warn().Str("reference", string(ref)).Str("value", raw).
			Msg("prayer reference unavailable, using 00:00")
	}
	return 0
}

// Snapshot copies the current readouts, for the status API.
func (r *Registry) Snapshot() map[model.Reference]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[model.Reference]string, len(r.times))
	for ref, v := range r.times {
		out[ref] = v
	}
	return out
}
