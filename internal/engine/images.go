package engine

import (
	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/prayer"
)

// imageGapSeconds is the fixed blank interval between two images in a cycle.
const imageGapSeconds = 20

// jamaahAvoidanceMinutes is how close to a jamaah time an avoidance-flagged
// cycle keeps the screen clear, either side inclusive.
const jamaahAvoidanceMinutes = 2

// BuildImageCycle merges every simultaneously-active image payload into one
// rotation: images concatenated in rule order, the largest requested
// frequency becoming the wait between repeats.
func BuildImageCycle(payloads []model.ImagePayload) *model.ImageCycle {
	if len(payloads) == 0 {
		return nil
	}
	cycle := &model.ImageCycle{GapSeconds: imageGapSeconds}
	maxFrequencyMinutes := 0
	for _, p := range payloads {
		for _, img := range p.Images {
			cycle.Entries = append(cycle.Entries, model.ImageEntry{
				Path:            img,
				DurationSeconds: p.DurationSeconds,
				AvoidJamaah:     p.AvoidJamaahTime,
			})
		}
		if p.FrequencyMinutes > maxFrequencyMinutes {
			maxFrequencyMinutes = p.FrequencyMinutes
		}
	}
	if len(cycle.Entries) == 0 {
		return nil
	}
	for _, e := range cycle.Entries {
		cycle.TotalActiveSeconds += e.DurationSeconds
	}
	cycle.TotalActiveSeconds += imageGapSeconds * (len(cycle.Entries) - 1)
	cycle.CycleWaitSeconds = maxFrequencyMinutes * 60
	cycle.TotalCycleSeconds = cycle.TotalActiveSeconds + cycle.CycleWaitSeconds
	return cycle
}

// PickImage decides which image, if any, is visible at the given
// second-of-day. The basis is wall-clock seconds so every screen driven by
// the same clock shows the same frame without shared state. Jamaah
// avoidance dominates the cycle position.
func PickImage(c *model.ImageCycle, secondOfDay int, tp model.TimePoint, reg *prayer.Registry) (model.ImageEntry, int, bool) {
	if c == nil || len(c.Entries) == 0 || c.TotalCycleSeconds <= 0 {
		return model.ImageEntry{}, 0, false
	}
	if cycleAvoidsJamaah(c) && nearJamaah(tp.MinuteOfDay, reg) {
		return model.ImageEntry{}, 0, false
	}
	pos := secondOfDay % c.TotalCycleSeconds
	if pos >= c.TotalActiveSeconds {
		return model.ImageEntry{}, 0, false
	}
	acc := 0
	for i, e := range c.Entries {
		end := acc + e.DurationSeconds
		if pos < end {
			return e, end - pos, true
		}
		acc = end
		if i < len(c.Entries)-1 {
			acc += c.GapSeconds
			if pos < acc {
				// inside the gap after this entry
				return model.ImageEntry{}, 0, false
			}
		}
	}
	return model.ImageEntry{}, 0, false
}

func cycleAvoidsJamaah(c *model.ImageCycle) bool {
	for _, e := range c.Entries {
		if e.AvoidJamaah {
			return true
		}
	}
	return false
}

func nearJamaah(minuteOfDay int, reg *prayer.Registry) bool {
	for _, ref := range model.JamaahReferences {
		if reg.Readout(ref) == "" {
			continue
		}
		m, ok := prayer.ParseMinutes(reg.Readout(ref))
		if !ok {
			continue
		}
		diff := minuteOfDay - m
		if diff < 0 {
			diff = -diff
		}
		if diff <= jamaahAvoidanceMinutes {
			return true
		}
	}
	return false
}
