package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/clock"
	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/prayer"
)

// reconcileInterval is how often the director sweeps for leaked overlay
// state left behind by a timer race.
const reconcileInterval = 10 * time.Second

// Overlay names what currently owns the screen besides the base grid.
type Overlay string

const (
	OverlayNone   Overlay = "none"
	OverlayImage  Overlay = "image"
	OverlayAdhkar Overlay = "adhkar"
)

// Director runs the once-per-second tick: resolve the decision, drive the
// surface, and keep the single-overlay invariant. It is the only writer of
// the visible state; everything below it only proposes.
type Director struct {
	basis   *clock.Basis
	reg     *prayer.Registry
	surface Surface
	seq     *Sequencer

	// tickMu serializes whole ticks. The control API runs Tick on its own
	// goroutine after a simulate call; without this the two tick paths
	// could interleave their surface commands.
	tickMu sync.Mutex

	mu            sync.Mutex
	rules         model.RuleSet
	decision      model.Decision
	overlay       Overlay
	shownImage    string
	activeImages  []string
	lastReconcile time.Time
}

func NewDirector(basis *clock.Basis, reg *prayer.Registry, surface Surface, sched Scheduler, fetch TextFetcher) *Director {
	d := &Director{
		basis:   basis,
		reg:     reg,
		surface: surface,
		overlay: OverlayNone,
	}
	d.seq = NewSequencer(sched, fetch, d.currentImagePaths)
	return d
}

// Sequencer exposes the adhkar session owner, mainly for tests and the
// control API's forced reset.
func (d *Director) Sequencer() *Sequencer {
	return d.seq
}

// SetRules swaps in a freshly fetched rule snapshot. An in-progress adhkar
// session is untouched: its config was copied when it started. Remembered
// text-load failures are cleared so the new snapshot gets a fresh attempt.
func (d *Director) SetRules(rs model.RuleSet) {
	d.mu.Lock()
	d.rules = rs
	d.mu.Unlock()
	d.seq.ResetFailures()
	log.Info().Int("rules", len(rs.Rules)).Time("fetched_at", rs.FetchedAt).Msg("rule snapshot updated")
}

// Rules returns the current snapshot.
func (d *Director) Rules() model.RuleSet {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rules
}

// Tick resolves and applies one second of display state. Ticks never run
// concurrently: a caller arriving mid-tick waits for the running one to
// finish.
func (d *Director) Tick() {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	tp := d.basis.Current()
	in := Inputs{
		Time:          tp,
		Instant:       d.basis.Today(),
		Summer:        d.basis.IsSummer(),
		AdhkarRunning: d.seq.Active(),
	}

	d.mu.Lock()
	rules := d.rules
	d.mu.Unlock()

	res := Resolve(in, rules, d.reg)
	if res.StartAdhkar != nil {
		if err := d.seq.Start(*res.StartAdhkar); err != nil {
			// a session slipped in between Active() and Start(); next tick sees it
			log.Debug().Err(err).Str("rule_id", res.StartAdhkar.ID).Msg("adhkar start skipped")
		}
	}

	d.apply(in, rules, res.Decision)
	d.reconcile()
}

func (d *Director) apply(in Inputs, rules model.RuleSet, dec model.Decision) {
	overlay := OverlayNone
	shownImage := ""

	switch dec.Kind {
	case model.DecisionWarning:
		d.surface.HideImage()
		d.surface.HideAdhkar()
		d.surface.ShowBaseGrid()
		d.surface.RenderMessage(dec.Message, TierFor(dec.Message), true, false)

	case model.DecisionAdhkar:
		// keep the interlude pool tracking whatever images would be live now
		_, _, imgs := dynamicAnnouncements(in, rules, d.reg)
		d.setActiveImages(imgs)
		frame, ok := d.seq.Frame()
		if !ok {
			// still loading; hold base content until the first page renders
			d.surface.HideImage()
			d.surface.HideAdhkar()
			d.surface.ShowBaseGrid()
			d.surface.RenderMessage(DefaultMessage, TierFor(DefaultMessage), false, false)
			break
		}
		if !d.seq.TakesOverImages() {
			// the session yields to a due slideshow image
			if entry, _, visible := PickImage(imgs, d.basis.SecondOfDay(), in.Time, d.reg); visible {
				d.surface.HideAdhkar()
				d.surface.ShowImage(entry.Path)
				d.surface.HideBaseGrid()
				overlay = OverlayImage
				shownImage = entry.Path
				break
			}
		}
		d.surface.HideImage()
		d.surface.HideBaseGrid()
		d.surface.ShowAdhkar(frame)
		overlay = OverlayAdhkar

	case model.DecisionAnnouncement:
		d.surface.HideAdhkar()
		d.setActiveImages(dec.Images)
		entry, _, visible := PickImage(dec.Images, d.basis.SecondOfDay(), in.Time, d.reg)
		if visible {
			d.surface.ShowImage(entry.Path)
			d.surface.HideBaseGrid()
			overlay = OverlayImage
			shownImage = entry.Path
		} else {
			d.surface.HideImage()
			d.surface.ShowBaseGrid()
		}
		d.surface.RenderMessage(dec.Message, TierFor(dec.Message), false, dec.Special)

	default:
		d.surface.HideImage()
		d.surface.HideAdhkar()
		d.surface.ShowBaseGrid()
		d.surface.RenderMessage(dec.Message, TierFor(dec.Message), false, false)
	}

	d.mu.Lock()
	d.decision = dec
	d.overlay = overlay
	d.shownImage = shownImage
	d.mu.Unlock()
}

// reconcile force-restores the base grid when no overlay should be up, in
// case a stray show/hide was lost to a race.
func (d *Director) reconcile() {
	now := d.basis.Today()
	d.mu.Lock()
	due := now.Sub(d.lastReconcile) >= reconcileInterval
	if due {
		d.lastReconcile = now
	}
	overlay := d.overlay
	d.mu.Unlock()
	if !due || overlay != OverlayNone {
		return
	}
	d.surface.HideImage()
	d.surface.HideAdhkar()
	d.surface.ShowBaseGrid()
}

func (d *Director) setActiveImages(c *model.ImageCycle) {
	var paths []string
	if c != nil {
		for _, e := range c.Entries {
			paths = append(paths, e.Path)
		}
	}
	d.mu.Lock()
	d.activeImages = paths
	d.mu.Unlock()
}

func (d *Director) currentImagePaths() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.activeImages...)
}

// Status is the director's externally visible state, served by the HTTP
// status endpoint.
type Status struct {
	Time       model.TimePoint `json:"time"`
	Summer     bool            `json:"summer"`
	Simulating bool            `json:"simulating"`
	Decision   model.Decision  `json:"decision"`
	Overlay    Overlay         `json:"overlay"`
	ShownImage string          `json:"shown_image,omitempty"`
	Adhkar     *AdhkarFrame    `json:"adhkar,omitempty"`
	RulesFrom  time.Time       `json:"rules_fetched_at"`
	RuleCount  int             `json:"rule_count"`
}

// Status reports the current tick's outcome.
func (d *Director) Status() Status {
	d.mu.Lock()
	st := Status{
		Time:       d.basis.Current(),
		Summer:     d.basis.IsSummer(),
		Simulating: d.basis.Simulating(),
		Decision:   d.decision,
		Overlay:    d.overlay,
		ShownImage: d.shownImage,
		RulesFrom:  d.rules.FetchedAt,
		RuleCount:  len(d.rules.Rules),
	}
	d.mu.Unlock()
	if frame, ok := d.seq.Frame(); ok {
		st.Adhkar = &frame
	}
	return st
}
