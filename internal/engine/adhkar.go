package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/model"
)

// interludeSeconds is how long a between-cycles image stays up.
const interludeSeconds = 3

// TextFetcher loads an adhkar text body from its configured source. The
// content package provides the production implementation.
type TextFetcher interface {
	FetchAdhkarText(ctx context.Context, source string) (string, error)
}

// AdhkarFrame is what the sequencer hands the display surface for one
// moment of a running session. Fonts and countdown rendering belong to the
// surface; the sequencer only supplies the numbers.
type AdhkarFrame struct {
	RuleID           string `json:"rule_id"`
	PageText         string `json:"page_text,omitempty"`
	PageIndex        int    `json:"page_index"`
	PageCount        int    `json:"page_count"`
	CycleIndex       int    `json:"cycle_index"`
	CycleCount       int    `json:"cycle_count"`
	SecondsRemaining int    `json:"seconds_remaining"`
	ShowCountdown    bool   `json:"show_countdown"`
	InterludeImage   string `json:"interlude_image,omitempty"`
}

type seqState int

const (
	seqIdle seqState = iota
	seqLoading
	seqShowingPage
	seqInterlude
)

// Sequencer owns the one adhkar session the system may run at a time: page
// by page, cycle by cycle, optionally interleaving an image between
// cycles. All waiting happens on the injected scheduler; cancellation
// invalidates pending timers synchronously.
type Sequencer struct {
	sched   Scheduler
	fetch   TextFetcher
	imagesF func() []string
	nowF    func() time.Time
	rng     *rand.Rand

	mu         sync.Mutex
	state      seqState
	gen        int
	ruleID     string
	cfg        model.AdhkarDisplayConfig
	texts      map[string]string
	failed     map[string]bool
	pages      []string
	page       int
	cycle      int
	timer      Timer
	pageEndsAt time.Time
	interlude  string
	onFinished func()
}

// NewSequencer wires a sequencer. activeImages supplies the paths of the
// currently-running dynamic image announcement for interludes; it may
// return nil.
func NewSequencer(sched Scheduler, fetch TextFetcher, activeImages func() []string) *Sequencer {
	return &Sequencer{
		sched:   sched,
		fetch:   fetch,
		imagesF: activeImages,
		nowF:    time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		texts:   make(map[string]string),
		failed:  make(map[string]bool),
	}
}

// OnFinished registers a callback run when a session completes on its own.
func (s *Sequencer) OnFinished(fn func()) {
	s.mu.Lock()
	s.onFinished = fn
	s.mu.Unlock()
}

// TakesOverImages reports whether the running session claims the screen
// even while a slideshow image is due. A session without the flag yields
// its frames to due images and fills the gaps between them.
func (s *Sequencer) TakesOverImages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.TakesOverImages
}

// Active reports whether a session holds the screen (loading included).
func (s *Sequencer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != seqIdle
}

// Start begins a session for the rule. Only one session may run at a time;
// starting while active is an error the caller is expected to ignore. The
// text is fetched once per rule and cached; a load failure marks the rule
// failed and further starts are refused until the next rule refresh, so an
// open trigger window never turns into a once-per-tick retry storm.
func (s *Sequencer) Start(rule model.Rule) error {
	if rule.Adhkar == nil {
		return fmt.Errorf("rule %s is not an adhkar rule", rule.ID)
	}
	s.mu.Lock()
	if s.state != seqIdle {
		s.mu.Unlock()
		return fmt.Errorf("adhkar session already active")
	}
	if s.failed[rule.ID] {
		s.mu.Unlock()
		return fmt.Errorf("adhkar text for rule %s unavailable", rule.ID)
	}
	s.state = seqLoading
	s.gen++
	gen := s.gen
	s.ruleID = rule.ID
	s.cfg = rule.Adhkar.Display
	s.page = 0
	s.cycle = 0
	s.pages = nil
	s.interlude = ""
	cached, haveText := s.texts[rule.ID]
	source := rule.Adhkar.TextSource
	s.mu.Unlock()

	if haveText {
		s.textLoaded(gen, rule.ID, cached)
		return nil
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		text, err := s.fetch.FetchAdhkarText(ctx, source)
		if err != nil {
			log.Warn().Err(err).Str("rule_id", rule.ID).Str("source", source).
				Msg("adhkar text load failed, aborting session")
			s.abort(gen, rule.ID)
			return
		}
		s.textLoaded(gen, rule.ID, text)
	}()
	return nil
}

// Stop cancels the session and any pending timers synchronously. A timer
// already in flight sees a stale generation and does nothing.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = seqIdle
	s.interlude = ""
}

// Frame returns the current visual state. ok is false while idle or still
// loading, meaning the director has nothing to draw yet.
func (s *Sequencer) Frame() (AdhkarFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case seqShowingPage:
		remaining := int(s.pageEndsAt.Sub(s.nowF()) / time.Second)
		if remaining < 0 {
			remaining = 0
		}
		return AdhkarFrame{
			RuleID:           s.ruleID,
			PageText:         s.pages[s.page],
			PageIndex:        s.page,
			PageCount:        s.cfg.PageCount,
			CycleIndex:       s.cycle,
			CycleCount:       s.cfg.RepeatCycles,
			SecondsRemaining: remaining,
			ShowCountdown:    s.cfg.ShowCountdown,
		}, true
	case seqInterlude:
		return AdhkarFrame{
			RuleID:         s.ruleID,
			CycleIndex:     s.cycle,
			CycleCount:     s.cfg.RepeatCycles,
			InterludeImage: s.interlude,
		}, true
	}
	return AdhkarFrame{}, false
}

// ResetFailures forgets failed text loads, letting their rules start again.
// Called when a fresh rule snapshot arrives.
func (s *Sequencer) ResetFailures() {
	s.mu.Lock()
	s.failed = make(map[string]bool)
	s.mu.Unlock()
}

func (s *Sequencer) abort(gen int, ruleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[ruleID] = true
	if gen != s.gen || s.state != seqLoading {
		return
	}
	s.state = seqIdle
}

func (s *Sequencer) textLoaded(gen int, ruleID, text string) {
	verses := SplitVerses(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != seqLoading {
		return
	}
	if len(verses) == 0 {
		log.Warn().Str("rule_id", ruleID).Msg("adhkar text has no verses, aborting session")
		s.failed[ruleID] = true
		s.state = seqIdle
		return
	}
	s.texts[ruleID] = text
	pageSets := DistributeVerses(verses, s.cfg.PageDistribution)
	s.pages = make([]string, len(pageSets))
	for i, set := range pageSets {
		s.pages[i] = strings.Join(set, "\n")
	}
	s.state = seqShowingPage
	s.showPageLocked(gen)
}

// showPageLocked arms the timer for the current page. Caller holds s.mu.
func (s *Sequencer) showPageLocked(gen int) {
	dur := s.pageDuration(s.page)
	s.pageEndsAt = s.nowF().Add(dur)
	s.timer = s.sched.After(dur, func() { s.advance(gen) })
}

func (s *Sequencer) pageDuration(page int) time.Duration {
	if page < len(s.cfg.PageTimings) {
		if sec, err := ParseTimingSeconds(s.cfg.PageTimings[page]); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	per := TotalDisplaySeconds(s.cfg) / s.cfg.PageCount
	if per < 1 {
		per = 1
	}
	return time.Duration(per) * time.Second
}

func (s *Sequencer) advance(gen int) {
	var finished func()
	s.mu.Lock()
	if gen != s.gen || s.state != seqShowingPage {
		s.mu.Unlock()
		return
	}
	s.page++
	if s.page < s.cfg.PageCount {
		s.showPageLocked(gen)
		s.mu.Unlock()
		return
	}
	s.page = 0
	s.cycle++
	if s.cycle >= s.cfg.RepeatCycles {
		s.state = seqIdle
		s.timer = nil
		finished = s.onFinished
		s.mu.Unlock()
		if finished != nil {
			finished()
		}
		return
	}
	if s.cfg.ShowImagesBetweenCycles {
		if img := s.pickInterludeImage(); img != "" {
			s.state = seqInterlude
			s.interlude = img
			s.timer = s.sched.After(interludeSeconds*time.Second, func() { s.endInterlude(gen) })
			s.mu.Unlock()
			return
		}
	}
	s.showPageLocked(gen)
	s.mu.Unlock()
}

func (s *Sequencer) endInterlude(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != seqInterlude {
		return
	}
	s.state = seqShowingPage
	s.interlude = ""
	s.showPageLocked(gen)
}

// pickInterludeImage chooses one image from the active dynamic image
// announcement, if any. Caller holds s.mu.
func (s *Sequencer) pickInterludeImage() string {
	if s.imagesF == nil {
		return ""
	}
	imgs := s.imagesF()
	if len(imgs) == 0 {
		return ""
	}
	return imgs[s.rng.Intn(len(imgs))]
}
