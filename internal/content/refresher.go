package content

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/model"
	"github.com/masjidtech/minaret/internal/rules"
)

// RuleSink receives freshly decoded rule snapshots.
type RuleSink interface {
	SetRules(model.RuleSet)
}

// SnapshotStore persists the last good raw rule list across restarts.
type SnapshotStore interface {
	SaveRuleSnapshot(payload []byte, fetchedAt time.Time) error
	LoadRuleSnapshot() ([]byte, time.Time, error)
}

// Refresher keeps the sink's rule snapshot current: an immediate load at
// startup (falling back to the persisted snapshot when the network is
// down), then a periodic refetch. A failed fetch leaves the previous
// snapshot in place until the next scheduled attempt; there is no
// immediate retry.
type Refresher struct {
	source   *Source
	sink     RuleSink
	store    SnapshotStore
	interval time.Duration
	force    chan struct{}
}

func NewRefresher(source *Source, sink RuleSink, store SnapshotStore, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Refresher{
		source:   source,
		sink:     sink,
		store:    store,
		interval: interval,
		force:    make(chan struct{}, 1),
	}
}

// ForceRefresh schedules an out-of-band refetch, used by the control API.
func (r *Refresher) ForceRefresh() {
	select {
	case r.force <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	if !r.refresh(ctx) {
		r.loadPersisted()
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.force:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) bool {
	set, raw, err := r.source.FetchRules(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("rule refresh failed, keeping previous snapshot")
		return false
	}
	r.sink.SetRules(set)
	if r.store != nil {
		if err := r.store.SaveRuleSnapshot(raw, set.FetchedAt); err != nil {
			log.Error().Err(err).Msg("failed to persist rule snapshot")
		}
	}
	return true
}

func (r *Refresher) loadPersisted() {
	if r.store == nil {
		return
	}
	raw, fetchedAt, err := r.store.LoadRuleSnapshot()
	if err != nil {
		log.Warn().Err(err).Msg("no persisted rule snapshot available")
		return
	}
	set, skipped := rules.Decode(raw, fetchedAt)
	if len(set.Rules) == 0 {
		log.Warn().Int("skipped", skipped).Msg("persisted rule snapshot is empty")
		return
	}
	r.sink.SetRules(set)
	log.Info().Time("fetched_at", fetchedAt).Int("rules", len(set.Rules)).
		Msg("booted from persisted rule snapshot")
}
