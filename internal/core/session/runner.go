package session

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/edgeabyss/ridersim/internal/telemetry"
)

// Runner drives every session in a store at a fixed timestep. Sessions
// own their state; the runner only enqueues work onto their goroutines.
type Runner struct {
	store    *Store
	tickRate int
	dt       float64

	// Snapshot fanout is decoupled from the tick rate: HUD clients get
	// at most snapshotLimiter events per second per run of the loop.
	snapshotLimiter *rate.Limiter
}

func NewRunner(store *Store, tickRate int, snapshotsPerSec float64) *Runner {
	return &Runner{
		store:           store,
		tickRate:        tickRate,
		dt:              1.0 / float64(tickRate),
		snapshotLimiter: rate.NewLimiter(rate.Limit(snapshotsPerSec), 1),
	}
}

// Run blocks until ctx is cancelled, stepping all sessions each tick.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	telemetry.Infof("runner: fixed timestep %d Hz (dt=%.4fs)", r.tickRate, r.dt)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tickAll()
		}
	}
}

func (r *Runner) tickAll() {
	start := time.Now()
	snapshot := r.snapshotLimiter.Allow()

	for _, s := range r.store.All() {
		s := s
		s.Send(func() {
			s.Step(r.dt)
			if snapshot {
				s.PublishSnapshot()
			}
		})
	}

	telemetry.Metrics.TickLatency.Record(time.Since(start))
}
