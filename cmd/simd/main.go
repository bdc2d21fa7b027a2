package main

import (
	"context"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgeabyss/ridersim/internal/config"
	"github.com/edgeabyss/ridersim/internal/core/course"
	"github.com/edgeabyss/ridersim/internal/core/rider"
	"github.com/edgeabyss/ridersim/internal/core/session"
	"github.com/edgeabyss/ridersim/internal/events"
	"github.com/edgeabyss/ridersim/internal/falllog"
	"github.com/edgeabyss/ridersim/internal/fanout"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting rider simulation daemon")

	bus := events.NewBus()

	// ── Content ────────────────────────────────────────────────
	crs, err := course.Load(cfg.CoursePath)
	if err != nil {
		telemetry.Errorf("Failed to load course: %v", err)
		os.Exit(1)
	}
	profiles, err := config.LoadTuningProfiles(cfg.TuningPath)
	if err != nil {
		telemetry.Errorf("Failed to load tuning profiles: %v", err)
		os.Exit(1)
	}
	telemetry.Infof("Course %q loaded  pieces=%d zones=%d  profiles=%d",
		crs.Name, len(crs.Pieces), len(crs.Zones), len(profiles))

	// ── Fall log ───────────────────────────────────────────────
	fallStore, err := falllog.Open(cfg.FallLogPath)
	if err != nil {
		telemetry.Errorf("Failed to open fall log: %v", err)
		os.Exit(1)
	}
	fallStore.Attach(bus)

	// ── Sessions ───────────────────────────────────────────────
	store := session.NewStore()
	publisher := session.NewBusPublisher(bus)

	respawnDelay := cfg.RespawnDelay.Seconds()
	for _, kind := range []rider.Kind{rider.KindBike, rider.KindHorse} {
		tuning, ok := profiles.For(kind)
		if !ok {
			telemetry.Warnf("No tuning profile for %s, skipping demo session", kind)
			continue
		}
		s := session.New("demo-"+string(kind), kind, crs, tuning, respawnDelay)
		s.AddObserver(publisher)
		store.Put(s)
		s.Start()
	}
	telemetry.Metrics.ActiveSessions.Set(int64(store.Count()))

	// ── Fanout server ──────────────────────────────────────────
	fanoutSrv := fanout.NewServer(bus)
	go func() {
		if err := fanoutSrv.ListenAndServe(fanout.Addr(cfg.FanoutHost, cfg.FanoutPort)); err != nil {
			telemetry.Errorf("Fanout server: %v", err)
			os.Exit(1)
		}
	}()

	// ── Run loop ───────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	runner := session.NewRunner(store, cfg.TickRate, float64(cfg.SnapshotsPerSec))
	g.Go(func() error { return runner.Run(ctx) })
	g.Go(func() error { return autopilot(ctx, store) })

	// ── Shutdown ───────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("Shutting down...")
	cancel()
	if err := g.Wait(); err != nil && err != context.Canceled {
		telemetry.Warnf("Run loop: %v", err)
	}

	for _, s := range store.All() {
		s.NotifyClosed()
		store.Delete(s.ID)
	}
	if err := fallStore.Close(); err != nil {
		telemetry.Warnf("Fall log close: %v", err)
	}

	telemetry.Infof("Shutdown complete  ticks=%d  falls=%d  resets=%d  snapshots=%d",
		telemetry.Metrics.TicksProcessed.Value(),
		telemetry.Metrics.Falls.Value(),
		telemetry.Metrics.Resets.Value(),
		telemetry.Metrics.SnapshotsSent.Value(),
	)
}

// autopilot feeds the demo sessions a weaving full-throttle input so the
// fanout stream carries traffic without an external controller attached.
func autopilot(ctx context.Context, store *session.Store) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t := time.Since(start).Seconds()
			in := rider.InputState{
				Throttle: 1,
				Steer:    0.6 * math.Sin(t/3),
				Focus:    math.Sin(t/7) > 0.5,
			}
			for _, s := range store.All() {
				s.SetInput(in)
			}
		}
	}
}
