package session

import (
	"testing"

	"github.com/edgeabyss/ridersim/internal/core/course"
	"github.com/edgeabyss/ridersim/internal/core/rider"
	"github.com/edgeabyss/ridersim/internal/events"
)

func testCourse() *course.Course {
	return &course.Course{
		Name:           "strip",
		Spawn:          course.SpawnPoint{X: 0, Y: 0, Z: 0, Heading: 0},
		KillPlaneY:     -10,
		DefaultSurface: "asphalt",
		Pieces: []course.TrackPiece{
			{Name: "strip", MinX: -5, MaxX: 5, MinZ: -5, MaxZ: 60, Elevation: 0},
		},
		Surfaces: map[string]course.SurfaceParams{
			"asphalt": {Traction: 1, Steering: 1, Stability: 1},
		},
	}
}

func testTuning() rider.Tuning {
	return rider.Tuning{
		MaxSpeed:              35,
		Acceleration:          18,
		BrakeDeceleration:     25,
		Drag:                  2.5,
		MaxTurnRate:           90,
		SteerResponse:         6,
		HighSpeedSteerFactor:  0.4,
		StabilityRecoveryRate: 0.3,
		FallThreshold:         0.1,
		SteerStabilityCost:    0.25,
		MaxLeanAngle:          35,
		LeanSpeed:             120,
		GroundCheckDistance:   0.6,
	}
}

// step runs one Step on the session's own goroutine and waits for it.
func step(s *Session, dt float64) {
	done := make(chan struct{})
	s.Send(func() {
		s.Step(dt)
		close(done)
	})
	<-done
}

type recordingObserver struct {
	kinds []events.EventType
}

func (r *recordingObserver) OnSessionEvent(_ *Session, kind events.EventType) {
	r.kinds = append(r.kinds, kind)
}

func (r *recordingObserver) count(kind events.EventType) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func TestSessionRidesOffEdgeAndAutoRespawns(t *testing.T) {
	s := New("edge-test", rider.KindBike, testCourse(), testTuning(), 1.0)
	defer s.Close()

	obs := &recordingObserver{}
	s.AddObserver(obs)

	s.SetInput(rider.InputState{Throttle: 1})
	fellAt := -1
	for i := 0; i < 600; i++ {
		step(s, 0.02)
		if fellAt < 0 && s.Rider.HasFallen() {
			fellAt = i
		}
		if fellAt >= 0 && !s.Rider.HasFallen() {
			break
		}
	}

	if fellAt < 0 {
		t.Fatalf("rider never fell off the 60m strip")
	}
	if got := obs.count(events.EventRiderFall); got != 1 {
		t.Fatalf("fall events = %d, want 1", got)
	}
	if s.LastFall == nil || s.LastFall.Reason != rider.FellOffEdge {
		t.Fatalf("LastFall = %+v, want fell_off_edge", s.LastFall)
	}

	if s.Rider.HasFallen() {
		t.Fatalf("rider did not auto-respawn within the step budget")
	}
	if got := obs.count(events.EventRiderReset); got != 1 {
		t.Fatalf("reset events = %d, want 1", got)
	}
	if pos := s.Rider.Position(); pos != s.Course.Spawn.Position() {
		t.Fatalf("respawn position = %v, want spawn %v", pos, s.Course.Spawn.Position())
	}
	if s.Falls != 1 {
		t.Fatalf("session falls = %d, want 1", s.Falls)
	}
}

func TestManualResetFiresOnRisingEdgeOnly(t *testing.T) {
	s := New("reset-test", rider.KindBike, testCourse(), testTuning(), 1.0)
	defer s.Close()

	obs := &recordingObserver{}
	s.AddObserver(obs)

	// Build up some speed, then hold reset across several ticks.
	s.SetInput(rider.InputState{Throttle: 1})
	for i := 0; i < 50; i++ {
		step(s, 0.02)
	}
	if s.Rider.Speed() == 0 {
		t.Fatalf("expected speed before reset")
	}

	s.SetInput(rider.InputState{Reset: true})
	for i := 0; i < 5; i++ {
		step(s, 0.02)
	}

	if got := obs.count(events.EventRiderSpawn); got != 1 {
		t.Fatalf("held reset produced %d spawn notifications, want 1", got)
	}
	if s.Rider.Speed() != 0 {
		t.Fatalf("reset did not zero speed: %f", s.Rider.Speed())
	}
}

func TestSessionStartAnnouncesSpawnOnce(t *testing.T) {
	s := New("spawn-test", rider.KindHorse, testCourse(), testTuning(), 1.0)
	defer s.Close()

	obs := &recordingObserver{}
	s.AddObserver(obs)
	s.Start()
	s.Start()
	step(s, 0.02) // flush the Start closures

	if got := obs.count(events.EventRiderSpawn); got != 1 {
		t.Fatalf("spawn notifications = %d, want 1", got)
	}
}

func TestBusPublisherEmitsTypedFallEvent(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	bus.Subscribe(events.EventRiderFall, func(e events.Event) error {
		got = append(got, e)
		return nil
	})

	s := New("bus-test", rider.KindBike, testCourse(), testTuning(), 5.0)
	defer s.Close()
	s.AddObserver(NewBusPublisher(bus))

	s.SetInput(rider.InputState{Throttle: 1})
	for i := 0; i < 400 && !s.Rider.HasFallen(); i++ {
		step(s, 0.02)
	}

	if len(got) != 1 {
		t.Fatalf("bus fall events = %d, want 1", len(got))
	}
	evt := got[0]
	if evt.SessionID != s.ID || evt.Course != "strip" || evt.Kind != events.KindBike {
		t.Fatalf("envelope mismatch: %+v", evt)
	}
	payload, ok := evt.Payload.(events.RiderFallEvent)
	if !ok {
		t.Fatalf("payload type %T, want RiderFallEvent", evt.Payload)
	}
	if payload.Reason != rider.FellOffEdge.String() {
		t.Fatalf("payload reason = %q, want %q", payload.Reason, rider.FellOffEdge)
	}
	if evt.ID == "" {
		t.Fatalf("event ID not set")
	}
}

func TestNotifyClosedRunsBeforeClose(t *testing.T) {
	bus := events.NewBus()
	var closed []events.Event
	bus.Subscribe(events.EventSessionClosed, func(e events.Event) error {
		closed = append(closed, e)
		return nil
	})

	s := New("close-test", rider.KindHorse, testCourse(), testTuning(), 1.0)
	s.AddObserver(NewBusPublisher(bus))
	for i := 0; i < 10; i++ {
		step(s, 0.02)
	}

	s.NotifyClosed()
	s.Close() // drains the inbox, so the notification lands first

	if len(closed) != 1 {
		t.Fatalf("session_closed events = %d, want 1", len(closed))
	}
	payload, ok := closed[0].Payload.(events.SessionClosedEvent)
	if !ok {
		t.Fatalf("payload type %T, want SessionClosedEvent", closed[0].Payload)
	}
	if payload.Ticks != 10 {
		t.Fatalf("ticks = %d, want 10", payload.Ticks)
	}
}

func TestStoreDeleteClosesSession(t *testing.T) {
	st := NewStore()
	s := New("store-test", rider.KindBike, testCourse(), testTuning(), 1.0)
	st.Put(s)

	if st.Count() != 1 {
		t.Fatalf("count = %d, want 1", st.Count())
	}
	st.Delete(s.ID)
	if st.Count() != 0 {
		t.Fatalf("count after delete = %d, want 0", st.Count())
	}
	if _, ok := st.Get(s.ID); ok {
		t.Fatalf("deleted session still retrievable")
	}

	// Work sent after Close is dropped, never a panic.
	s.Send(func() { t.Errorf("closure ran after Close") })
	s.Close() // second Close is a no-op
}
