// Package session drives riders through courses. One Session owns one
// rider; all its state mutations are serialized through an inbox channel —
// one goroutine drains it, so no mutexes are needed on any field.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgeabyss/ridersim/internal/core/course"
	"github.com/edgeabyss/ridersim/internal/core/env"
	"github.com/edgeabyss/ridersim/internal/core/rider"
	"github.com/edgeabyss/ridersim/internal/events"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

const inboxSize = 256

// Observer receives session notifications. Implementations run on the
// session's goroutine — safe to read session fields directly.
type Observer interface {
	OnSessionEvent(s *Session, kind events.EventType)
}

// Session binds one rider to a course for its lifetime.
//
// Any goroutine that wants to read or write session state sends a closure
// via Send(). The closure runs on the session's own goroutine.
type Session struct {
	ID     string
	Name   string
	Kind   rider.Kind
	Course *course.Course

	Rider *rider.Rider

	// RespawnDelay is how long a fallen rider stays down before the
	// automatic reset teleports them back to the spawn point.
	RespawnDelay float64

	// LastFall is set before observers are notified of a fall, so they
	// can read the diagnostics without digging into the rider.
	LastFall *rider.FallInfo

	Falls     int64
	Ticks     uint64
	StartedAt time.Time

	input        rider.InputState
	prevReset    bool
	respawnTimer float64
	started      bool

	observers []Observer

	// mu guards the closed flag against Send racing Close — the runner
	// may still be ticking a session while the store deletes it.
	mu     sync.RWMutex
	closed bool
	inbox  chan func()
	stop   chan struct{}
}

// New creates a session and starts its goroutine. The rider is initialized
// with the given tuning and wired to the course's environment providers.
func New(name string, kind rider.Kind, c *course.Course, tuning rider.Tuning, respawnDelay float64) *Session {
	s := &Session{
		ID:           uuid.NewString(),
		Name:         name,
		Kind:         kind,
		Course:       c,
		Rider:        rider.New(kind),
		RespawnDelay: respawnDelay,
		StartedAt:    time.Now(),
		inbox:        make(chan func(), inboxSize),
		stop:         make(chan struct{}),
	}
	s.Rider.Initialize(tuning)

	var wind env.WindProvider
	if c.Wind != nil {
		wind = c.Wind
	}
	s.Rider.SetEnvironment(c, c, wind)
	s.Rider.ResetRider(c.Spawn.Position(), c.Spawn.Heading)

	s.Rider.OnFall(s.onFall)

	go s.run()
	return s
}

// run is the session's event loop. All closures sent via Send() execute
// here, one at a time, on this single goroutine. No locks needed.
func (s *Session) run() {
	defer close(s.stop)
	for fn := range s.inbox {
		fn()
	}
}

// Send enqueues a closure to run on the session's goroutine.
// Non-blocking: drops the closure and logs a warning if the inbox is full,
// preventing a stuck session from blocking the simulation loop. Work sent
// after Close is silently dropped.
func (s *Session) Send(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.inbox <- fn:
	default:
		telemetry.Metrics.InboxOverflows.Inc()
		telemetry.Warnf("session %s: inbox full (cap=%d), dropping work", s.ID, cap(s.inbox))
	}
}

// AddObserver registers an observer. Must be called before Start.
func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Start announces the initial spawn to observers.
func (s *Session) Start() {
	s.Send(func() {
		if s.started {
			return
		}
		s.started = true
		s.notify(events.EventRiderSpawn)
	})
}

// SetInput latches the next frame of input.
func (s *Session) SetInput(in rider.InputState) {
	s.Send(func() { s.input = in })
}

// Step advances the session by dt seconds.
// Must be called from the session's goroutine (inside a Send closure).
func (s *Session) Step(dt float64) {
	if s.Rider.HasFallen() {
		s.respawnTimer -= dt
		if s.respawnTimer <= 0 {
			s.respawn(true)
		}
		return
	}

	// Manual reset on the input's rising edge only. The edge flag is
	// captured first because respawn clears the latched input.
	resetPressed := s.input.Reset
	if resetPressed && !s.prevReset {
		s.respawn(false)
	}
	s.prevReset = resetPressed

	s.Rider.TickInput(s.input)
	s.Rider.TickPhysics(dt)
	s.Ticks++
	telemetry.Metrics.TicksProcessed.Inc()

	if s.Course.BelowKillPlane(s.Rider.Position()) {
		s.Rider.TriggerFall(rider.FellOffEdge)
	}
}

// NotifyClosed announces the session is going away. Enqueued rather than
// run inline so it lands after any in-flight ticks; Close drains the inbox.
func (s *Session) NotifyClosed() {
	s.Send(func() { s.notify(events.EventSessionClosed) })
}

// PublishSnapshot notifies observers with the current rider state.
// Must be called from the session's goroutine (inside a Send closure).
func (s *Session) PublishSnapshot() {
	s.notify(events.EventStateSnapshot)
}

func (s *Session) respawn(afterFall bool) {
	s.Rider.ResetRider(s.Course.Spawn.Position(), s.Course.Spawn.Heading)
	s.input = rider.InputState{}
	telemetry.Metrics.Resets.Inc()
	if afterFall {
		s.notify(events.EventRiderReset)
	} else {
		s.notify(events.EventRiderSpawn)
	}
}

// onFall runs on the session's goroutine, re-entrant from TickPhysics.
func (s *Session) onFall(info rider.FallInfo) {
	s.Falls++
	s.LastFall = &info
	s.respawnTimer = s.RespawnDelay
	telemetry.Metrics.Falls.Inc()
	s.notify(events.EventRiderFall)
}

func (s *Session) notify(kind events.EventType) {
	for _, o := range s.observers {
		o.OnSessionEvent(s, kind)
	}
}

// Close shuts down the session's goroutine and waits for it to drain.
// Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.inbox)
	s.mu.Unlock()
	<-s.stop
}
