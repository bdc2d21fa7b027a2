package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/edgeabyss/ridersim/internal/events"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

// BusPublisher forwards session notifications onto the event bus as typed
// envelope events. It runs on each session's goroutine; bus handlers that
// do slow work must hand off to their own goroutine.
type BusPublisher struct {
	bus *events.Bus
}

func NewBusPublisher(bus *events.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

func (p *BusPublisher) OnSessionEvent(s *Session, kind events.EventType) {
	evt := events.Event{
		ID:        uuid.NewString(),
		Type:      kind,
		Kind:      events.RiderKind(s.Kind),
		Course:    s.Course.Name,
		SessionID: s.ID,
		Timestamp: time.Now(),
	}

	pos := s.Rider.Position()
	switch kind {
	case events.EventRiderSpawn:
		evt.Payload = events.RiderSpawnEvent{
			Name: s.Name,
			X:    pos.X, Y: pos.Y, Z: pos.Z,
			Respawn: s.Falls > 0,
		}
	case events.EventRiderFall:
		if s.LastFall == nil {
			return
		}
		f := s.LastFall
		evt.Payload = events.RiderFallEvent{
			Reason:    f.Reason.String(),
			Cause:     f.Cause,
			Stability: f.Stability,
			Speed:     f.Speed,
			Lean:      f.Lean,
			X:         f.Position.X, Y: f.Position.Y, Z: f.Position.Z,
		}
	case events.EventRiderReset:
		evt.Payload = events.RiderResetEvent{
			X: pos.X, Y: pos.Y, Z: pos.Z,
			AfterFall: true,
		}
	case events.EventStateSnapshot:
		evt.Payload = events.StateSnapshotEvent{
			Tick:      s.Rider.Tick(),
			X:         pos.X, Y: pos.Y, Z: pos.Z,
			Heading:   s.Rider.Heading(),
			Speed:     s.Rider.Speed(),
			Stability: s.Rider.Stability(),
			Lean:      s.Rider.LeanAngle(),
			Grounded:  s.Rider.IsGrounded(),
			Fallen:    s.Rider.HasFallen(),
		}
		telemetry.Metrics.SnapshotsSent.Inc()
	case events.EventSessionClosed:
		evt.Payload = events.SessionClosedEvent{
			Falls:  s.Falls,
			Ticks:  s.Ticks,
			Uptime: time.Since(s.StartedAt).Seconds(),
		}
	default:
		return
	}

	p.bus.Publish(evt)
}
