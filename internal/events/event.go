package events

import "time"

// RiderKind identifies the locomotion variant a session is running.
type RiderKind string

const (
	KindBike  RiderKind = "bike"
	KindHorse RiderKind = "horse"
)

// Event is the envelope that flows through the event bus.
// Every domain event (spawn, fall, reset, state snapshot) is wrapped in one.
type Event struct {
	ID        string
	Type      EventType
	Kind      RiderKind
	Course    string
	SessionID string
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	// Session lifecycle
	EventRiderSpawn    EventType = "rider_spawn"
	EventSessionClosed EventType = "session_closed"
	// Simulation events
	EventRiderFall  EventType = "rider_fall"
	EventRiderReset EventType = "rider_reset"
	// Periodic state fanout for HUD/spectator clients
	EventStateSnapshot EventType = "state_snapshot"
)
