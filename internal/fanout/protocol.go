package fanout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/edgeabyss/ridersim/internal/events"
)

// Envelope is the wire format for events sent over the fanout WebSocket.
type Envelope struct {
	Type      string           `json:"type"`
	ID        string           `json:"id,omitempty"`
	Kind      events.RiderKind `json:"kind,omitempty"`
	Course    string           `json:"course,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp time.Time        `json:"ts"`
	Payload   json.RawMessage  `json:"payload"`
}

// MarshalEvent serializes an Event into a JSON-encoded Envelope.
func MarshalEvent(evt events.Event) ([]byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		Type:      string(evt.Type),
		ID:        evt.ID,
		Kind:      evt.Kind,
		Course:    evt.Course,
		SessionID: evt.SessionID,
		Timestamp: evt.Timestamp,
		Payload:   payload,
	}
	return json.Marshal(env)
}

// UnmarshalEvent deserializes a JSON Envelope back into a typed Event.
func UnmarshalEvent(data []byte) (events.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.Event{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	evt := events.Event{
		ID:        env.ID,
		Type:      events.EventType(env.Type),
		Kind:      env.Kind,
		Course:    env.Course,
		SessionID: env.SessionID,
		Timestamp: env.Timestamp,
	}

	switch evt.Type {
	case events.EventRiderSpawn:
		var p events.RiderSpawnEvent
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal rider_spawn: %w", err)
		}
		evt.Payload = p
	case events.EventRiderFall:
		var p events.RiderFallEvent
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal rider_fall: %w", err)
		}
		evt.Payload = p
	case events.EventRiderReset:
		var p events.RiderResetEvent
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal rider_reset: %w", err)
		}
		evt.Payload = p
	case events.EventStateSnapshot:
		var p events.StateSnapshotEvent
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal state_snapshot: %w", err)
		}
		evt.Payload = p
	case events.EventSessionClosed:
		var p events.SessionClosedEvent
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal session_closed: %w", err)
		}
		evt.Payload = p
	default:
		return evt, fmt.Errorf("unknown event type: %s", env.Type)
	}

	return evt, nil
}
