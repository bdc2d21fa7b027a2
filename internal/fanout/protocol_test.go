package fanout

import (
	"testing"
	"time"

	"github.com/edgeabyss/ridersim/internal/events"
)

func TestEnvelopeCarriesTypedPayloads(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	cases := []events.Event{
		{
			ID: "e1", Type: events.EventRiderFall, Kind: events.KindBike,
			Course: "ridge-north", SessionID: "s1", Timestamp: ts,
			Payload: events.RiderFallEvent{
				Reason: "lost_balance", Cause: "wind",
				Stability: 0.08, Speed: 21.5, Lean: -33.1,
				X: 4.2, Y: 10, Z: 181.4,
			},
		},
		{
			ID: "e2", Type: events.EventStateSnapshot, Kind: events.KindHorse,
			Course: "ridge-north", SessionID: "s2", Timestamp: ts,
			Payload: events.StateSnapshotEvent{
				Tick: 4410, X: 1, Y: 10, Z: 55, Heading: 12.5,
				Speed: 14.2, Stability: 0.77, Lean: -6.3, Grounded: true,
			},
		},
		{
			ID: "e3", Type: events.EventRiderSpawn, Kind: events.KindBike,
			Course: "ridge-north", SessionID: "s3", Timestamp: ts,
			Payload: events.RiderSpawnEvent{Name: "ghost", X: 0, Y: 10, Z: 0},
		},
		{
			ID: "e4", Type: events.EventRiderReset, Kind: events.KindHorse,
			Course: "ridge-north", SessionID: "s4", Timestamp: ts,
			Payload: events.RiderResetEvent{X: 0, Y: 10, Z: 0, AfterFall: true},
		},
		{
			ID: "e5", Type: events.EventSessionClosed, Kind: events.KindBike,
			Course: "ridge-north", SessionID: "s5", Timestamp: ts,
			Payload: events.SessionClosedEvent{Falls: 3, Ticks: 9000, Uptime: 180},
		},
	}

	for _, want := range cases {
		data, err := MarshalEvent(want)
		if err != nil {
			t.Fatalf("%s: marshal: %v", want.Type, err)
		}
		got, err := UnmarshalEvent(data)
		if err != nil {
			t.Fatalf("%s: unmarshal: %v", want.Type, err)
		}

		if got.ID != want.ID || got.Type != want.Type || got.Kind != want.Kind ||
			got.Course != want.Course || got.SessionID != want.SessionID {
			t.Fatalf("%s: envelope mismatch: got %+v", want.Type, got)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Fatalf("%s: timestamp %v, want %v", want.Type, got.Timestamp, want.Timestamp)
		}
		if got.Payload != want.Payload {
			t.Fatalf("%s: payload mismatch:\ngot  %+v\nwant %+v", want.Type, got.Payload, want.Payload)
		}
	}
}

func TestUnmarshalRejectsUnknownType(t *testing.T) {
	if _, err := UnmarshalEvent([]byte(`{"type":"mystery","ts":"2026-03-14T10:30:00Z","payload":{}}`)); err == nil {
		t.Fatalf("expected error for unknown event type")
	}
}

func TestUnmarshalRejectsMalformedEnvelope(t *testing.T) {
	if _, err := UnmarshalEvent([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
