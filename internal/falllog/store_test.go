package falllog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/edgeabyss/ridersim/internal/events"
)

func fallEvent(session, course, reason string, speed float64) events.Event {
	return events.Event{
		ID:        "evt-" + session,
		Type:      events.EventRiderFall,
		Kind:      events.KindBike,
		Course:    course,
		SessionID: session,
		Timestamp: time.Now(),
		Payload: events.RiderFallEvent{
			Reason:    reason,
			Cause:     "wind",
			Stability: 0.05,
			Speed:     speed,
			Lean:      -12.5,
			X:         1, Y: 2, Z: 3,
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "falls.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record(fallEvent("s1", "ridge", "lost_balance", 20)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(fallEvent("s2", "ridge", "fell_off_edge", 31)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	recs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// Newest first.
	if recs[0].SessionID != "s2" || recs[0].Reason != "fell_off_edge" {
		t.Errorf("newest record = %s/%s, want s2/fell_off_edge", recs[0].SessionID, recs[0].Reason)
	}
	if recs[1].Cause != "wind" {
		t.Errorf("cause = %q, want wind", recs[1].Cause)
	}
	if recs[1].Speed != 20 {
		t.Errorf("speed = %v, want 20", recs[1].Speed)
	}
	if recs[0].Kind != "bike" {
		t.Errorf("kind = %q, want bike", recs[0].Kind)
	}
}

func TestRecordRejectsWrongPayload(t *testing.T) {
	s := openTestStore(t)

	evt := fallEvent("s1", "ridge", "lost_balance", 1)
	evt.Payload = events.RiderResetEvent{}
	if err := s.Record(evt); err == nil {
		t.Fatal("expected error for non-fall payload")
	}
	if n := s.Rows(); n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

func TestCountByReason(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		s.Record(fallEvent("s1", "ridge", "lost_balance", 10))
	}
	s.Record(fallEvent("s1", "ridge", "collision", 25))

	counts, err := s.CountByReason()
	if err != nil {
		t.Fatalf("CountByReason: %v", err)
	}
	if counts["lost_balance"] != 3 {
		t.Errorf("lost_balance = %d, want 3", counts["lost_balance"])
	}
	if counts["collision"] != 1 {
		t.Errorf("collision = %d, want 1", counts["collision"])
	}
}

func TestAttachRecordsFromBus(t *testing.T) {
	s := openTestStore(t)
	bus := events.NewBus()
	s.Attach(bus)

	bus.Publish(fallEvent("s1", "ridge", "overspeed", 40))

	// The writer goroutine drains asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for s.Rows() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("record never landed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	recs, err := s.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if recs[0].Reason != "overspeed" {
		t.Errorf("reason = %q, want overspeed", recs[0].Reason)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "falls.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Record(fallEvent("s1", "ridge", "lost_balance", 5))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if n := s2.Rows(); n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}
