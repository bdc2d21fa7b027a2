package events

// RiderSpawnEvent is published once when a session's rider first enters the
// course, and again after every respawn teleport.
type RiderSpawnEvent struct {
	Name    string  `json:"name,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Respawn bool    `json:"respawn,omitempty"`
}

// RiderFallEvent is published exactly once per fall.
// Cause is the best-effort attribution string ("wind", "steering",
// "collision", "wobble", ...), possibly empty. Diagnostic only.
type RiderFallEvent struct {
	Reason    string  `json:"reason"`
	Cause     string  `json:"cause,omitempty"`
	Stability float64 `json:"stability"`
	Speed     float64 `json:"speed"`
	Lean      float64 `json:"lean"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// RiderResetEvent is published when a rider is teleported back to a spawn
// point, either by the reset input or by the auto-respawn after a fall.
type RiderResetEvent struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	AfterFall bool    `json:"after_fall,omitempty"`
}

// StateSnapshotEvent carries the polled rider state for HUD and spectator
// clients. Published at a rate-limited cadence, never on every tick.
type StateSnapshotEvent struct {
	Tick      uint64  `json:"tick"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Heading   float64 `json:"heading"`
	Speed     float64 `json:"speed"`
	Stability float64 `json:"stability"`
	Lean      float64 `json:"lean"`
	Grounded  bool    `json:"grounded"`
	Fallen    bool    `json:"fallen"`
}

// SessionClosedEvent signals that a session was removed from the store.
type SessionClosedEvent struct {
	Falls  int64   `json:"falls"`
	Ticks  uint64  `json:"ticks"`
	Uptime float64 `json:"uptime_sec"`
}
