package rider

import (
	"math"
	"testing"

	"github.com/edgeabyss/ridersim/internal/core/geom"
)

func TestBikeStraightLineAcceleration(t *testing.T) {
	// tuning {accel=18, maxSpeed=35, drag=2.5}: net 15.5 m/s² until the
	// clamp, so 2 s of full throttle lands near 31, never above 35.
	r := newTestRider(t, KindBike)

	for i := 0; i < 20; i++ {
		r.TickInput(InputState{Throttle: 1})
		r.TickPhysics(0.1)
	}

	if r.Speed() > 35 {
		t.Fatalf("speed exceeded max: %f", r.Speed())
	}
	if r.Speed() < 29 || r.Speed() > 32 {
		t.Fatalf("speed after 2s full throttle = %f, want ≈31", r.Speed())
	}
	if r.Position().Z <= 0 {
		t.Fatalf("expected forward travel along +Z, got z=%f", r.Position().Z)
	}
}

func TestBikeSpeedClampsAtMax(t *testing.T) {
	r := newTestRider(t, KindBike)
	for i := 0; i < 100; i++ {
		r.TickInput(InputState{Throttle: 1})
		r.TickPhysics(0.1)
	}
	if math.Abs(r.Speed()-35) > 1e-9 {
		t.Fatalf("speed = %f, want clamped at 35", r.Speed())
	}
}

func TestBikeBrakingStops(t *testing.T) {
	r := newTestRider(t, KindBike)
	for i := 0; i < 30; i++ {
		r.TickInput(InputState{Throttle: 1})
		r.TickPhysics(0.1)
	}
	for i := 0; i < 30; i++ {
		r.TickInput(InputState{Brake: 1})
		r.TickPhysics(0.1)
	}
	if r.Speed() != 0 {
		t.Fatalf("speed after 3s of braking = %f, want 0", r.Speed())
	}
}

func TestBikeLeanOpposesSteerAndScalesWithSpeed(t *testing.T) {
	r := newTestRider(t, KindBike)

	// At standstill steering produces no lean.
	for i := 0; i < 10; i++ {
		r.TickInput(InputState{Steer: 1})
		r.TickPhysics(0.02)
	}
	if r.LeanAngle() != 0 {
		t.Fatalf("lean at standstill = %f, want 0", r.LeanAngle())
	}

	// At speed, steering right leans negative (into the turn).
	for i := 0; i < 100; i++ {
		r.TickInput(InputState{Throttle: 1, Steer: 1})
		r.TickPhysics(0.02)
	}
	if r.LeanAngle() >= 0 {
		t.Fatalf("lean at speed with steer=1: %f, want negative", r.LeanAngle())
	}
}

func TestBikeLeanHardClampUnderWind(t *testing.T) {
	r := newTestRider(t, KindBike)
	r.SetEnvironment(nil, nil, fakeWind{force: geom.Vec3{X: 500}})

	for i := 0; i < 200; i++ {
		r.TickInput(InputState{Throttle: 1})
		r.TickPhysics(0.02)
		limit := r.Tuning().MaxLeanAngle * leanHardLimitFactor
		if math.Abs(r.LeanAngle()) > limit+1e-9 {
			t.Fatalf("tick %d: lean %f exceeded hard limit %f", i, r.LeanAngle(), limit)
		}
	}
}

func TestBikeTurningChangesHeading(t *testing.T) {
	r := newTestRider(t, KindBike)
	for i := 0; i < 50; i++ {
		r.TickInput(InputState{Throttle: 0.5, Steer: 1})
		r.TickPhysics(0.02)
	}
	if r.Heading() <= 0 {
		t.Fatalf("heading after steering right = %f, want positive", r.Heading())
	}
}

func TestBikeHighSpeedTurnRateDegrades(t *testing.T) {
	headingGain := func(speed float64) float64 {
		r := newTestRider(t, KindBike)
		r.speed = speed
		r.steer = 1
		h0 := r.Heading()
		for i := 0; i < 10; i++ {
			r.TickInput(InputState{Throttle: 0, Steer: 1})
			r.TickPhysics(0.02)
		}
		return r.Heading() - h0
	}

	slow := headingGain(5)
	fast := headingGain(34)
	if fast >= slow {
		t.Fatalf("turn authority should degrade with speed: slow=%f fast=%f", slow, fast)
	}
}

func TestBikeLowTractionSlides(t *testing.T) {
	r := newTestRider(t, KindBike)
	// Build straight-line momentum on full grip.
	for i := 0; i < 60; i++ {
		r.TickInput(InputState{Throttle: 1})
		r.TickPhysics(0.02)
	}

	// Then cut traction and steer hard: velocity should keep pointing
	// mostly along the old travel direction instead of snapping to the
	// new heading.
	r.SetEnvironment(nil, fakeSurface{traction: 0.1, steering: 1, stability: 1}, nil)
	r.steer = 1
	for i := 0; i < 25; i++ {
		r.TickInput(InputState{Throttle: 1, Steer: 1})
		r.TickPhysics(0.02)
	}

	vel := r.Velocity().Planar().Normalized()
	hdg := geom.Forward(r.Heading())
	if vel.Dot(hdg) > 0.999 {
		t.Fatalf("no slip on low traction: velocity locked to heading (dot=%f)", vel.Dot(hdg))
	}
}
