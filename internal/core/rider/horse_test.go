package rider

import (
	"math"
	"testing"

	"github.com/edgeabyss/ridersim/internal/core/geom"
)

func horseMomentum(r *Rider) float64 {
	return r.ctrl.(*horseController).momentum
}

func TestHorseMomentumLagsSteer(t *testing.T) {
	r := newTestRider(t, KindHorse)

	// Settle steering fully left.
	for i := 0; i < 500; i++ {
		r.TickInput(InputState{Steer: -1})
		r.TickPhysics(0.02)
	}
	if horseMomentum(r) > -0.9 {
		t.Fatalf("momentum did not settle left: %f", horseMomentum(r))
	}

	// Flip to full right: momentum must not jump. It closes the gap at
	// the fixed 2/s lerp and stays measurably behind steer for a while.
	prev := horseMomentum(r)
	behindTicks := 0
	for i := 0; i < 50; i++ {
		r.TickInput(InputState{Steer: 1})
		r.TickPhysics(0.02)

		m := horseMomentum(r)
		if m < prev-1e-9 {
			t.Fatalf("tick %d: momentum moved away from target: %f → %f", i, prev, m)
		}
		if step := m - prev; step > 2.0*0.02*2+1e-9 {
			t.Fatalf("tick %d: momentum jumped by %f in one tick", i, step)
		}
		if r.Steer()-m > 0.05 {
			behindTicks++
		}
		prev = m
	}
	if behindTicks < 5 {
		t.Fatalf("momentum lagged steer for only %d ticks", behindTicks)
	}
}

func TestHorseSteerResistsSuddenChange(t *testing.T) {
	bike := newTestRider(t, KindBike)
	horse := newTestRider(t, KindHorse)

	for i := 0; i < 10; i++ {
		bike.TickInput(InputState{Steer: 1})
		bike.TickPhysics(0.02)
		horse.TickInput(InputState{Steer: 1})
		horse.TickPhysics(0.02)
	}

	if horse.Steer() >= bike.Steer() {
		t.Fatalf("horse steer should build slower than bike: horse=%f bike=%f",
			horse.Steer(), bike.Steer())
	}
}

func TestHorseWobblePenalizesTurnRate(t *testing.T) {
	headingGain := func(momentum float64) float64 {
		r := newTestRider(t, KindHorse)
		r.grounded = true
		r.speed = 10
		r.steer = 1
		r.ctrl.(*horseController).momentum = momentum
		h0 := r.Heading()
		r.ctrl.ApplyMovement(r, 0.02)
		return r.Heading() - h0
	}

	agreed := headingGain(1)    // no wobble
	fighting := headingGain(-1) // full disagreement
	if fighting >= agreed {
		t.Fatalf("wobble should slow turning: agreed=%f fighting=%f", agreed, fighting)
	}
	// Floored at 30% of nominal — never zero.
	if fighting < agreed*horseTurnFloor-1e-9 {
		t.Fatalf("turn penalty went below the floor: agreed=%f fighting=%f", agreed, fighting)
	}
}

func TestHorseAutoCorrectionRecoversStability(t *testing.T) {
	r := newTestRider(t, KindHorse)
	// Kill passive recovery so only the wobble bonus can raise stability.
	r.SetEnvironment(nil, fakeSurface{traction: 1, steering: 1, stability: 0}, nil)
	r.stability = 0.5

	// Steer centered: wobble ~0, well under the calm threshold.
	for i := 0; i < 100; i++ {
		r.TickInput(InputState{Throttle: 0.3})
		r.TickPhysics(0.02)
	}

	if r.Stability() <= 0.5 {
		t.Fatalf("auto-correction did not recover stability: %f", r.Stability())
	}
}

func TestHorseHighWobbleAtSpeedDrains(t *testing.T) {
	r := newTestRider(t, KindHorse)
	r.SetEnvironment(nil, fakeSurface{traction: 1, steering: 1, stability: 0}, nil)

	r.speed = r.tuning.MaxSpeed * 0.9
	r.steer = 1
	r.ctrl.(*horseController).momentum = -1 // wobble = 2
	before := r.Stability()

	r.ctrl.CheckFallConditions(r, 0.02)
	if r.Stability() >= before {
		t.Fatalf("high wobble at speed did not drain: %f → %f", before, r.Stability())
	}

	// Same wobble below the speed gate: no drain.
	r.speed = r.tuning.MaxSpeed * 0.5
	before = r.Stability()
	r.ctrl.CheckFallConditions(r, 0.02)
	if r.Stability() < before {
		t.Fatalf("wobble drained below the speed gate: %f → %f", before, r.Stability())
	}
}

func TestHorseLeanFollowsMomentumNotSteer(t *testing.T) {
	r := newTestRider(t, KindHorse)
	r.speed = 20
	r.steer = 1
	r.ctrl.(*horseController).momentum = -1

	r.ctrl.ApplyLean(r, 0.02)
	// Steer is right (negative lean target) but momentum is left — lean
	// must move positive, following momentum.
	if r.LeanAngle() <= 0 {
		t.Fatalf("lean followed steer instead of momentum: %f", r.LeanAngle())
	}
}

func TestHorseLeanSofterThanBike(t *testing.T) {
	lean := func(kind Kind) float64 {
		r := newTestRider(t, kind)
		for i := 0; i < 150; i++ {
			r.TickInput(InputState{Throttle: 1, Steer: 1})
			r.TickPhysics(0.02)
		}
		return math.Abs(r.LeanAngle())
	}

	if h, b := lean(KindHorse), lean(KindBike); h >= b {
		t.Fatalf("horse should lean less than bike: horse=%f bike=%f", h, b)
	}
}

func TestHorseResetClearsMomentum(t *testing.T) {
	r := newTestRider(t, KindHorse)
	for i := 0; i < 100; i++ {
		r.TickInput(InputState{Steer: 1})
		r.TickPhysics(0.02)
	}
	if horseMomentum(r) == 0 {
		t.Fatalf("expected nonzero momentum before reset")
	}

	r.ResetRider(geom.Vec3{}, 0)
	if horseMomentum(r) != 0 {
		t.Fatalf("reset left momentum = %f", horseMomentum(r))
	}
}
