package rider

import (
	"math"

	"github.com/edgeabyss/ridersim/internal/core/geom"
)

// horseController is the momentum-smoothed variant. Steering runs through
// an inertia-damped filter, and a separate momentum direction lags behind
// it — the lean driver and the wobble signal both come from that lag, not
// from raw steer.
type horseController struct {
	momentum float64 // lagging steer direction, [-1,1]
}

func (*horseController) Kind() Kind { return KindHorse }

func (h *horseController) ProcessInput(r *Rider, in InputState, dt float64) {
	t := r.tuning

	// Inertia resists sudden steer change.
	response := t.SteerResponse / (1 + t.MomentumInertia)
	r.steer += (in.Steer - r.steer) * math.Min(1, response*dt)
	r.steer = geom.Clamp(r.steer, -1, 1)

	// Momentum direction follows currentSteer at a fixed lerp rate.
	h.momentum += (r.steer - h.momentum) * math.Min(1, momentumLagRate*dt)

	// Speed approaches the throttle target, independently pulled down by
	// brake and drag.
	target := in.Throttle * t.MaxSpeed
	r.speed += (target - r.speed) * math.Min(1, t.Acceleration/t.MaxSpeed*dt)
	r.speed -= (in.Brake*t.BrakeDeceleration + t.Drag) * dt
	r.speed = geom.Clamp(r.speed, 0, t.MaxSpeed)
}

func (h *horseController) ApplyMovement(r *Rider, dt float64) {
	if !r.grounded {
		r.applyAirborne(dt)
		return
	}

	// A horse fighting its own momentum turns sluggishly but never stops
	// turning entirely.
	disagreement := math.Abs(r.steer - h.momentum)
	penalty := geom.Clamp(1-disagreement, horseTurnFloor, 1)

	turn := r.speedAdjustedTurnRate() * penalty * r.sample.SteeringModifier
	r.heading += r.steer * turn * dt
	r.rebuildPlanarVelocity()
}

func (h *horseController) ApplyLean(r *Rider, dt float64) {
	t := r.tuning

	// Lean follows momentum direction, later and softer than the bike.
	speedFactor := geom.Clamp01(r.speed / (t.MaxSpeed * 0.5))
	target := -h.momentum * t.MaxLeanAngle * speedFactor * horseLeanAttenuation

	r.lean = geom.MoveToward(r.lean, target, t.LeanSpeed*horseLeanSpeedFactor*dt)

	limit := t.MaxLeanAngle * leanHardLimitFactor
	r.lean = geom.Clamp(r.lean, -limit, limit)
}

// CheckFallConditions adds the wobble sub-model before the shared threshold
// check. Low wobble grants a continuous auto-correction bonus; high wobble
// at speed drains. Both are gentle, uncapped, per-tick terms.
func (h *horseController) CheckFallConditions(r *Rider, dt float64) {
	t := r.tuning
	wobble := math.Abs(r.steer - h.momentum)

	if wobble < horseWobbleCalm {
		r.stability = geom.Clamp01(r.stability + (horseWobbleCalm-wobble)*t.AutoCorrection*dt)
	}
	if wobble > horseWobbleDanger && r.speed > t.MaxSpeed*horseWobbleSpeedGate {
		r.stability = geom.Clamp01(r.stability - (wobble-horseWobbleDanger)*horseWobbleDrainRate*dt)
		r.lastContributor = "wobble"
	}

	r.checkBaseFall()
}

func (h *horseController) Reset(*Rider) {
	h.momentum = 0
}

// MomentumDirection exposes the lagging steer direction for diagnostics.
func (h *horseController) MomentumDirection() float64 { return h.momentum }
