package rider

import (
	"math"

	"github.com/edgeabyss/ridersim/internal/core/geom"
)

// bikeController is the snappy variant: zero momentum inertia, steer eases
// straight toward input, lean tied to speed and wind.
type bikeController struct{}

func (bikeController) Kind() Kind { return KindBike }

func (bikeController) ProcessInput(r *Rider, in InputState, dt float64) {
	t := r.tuning

	// Steer eases toward raw input at a traction-scaled response rate.
	response := t.SteerResponse * r.sample.Traction
	r.steer += (in.Steer - r.steer) * math.Min(1, response*dt)
	r.steer = geom.Clamp(r.steer, -1, 1)

	net := in.Throttle*t.Acceleration*r.sample.Traction -
		in.Brake*t.BrakeDeceleration*r.sample.Traction -
		t.Drag
	r.speed = geom.Clamp(r.speed+net*dt, 0, t.MaxSpeed)
}

func (bikeController) ApplyMovement(r *Rider, dt float64) {
	if !r.grounded {
		r.applyAirborne(dt)
		return
	}

	t := r.tuning
	turn := r.speedAdjustedTurnRate()
	turn *= 1 + math.Abs(r.lean)/t.MaxLeanAngle*t.LeanTurnInfluence
	// Traction reduces turning but never fully kills it.
	turn *= geom.Lerp(1, r.sample.Traction, bikeTractionTurnBlend)
	turn *= r.sample.SteeringModifier

	r.heading += r.steer * turn * dt
	r.rebuildPlanarVelocity()
}

func (bikeController) ApplyLean(r *Rider, dt float64) {
	t := r.tuning

	speedFactor := geom.Clamp01(r.speed / (t.MaxSpeed * 0.5))
	target := -r.steer * t.MaxLeanAngle * speedFactor
	target += geom.Right(r.heading).Dot(r.sample.WindForce) * windLeanFactor

	r.lean = geom.MoveToward(r.lean, target, t.LeanSpeed*dt)

	limit := t.MaxLeanAngle * leanHardLimitFactor
	r.lean = geom.Clamp(r.lean, -limit, limit)
}

func (bikeController) CheckFallConditions(r *Rider, _ float64) {
	r.checkBaseFall()
}

func (bikeController) Reset(*Rider) {}
