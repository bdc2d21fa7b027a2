package rider

import (
	"math"

	"github.com/edgeabyss/ridersim/internal/core/geom"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

// updateStability runs the centralized per-tick stability accounting.
// Every term is deltaTime-scaled and continuous — no single term can cause
// an instant failure in one tick. Discrete shocks go through
// ApplyShockDamage instead.
func (r *Rider) updateStability(dt float64) {
	t := r.tuning
	s := r.sample

	recovery := t.StabilityRecoveryRate * s.StabilityModifier * dt
	if r.in.Focus {
		recovery += t.FocusStabilityBonus * dt
	}

	windDrain := s.WindDrainRate * dt
	steerCost := math.Abs(r.steer) * t.SteerStabilityCost * (1 + (1-s.Traction)*lowTractionSteerCostBoost) * dt
	speedPenalty := (r.speed / t.MaxSpeed) * math.Abs(r.steer) * speedSteerPenaltyRate * dt

	r.stability = geom.Clamp01(r.stability + recovery - windDrain - steerCost - speedPenalty)
	r.trackContributor(windDrain, steerCost, speedPenalty, dt)
}

// trackContributor remembers the dominant drain this tick when it is
// significant, for best-effort fall attribution.
func (r *Rider) trackContributor(windDrain, steerCost, speedPenalty, dt float64) {
	threshold := significantDrainRate * dt
	name, max := "", threshold
	if windDrain > max {
		name, max = "wind", windDrain
	}
	if steerCost > max {
		name, max = "steering", steerCost
	}
	if speedPenalty > max {
		name = "high-speed steering"
	}
	r.lastContributor = name
}

// ApplyShockDamage applies a discrete stability change (collision shocks,
// scripted penalties). Negative deltas hitting a rider above the safety
// threshold are capped: the drop is limited to the cap AND the result is
// floored at currentStability − cap, so one impulse can never take a safe
// rider to zero. Below the threshold no cap applies — the rider is already
// in danger and impulses are fully lethal. Falls caused by a shock carry
// the Collision reason.
func (r *Rider) ApplyShockDamage(delta float64) {
	if !r.initialized || r.fallen {
		return
	}
	telemetry.Metrics.ShockImpulses.Inc()

	if delta < 0 && r.stability > impulseSafeThreshold {
		drop := -delta
		if drop > impulseCap {
			drop = impulseCap
		}
		next := r.stability - drop
		if floor := r.stability - impulseCap; next < floor {
			next = floor
		}
		r.stability = geom.Clamp01(next)
	} else {
		r.stability = geom.Clamp01(r.stability + delta)
	}

	if delta < 0 {
		r.lastContributor = "collision"
		if r.stability <= r.tuning.FallThreshold {
			r.TriggerFall(Collision)
		}
	}
}
