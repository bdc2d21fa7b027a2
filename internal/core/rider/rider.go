// Package rider implements the per-tick rider simulation: steering, speed,
// lean, environmental modifiers, and a bounded stability scalar whose
// depletion triggers a fall with a diagnosed cause.
//
// A Rider is single-writer: exactly one caller drives TickInput and
// TickPhysics. The tick order is fixed — environment query, ground check,
// stability, fall evaluation, movement — and the stability logic depends
// on it.
package rider

import (
	"math"

	"github.com/edgeabyss/ridersim/internal/core/env"
	"github.com/edgeabyss/ridersim/internal/core/geom"
	"github.com/edgeabyss/ridersim/internal/telemetry"
)

// FallInfo is the diagnostic snapshot delivered with each fall event.
type FallInfo struct {
	Reason    FallReason
	Cause     string // best-effort attribution, may be empty
	Stability float64
	Speed     float64
	Lean      float64
	Position  geom.Vec3
}

// Rider is the shared state machine. States: active, respawn-immune,
// fallen. Fallen is sticky — every tick is a no-op until ResetRider.
type Rider struct {
	kind   Kind
	tuning Tuning
	ctrl   Controller

	// A rider with no valid tuning or controller is permanently inert:
	// a configuration error, logged once, never a panic in the tick path.
	initialized bool

	pos     geom.Vec3
	vel     geom.Vec3
	heading float64 // degrees

	speed     float64 // [0, tuning.MaxSpeed]
	steer     float64 // [-1, 1]
	lean      float64 // degrees
	stability float64 // [0,1], clamped after every write

	grounded bool
	fallen   bool
	immunity float64 // seconds of respawn immunity remaining
	elapsed  float64
	tick     uint64

	in InputState

	ground  env.GroundQuery
	surface env.SurfaceProvider
	wind    env.WindProvider
	sample  env.Sample

	// diagnostics
	lastContributor string
	fallStability   float64
	fallSpeed       float64

	onFall []func(FallInfo)
}

// New creates an uninitialized rider of the given kind. An unknown kind is
// logged and leaves the rider inert.
func New(kind Kind) *Rider {
	r := &Rider{
		kind:   kind,
		sample: env.Neutral(),
	}
	r.ctrl = controllerFor(kind)
	if r.ctrl == nil {
		telemetry.Errorf("rider: unknown kind %q — rider will be inert", kind)
	}
	return r
}

// NewWithController creates a rider driven by a custom locomotion variant.
func NewWithController(ctrl Controller) *Rider {
	return &Rider{
		kind:   ctrl.Kind(),
		ctrl:   ctrl,
		sample: env.Neutral(),
	}
}

// Initialize loads tuning and resets all runtime state to defaults.
// Invalid tuning is logged and leaves the rider inert.
func (r *Rider) Initialize(t Tuning) {
	if r.ctrl == nil {
		return
	}
	t = t.WithDefaults()
	if err := t.Validate(); err != nil {
		telemetry.Errorf("rider: invalid %s tuning: %v — rider will be inert", r.kind, err)
		r.initialized = false
		return
	}
	r.tuning = t
	r.initialized = true
	r.ResetRider(geom.Vec3{}, 0)
	r.immunity = 0 // initial spawn carries no immunity window
}

// SetEnvironment injects the environment providers. A nil provider falls
// back to the neutral default (traction=1, wind=0, flat ground).
func (r *Rider) SetEnvironment(ground env.GroundQuery, surface env.SurfaceProvider, wind env.WindProvider) {
	r.ground = ground
	r.surface = surface
	r.wind = wind
}

// OnFall registers a callback fired exactly once per fall.
func (r *Rider) OnFall(fn func(FallInfo)) {
	r.onFall = append(r.onFall, fn)
}

// TickInput latches one frame of input. No-op while fallen or uninitialized.
func (r *Rider) TickInput(in InputState) {
	if !r.initialized || r.fallen {
		return
	}
	r.in = in.Clamped()
}

// TickPhysics advances the simulation by dt seconds. No-op while fallen or
// uninitialized. Phase order is fixed; see the package comment.
func (r *Rider) TickPhysics(dt float64) {
	if !r.initialized || r.fallen || dt <= 0 {
		return
	}
	r.tick++
	r.elapsed += dt

	if r.immunity > 0 {
		r.immunity -= dt
		if r.immunity < 0 {
			r.immunity = 0
		}
	}

	r.queryEnvironment()
	r.updateGrounded()
	r.updateStability(dt)

	if r.immunity <= 0 {
		r.ctrl.CheckFallConditions(r, dt)
		if r.fallen {
			return
		}
	}

	r.ctrl.ProcessInput(r, r.in, dt)
	r.ctrl.ApplyMovement(r, dt)
	r.ctrl.ApplyLean(r, dt)

	if r.grounded {
		r.vel = r.vel.Add(r.sample.WindForce.Scale(dt))
	}
	r.pos = r.pos.Add(r.vel.Scale(dt))
}

// ResetRider teleports the rider to a fresh valid state and arms the
// respawn immunity window.
func (r *Rider) ResetRider(pos geom.Vec3, headingDeg float64) {
	if !r.initialized {
		return
	}
	r.pos = pos
	r.heading = headingDeg
	r.vel = geom.Vec3{}
	r.speed = 0
	r.steer = 0
	r.lean = 0
	r.stability = 1
	r.fallen = false
	r.immunity = r.tuning.RespawnImmunity
	r.sample = env.Neutral()
	r.in = InputState{}
	r.lastContributor = ""
	r.ctrl.Reset(r)
}

// TriggerFall is the single gated entry point for falls. Ignored while
// already fallen or inside the immunity window, so double-fire and
// respawn-frame re-falls are absorbed silently.
func (r *Rider) TriggerFall(reason FallReason) {
	if !r.initialized || r.fallen || r.immunity > 0 {
		return
	}
	r.fallen = true
	r.fallStability = r.stability
	r.fallSpeed = r.speed

	info := FallInfo{
		Reason:    reason,
		Cause:     r.attributeCause(),
		Stability: r.stability,
		Speed:     r.speed,
		Lean:      r.lean,
		Position:  r.pos,
	}
	telemetry.Debugf("rider: %s fell (%s) cause=%q stability=%.2f speed=%.1f",
		r.kind, reason, info.Cause, info.Stability, info.Speed)

	for _, fn := range r.onFall {
		fn(info)
	}
}

// attributeCause guesses the dominant contributor at the moment of fall.
// Cosmetic — used for tuning diagnostics, never for gameplay.
func (r *Rider) attributeCause() string {
	if r.lastContributor != "" {
		return r.lastContributor
	}
	switch {
	case r.sample.WindDrainRate > significantDrainRate:
		return "wind"
	case math.Abs(r.lean) > r.tuning.MaxLeanAngle*0.9:
		return "over-lean"
	case r.sample.Traction < 0.5:
		return "low traction"
	case r.speed > r.tuning.MaxSpeed*0.7 && math.Abs(r.steer) > 0.5:
		return "high-speed steering"
	default:
		return ""
	}
}

func (r *Rider) queryEnvironment() {
	s := env.Neutral()
	if r.surface != nil {
		s.Traction, s.SteeringModifier, s.StabilityModifier = r.surface.SurfaceAt(r.pos)
		s.Traction = geom.Clamp01(s.Traction)
	}
	if r.wind != nil {
		s.WindForce, s.WindDrainRate = r.wind.WindAt(r.pos, r.elapsed)
	}
	r.sample = s
}

func (r *Rider) updateGrounded() {
	if r.ground == nil {
		r.grounded = env.FlatGround{}.GroundWithin(r.pos, r.tuning.GroundCheckDistance)
		return
	}
	r.grounded = r.ground.GroundWithin(r.pos, r.tuning.GroundCheckDistance)
}

// checkBaseFall is the shared fall condition: stability depleted to the
// tuned threshold.
func (r *Rider) checkBaseFall() {
	if r.stability <= r.tuning.FallThreshold {
		r.TriggerFall(LostBalance)
	}
}

// speedAdjustedTurnRate degrades turning authority linearly with speed
// toward the type-specific floor. Shared by both variants.
func (r *Rider) speedAdjustedTurnRate() float64 {
	frac := geom.Clamp01(r.speed / r.tuning.MaxSpeed)
	return r.tuning.MaxTurnRate * geom.Lerp(1, r.tuning.HighSpeedSteerFactor, frac)
}

// applyAirborne integrates gravity while the rider has no ground contact.
func (r *Rider) applyAirborne(dt float64) {
	r.vel.Y -= gravity * r.tuning.GravityMultiplier * dt
}

// rebuildPlanarVelocity points the horizontal velocity along the current
// heading at the current speed, blended toward the existing lateral
// momentum in proportion to lost traction (simple slip model). Vertical
// velocity is preserved, except that grounded contact never sinks.
func (r *Rider) rebuildPlanarVelocity() {
	desired := geom.Forward(r.heading).Scale(r.speed)
	slip := geom.Clamp01(1 - r.sample.Traction)
	planar := r.vel.Planar()
	blended := desired.Scale(1 - slip).Add(planar.Scale(slip))
	r.vel.X = blended.X
	r.vel.Z = blended.Z
	if r.vel.Y < 0 {
		r.vel.Y = 0
	}
}

// Read-only getters, polled by HUD/score/camera collaborators.

func (r *Rider) Kind() Kind          { return r.kind }
func (r *Rider) Tuning() Tuning      { return r.tuning }
func (r *Rider) Initialized() bool   { return r.initialized }
func (r *Rider) Speed() float64      { return r.speed }
func (r *Rider) Steer() float64      { return r.steer }
func (r *Rider) Stability() float64  { return r.stability }
func (r *Rider) LeanAngle() float64  { return r.lean }
func (r *Rider) Heading() float64    { return r.heading }
func (r *Rider) Position() geom.Vec3 { return r.pos }
func (r *Rider) Velocity() geom.Vec3 { return r.vel }
func (r *Rider) IsGrounded() bool    { return r.grounded }
func (r *Rider) HasFallen() bool     { return r.fallen }
func (r *Rider) IsImmune() bool      { return r.immunity > 0 }
func (r *Rider) Tick() uint64        { return r.tick }
