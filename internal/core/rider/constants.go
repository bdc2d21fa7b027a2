package rider

// Hand-tuned feel constants shared by both locomotion variants. These were
// balanced in playtesting — change them together with the tuning profiles,
// not in isolation.
const (
	gravity = 9.81 // m/s², scaled by the tuning gravity multiplier while airborne

	// Lean may briefly overshoot the tuned maximum under wind; the hard
	// clamp sits a fixed factor above it.
	leanHardLimitFactor = 1.2

	// Capped impulse damage (collisions): a rider above the safety
	// threshold cannot be knocked down by more than the cap in a single
	// shock. Below the threshold impulses are fully lethal.
	impulseSafeThreshold = 0.5
	impulseCap           = 0.4

	// Continuous stability drains.
	speedSteerPenaltyRate     = 0.1 // (speed/max)·|steer|·rate per second
	lowTractionSteerCostBoost = 0.5 // steering costs this much more on zero traction

	// Wind tilts the rider by its rightward force component.
	windLeanFactor = 0.4 // degrees of target lean per unit of lateral force

	// A drain has to exceed this rate (per second) to be remembered as the
	// "last significant contributor" for fall attribution.
	significantDrainRate = 0.05

	defaultRespawnImmunity = 0.5 // seconds

	// Bike: traction never fully kills turning.
	bikeTractionTurnBlend = 0.7

	// Horse: momentum lag and wobble thresholds.
	momentumLagRate      = 2.0 // 1/s lerp of momentum direction toward steer
	horseTurnFloor       = 0.3 // minimum fraction of nominal turn rate
	horseLeanAttenuation = 0.7
	horseLeanSpeedFactor = 0.5
	horseWobbleCalm      = 0.3 // below: auto-correction bonus
	horseWobbleDanger    = 0.8 // above (at speed): continuous drain
	horseWobbleSpeedGate = 0.7 // fraction of max speed gating the drain
	horseWobbleDrainRate = 0.5 // stability per second per unit of excess wobble
)
