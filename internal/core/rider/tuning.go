package rider

import "fmt"

// Kind identifies a locomotion variant. The roster is open — future kinds
// (skateboard, snowboard) only need a Controller implementation.
type Kind string

const (
	KindBike  Kind = "bike"
	KindHorse Kind = "horse"
)

// Tuning is the per-rider-type configuration. Loaded once at rider
// initialization and never mutated by the simulation.
type Tuning struct {
	MaxSpeed          float64 `yaml:"max_speed"`          // m/s
	Acceleration      float64 `yaml:"acceleration"`       // m/s²
	BrakeDeceleration float64 `yaml:"brake_deceleration"` // m/s²
	Drag              float64 `yaml:"drag"`               // m/s², always applied

	MaxTurnRate          float64 `yaml:"max_turn_rate"`           // deg/s at standstill
	SteerResponse        float64 `yaml:"steer_response"`          // 1/s easing rate
	HighSpeedSteerFactor float64 `yaml:"high_speed_steer_factor"` // turn-rate fraction left at max speed

	StabilityRecoveryRate float64 `yaml:"stability_recovery_rate"` // per second
	FallThreshold         float64 `yaml:"fall_threshold"`          // stability at/below which the rider falls
	SteerStabilityCost    float64 `yaml:"steer_stability_cost"`    // per second at full lock
	FocusStabilityBonus   float64 `yaml:"focus_stability_bonus"`   // per second while focus held

	MaxLeanAngle float64 `yaml:"max_lean_angle"` // degrees
	LeanSpeed    float64 `yaml:"lean_speed"`     // deg/s

	GravityMultiplier   float64 `yaml:"gravity_multiplier"`
	GroundCheckDistance float64 `yaml:"ground_check_distance"` // m

	RespawnImmunity float64 `yaml:"respawn_immunity"` // seconds, defaulted when zero

	// Bike only: how strongly lean magnitude boosts turn rate.
	LeanTurnInfluence float64 `yaml:"lean_turn_influence"`

	// Horse only.
	MomentumInertia float64 `yaml:"momentum_inertia"` // resistance to steer change
	AutoCorrection  float64 `yaml:"auto_correction"`  // stability bonus rate at low wobble
}

// WithDefaults fills the knobs that are allowed to be omitted from a profile.
func (t Tuning) WithDefaults() Tuning {
	if t.GravityMultiplier <= 0 {
		t.GravityMultiplier = 1
	}
	if t.RespawnImmunity <= 0 {
		t.RespawnImmunity = defaultRespawnImmunity
	}
	return t
}

func (t Tuning) Validate() error {
	if t.MaxSpeed <= 0 {
		return fmt.Errorf("max_speed must be positive, got %v", t.MaxSpeed)
	}
	if t.Acceleration <= 0 {
		return fmt.Errorf("acceleration must be positive, got %v", t.Acceleration)
	}
	if t.MaxTurnRate <= 0 {
		return fmt.Errorf("max_turn_rate must be positive, got %v", t.MaxTurnRate)
	}
	if t.SteerResponse <= 0 {
		return fmt.Errorf("steer_response must be positive, got %v", t.SteerResponse)
	}
	if t.FallThreshold < 0 || t.FallThreshold >= 1 {
		return fmt.Errorf("fall_threshold must be in [0,1), got %v", t.FallThreshold)
	}
	if t.MaxLeanAngle <= 0 {
		return fmt.Errorf("max_lean_angle must be positive, got %v", t.MaxLeanAngle)
	}
	if t.LeanSpeed <= 0 {
		return fmt.Errorf("lean_speed must be positive, got %v", t.LeanSpeed)
	}
	if t.GroundCheckDistance <= 0 {
		return fmt.Errorf("ground_check_distance must be positive, got %v", t.GroundCheckDistance)
	}
	return nil
}
