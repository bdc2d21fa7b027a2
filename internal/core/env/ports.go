// Package env defines the environment capabilities the rider core consumes.
// Providers are injected, never global — a rider with no providers runs
// against neutral values (full traction, no wind, infinite flat ground).
package env

import "github.com/edgeabyss/ridersim/internal/core/geom"

// Sample is the per-tick environment reading cached by a rider.
// Re-queried every physics tick, never persisted across ticks.
type Sample struct {
	Traction          float64 // [0,1], scales acceleration/braking/turning
	SteeringModifier  float64 // scales turning authority
	StabilityModifier float64 // scales passive stability recovery
	WindForce         geom.Vec3
	WindDrainRate     float64 // stability drained per second
}

// Neutral is the sample used when a provider is absent or unavailable.
func Neutral() Sample {
	return Sample{
		Traction:          1,
		SteeringModifier:  1,
		StabilityModifier: 1,
	}
}

// GroundQuery answers a downward proximity check: is there ground within
// maxDist below origin along -Y.
type GroundQuery interface {
	GroundWithin(origin geom.Vec3, maxDist float64) bool
}

// SurfaceProvider reports the traction triple for a world position.
type SurfaceProvider interface {
	SurfaceAt(pos geom.Vec3) (traction, steering, stability float64)
}

// WindProvider reports the wind force vector and stability drain rate at a
// world position, elapsed seconds into the simulation.
type WindProvider interface {
	WindAt(pos geom.Vec3, elapsed float64) (force geom.Vec3, drainRate float64)
}

// FlatGround answers true for any origin at or above elevation zero.
type FlatGround struct{}

func (FlatGround) GroundWithin(origin geom.Vec3, maxDist float64) bool {
	return origin.Y >= 0 && origin.Y <= maxDist
}

// NeutralSurface reports full traction everywhere.
type NeutralSurface struct{}

func (NeutralSurface) SurfaceAt(geom.Vec3) (float64, float64, float64) { return 1, 1, 1 }

// NoWind reports calm air everywhere.
type NoWind struct{}

func (NoWind) WindAt(geom.Vec3, float64) (geom.Vec3, float64) { return geom.Vec3{}, 0 }
