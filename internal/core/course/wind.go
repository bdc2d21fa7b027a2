package course

import (
	"math"

	"github.com/edgeabyss/ridersim/internal/core/geom"
)

// WindField is a time-varying lateral force over the whole course: a
// steady base strength with sinusoidal gusting. Stability drain kicks in
// only above the calm threshold. Implements env.WindProvider.
type WindField struct {
	DirectionDeg  float64 `yaml:"direction_deg"`
	Strength      float64 `yaml:"strength"`       // m/s² steady push
	GustAmplitude float64 `yaml:"gust_amplitude"` // m/s² on top of steady
	GustPeriod    float64 `yaml:"gust_period"`    // seconds per full cycle
	CalmThreshold float64 `yaml:"calm_threshold"` // no drain at or below this
	DrainPerUnit  float64 `yaml:"drain_per_unit"` // stability/s per m/s² over threshold
}

// WindAt reports the force vector and stability drain rate at elapsed
// seconds. Position is unused today; zone-local winds would hook in here.
func (w *WindField) WindAt(_ geom.Vec3, elapsed float64) (geom.Vec3, float64) {
	strength := w.Strength
	if w.GustPeriod > 0 {
		strength += w.GustAmplitude * math.Sin(2*math.Pi*elapsed/w.GustPeriod)
	}
	if strength <= 0 {
		return geom.Vec3{}, 0
	}

	force := geom.Forward(w.DirectionDeg).Scale(strength)

	drain := 0.0
	if excess := strength - w.CalmThreshold; excess > 0 {
		drain = excess * w.DrainPerUnit
	}
	return force, drain
}
