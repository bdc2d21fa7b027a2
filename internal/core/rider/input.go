package rider

import "github.com/edgeabyss/ridersim/internal/core/geom"

// InputState is one frame of rider input. Produced externally, consumed
// once per tick. Reset is handled by the session layer, not the rider.
type InputState struct {
	Throttle float64 // [0,1]
	Brake    float64 // [0,1]
	Steer    float64 // [-1,1]
	Focus    bool
	Reset    bool
}

// Clamped returns the input with all axes forced into their valid ranges.
func (in InputState) Clamped() InputState {
	in.Throttle = geom.Clamp01(in.Throttle)
	in.Brake = geom.Clamp01(in.Brake)
	in.Steer = geom.Clamp(in.Steer, -1, 1)
	return in
}
