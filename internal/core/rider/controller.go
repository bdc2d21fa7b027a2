package rider

// Controller is the locomotion strategy a Rider delegates to. The base
// state machine owns ordering, stability accounting, and fall dispatch;
// the controller owns how input becomes motion.
type Controller interface {
	Kind() Kind

	// ProcessInput integrates the latched input into steer and speed.
	ProcessInput(r *Rider, in InputState, dt float64)

	// ApplyMovement advances heading, velocity, and (airborne) gravity.
	ApplyMovement(r *Rider, dt float64)

	// ApplyLean eases the lean angle toward the variant's target.
	ApplyLean(r *Rider, dt float64)

	// CheckFallConditions may add variant-specific stability terms before
	// evaluating the shared fall threshold via r.checkBaseFall.
	CheckFallConditions(r *Rider, dt float64)

	// Reset clears any per-variant state on respawn.
	Reset(r *Rider)
}

func controllerFor(kind Kind) Controller {
	switch kind {
	case KindBike:
		return &bikeController{}
	case KindHorse:
		return &horseController{}
	default:
		return nil
	}
}
