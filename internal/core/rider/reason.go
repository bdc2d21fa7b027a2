package rider

// FallReason classifies why a rider went down. Exactly one is attached to
// each fall event; callers use it for penalty and respawn logic.
type FallReason int

const (
	LostBalance FallReason = iota
	Collision
	FellOffEdge
	Overspeed
	ExternalForce
)

func (r FallReason) String() string {
	switch r {
	case LostBalance:
		return "lost_balance"
	case Collision:
		return "collision"
	case FellOffEdge:
		return "fell_off_edge"
	case Overspeed:
		return "overspeed"
	case ExternalForce:
		return "external_force"
	default:
		return "unknown"
	}
}
