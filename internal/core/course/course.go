// Package course models the ridgeline a rider traverses: narrow track
// pieces with elevation, surface zones with traction parameters, and a
// wind field. A Course implements the environment capabilities the rider
// core consumes.
package course

import (
	"github.com/edgeabyss/ridersim/internal/core/geom"
)

// SurfaceParams is the traction triple reported for a surface kind.
type SurfaceParams struct {
	Traction  float64 `yaml:"traction"`
	Steering  float64 `yaml:"steering"`
	Stability float64 `yaml:"stability"`
}

// TrackPiece is an axis-aligned slab of ridable ground.
type TrackPiece struct {
	Name      string  `yaml:"name"`
	MinX      float64 `yaml:"min_x"`
	MaxX      float64 `yaml:"max_x"`
	MinZ      float64 `yaml:"min_z"`
	MaxZ      float64 `yaml:"max_z"`
	Elevation float64 `yaml:"elevation"`
}

func (p TrackPiece) contains(x, z float64) bool {
	return x >= p.MinX && x <= p.MaxX && z >= p.MinZ && z <= p.MaxZ
}

// Zone overrides the surface kind inside an axis-aligned region.
type Zone struct {
	Name    string  `yaml:"name"`
	Surface string  `yaml:"surface"`
	MinX    float64 `yaml:"min_x"`
	MaxX    float64 `yaml:"max_x"`
	MinZ    float64 `yaml:"min_z"`
	MaxZ    float64 `yaml:"max_z"`
}

func (z Zone) contains(x, zz float64) bool {
	return x >= z.MinX && x <= z.MaxX && zz >= z.MinZ && zz <= z.MaxZ
}

// SpawnPoint is where riders enter (and respawn onto) the course.
type SpawnPoint struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Heading float64 `yaml:"heading"`
}

func (s SpawnPoint) Position() geom.Vec3 { return geom.Vec3{X: s.X, Y: s.Y, Z: s.Z} }

// Course is immutable after load and safe for concurrent reads.
type Course struct {
	Name           string       `yaml:"name"`
	Spawn          SpawnPoint   `yaml:"spawn"`
	KillPlaneY     float64      `yaml:"kill_plane_y"`
	DefaultSurface string       `yaml:"default_surface"`
	Pieces         []TrackPiece `yaml:"pieces"`
	Zones          []Zone       `yaml:"zones"`
	Wind           *WindField   `yaml:"wind"`

	// Surface kind → params, built-in kinds merged with per-course overrides.
	Surfaces map[string]SurfaceParams `yaml:"surfaces"`
}

// GroundWithin reports whether a track piece lies within maxDist below
// origin. Implements env.GroundQuery.
func (c *Course) GroundWithin(origin geom.Vec3, maxDist float64) bool {
	for _, p := range c.Pieces {
		if !p.contains(origin.X, origin.Z) {
			continue
		}
		if origin.Y >= p.Elevation && origin.Y-p.Elevation <= maxDist {
			return true
		}
	}
	return false
}

// SurfaceAt reports the traction triple at a position. Implements
// env.SurfaceProvider. Unknown surface names fall back to neutral.
func (c *Course) SurfaceAt(pos geom.Vec3) (traction, steering, stability float64) {
	name := c.DefaultSurface
	for _, z := range c.Zones {
		if z.contains(pos.X, pos.Z) {
			name = z.Surface
			break
		}
	}
	if p, ok := c.Surfaces[name]; ok {
		return p.Traction, p.Steering, p.Stability
	}
	return 1, 1, 1
}

// OnTrack reports whether the position is horizontally over any piece.
func (c *Course) OnTrack(pos geom.Vec3) bool {
	for _, p := range c.Pieces {
		if p.contains(pos.X, pos.Z) {
			return true
		}
	}
	return false
}

// BelowKillPlane reports whether the rider has dropped off the ridge for
// good. The session layer turns this into a fell-off-edge fall.
func (c *Course) BelowKillPlane(pos geom.Vec3) bool {
	return pos.Y < c.KillPlaneY
}
