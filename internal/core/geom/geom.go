// Package geom holds the small amount of vector and scalar math the
// simulation core needs. Headings are degrees around the Y axis with
// 0° facing +Z and positive angles turning toward +X.
package geom

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Planar drops the vertical component.
func (v Vec3) Planar() Vec3 { return Vec3{v.X, 0, v.Z} }

func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Forward converts a heading in degrees to a unit direction vector.
func Forward(headingDeg float64) Vec3 {
	rad := headingDeg * math.Pi / 180
	return Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}

// Right is the rider's rightward unit vector for a heading in degrees.
func Right(headingDeg float64) Vec3 {
	rad := headingDeg * math.Pi / 180
	return Vec3{X: math.Cos(rad), Z: -math.Sin(rad)}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// MoveToward advances current toward target by at most maxDelta.
func MoveToward(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}
