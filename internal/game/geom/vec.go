// Package geom provides the small amount of 3D vector math the combat core
// needs for traces, impulses and sensor volumes.
package geom

import "math"

// Vec3 is a point or direction in world space. Z is up.
type Vec3 struct {
	X, Y, Z float64
}

// Up is the world vertical axis.
var Up = Vec3{Z: 1}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Len2D returns the length of v ignoring Z.
func (v Vec3) Len2D() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// Normalize returns v scaled to unit length.
//
// Postcondition: returns the zero vector when v has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// RotateAngleAxis rotates v by deg degrees around axis (right-handed).
//
// Precondition: axis must be non-zero; it is normalized internally.
func (v Vec3) RotateAngleAxis(deg float64, axis Vec3) Vec3 {
	k := axis.Normalize()
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	// Rodrigues' rotation formula.
	return v.Scale(c).Add(k.Cross(v).Scale(s)).Add(k.Scale(k.Dot(v) * (1 - c)))
}

// ForwardFromYaw returns the horizontal unit forward vector for a yaw in degrees.
func ForwardFromYaw(yawDeg float64) Vec3 {
	rad := yawDeg * math.Pi / 180
	return Vec3{X: math.Cos(rad), Y: math.Sin(rad)}
}

// RightFromYaw returns the horizontal unit right vector for a yaw in degrees.
func RightFromYaw(yawDeg float64) Vec3 {
	return ForwardFromYaw(yawDeg + 90)
}

// ApproxEqual reports whether every component of v and o differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}
