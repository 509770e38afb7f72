package arena

import (
	"math"

	"github.com/cory-johannsen/shooter/internal/game/combat"
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// Box is a static axis-aligned block of world geometry.
type Box struct {
	Actor    damage.Actor
	Min, Max geom.Vec3
}

// Sphere is a collision volume attached to an actor. Region names the
// skeletal region it stands in for.
type Sphere struct {
	Actor  damage.Actor
	Region string
	Center geom.Vec3
	Radius float64
}

// Scene is a minimal collision world of boxes and spheres. It implements
// combat.WorldQuery for the simulator.
type Scene struct {
	boxes   []Box
	spheres []Sphere

	camOrigin geom.Vec3
	camDir    geom.Vec3
	hasCamera bool
}

var _ combat.WorldQuery = (*Scene)(nil)

// NewScene returns a scene holding the given static geometry.
func NewScene(boxes ...Box) *Scene {
	return &Scene{boxes: boxes}
}

// SetCamera places the viewport ray through the crosshair.
func (s *Scene) SetCamera(origin, dir geom.Vec3) {
	s.camOrigin = origin
	s.camDir = dir.Normalize()
	s.hasCamera = s.camDir != (geom.Vec3{})
}

// SetSpheres replaces every dynamic volume.
func (s *Scene) SetSpheres(spheres []Sphere) {
	s.spheres = append(s.spheres[:0], spheres...)
}

// ViewportRay returns the camera ray set by SetCamera.
func (s *Scene) ViewportRay() (origin, dir geom.Vec3, ok bool) {
	return s.camOrigin, s.camDir, s.hasCamera
}

// LineTrace returns the nearest blocking volume on the segment start→end.
func (s *Scene) LineTrace(start, end geom.Vec3) combat.TraceHit {
	best := math.Inf(1)
	var hit combat.TraceHit
	for _, b := range s.boxes {
		if t, ok := segmentBox(start, end, b.Min, b.Max); ok && t < best {
			best = t
			hit = combat.TraceHit{Blocking: true, Actor: b.Actor}
		}
	}
	for _, sp := range s.spheres {
		if t, ok := segmentSphere(start, end, sp.Center, sp.Radius); ok && t < best {
			best = t
			hit = combat.TraceHit{Blocking: true, Actor: sp.Actor, Region: sp.Region}
		}
	}
	if hit.Blocking {
		hit.Location = start.Add(end.Sub(start).Scale(best))
	}
	return hit
}

// segmentBox returns the first segment parameter t in [0,1] at which the
// segment enters the box.
func segmentBox(start, end, lo, hi geom.Vec3) (float64, bool) {
	d := end.Sub(start)
	tMin, tMax := 0.0, 1.0
	axes := [3][4]float64{
		{start.X, d.X, lo.X, hi.X},
		{start.Y, d.Y, lo.Y, hi.Y},
		{start.Z, d.Z, lo.Z, hi.Z},
	}
	for _, a := range axes {
		o, dir, mn, mx := a[0], a[1], a[2], a[3]
		if math.Abs(dir) < 1e-12 {
			if o < mn || o > mx {
				return 0, false
			}
			continue
		}
		t1, t2 := (mn-o)/dir, (mx-o)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// segmentSphere returns the first segment parameter t in [0,1] at which the
// segment touches the sphere. A start inside the sphere hits at t = 0.
func segmentSphere(start, end, center geom.Vec3, radius float64) (float64, bool) {
	d := end.Sub(start)
	m := start.Sub(center)
	c := m.Dot(m) - radius*radius
	if c <= 0 {
		return 0, true
	}
	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := m.Dot(d)
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / a
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// Overlaps reports whether two spheres intersect.
func Overlaps(aCenter geom.Vec3, aRadius float64, bCenter geom.Vec3, bRadius float64) bool {
	r := aRadius + bRadius
	d := aCenter.Sub(bCenter)
	return d.Dot(d) <= r*r
}
