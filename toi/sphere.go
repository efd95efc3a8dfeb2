package toi

import (
	"math"

	"github.com/akmonengine/sweep/actor"
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MinRelativeSpeedSq is the squared relative speed (m²/s²) below which
	// two spheres are considered not moving relative to each other
	MinRelativeSpeedSq = 1e-12

	// DefaultAllowedOverlap is how deep (in units) spheres may overlap before
	// they are considered stuck
	DefaultAllowedOverlap fixed.Unit = 2

	// DefaultSweepResolution is the number of inflated spheres approximating each path
	DefaultSweepResolution = 1
)

// Options tunes the detector
type Options struct {
	AllowedOverlap  fixed.Unit
	SweepResolution int
}

func DefaultOptions() Options {
	return Options{
		AllowedOverlap:  DefaultAllowedOverlap,
		SweepResolution: DefaultSweepResolution,
	}
}

// commonStart brings both spheres to the later of their resolved times.
// It returns the positions at that time, the time itself and what is left of the window
func commonStart(a, b *actor.SphereObject, dt, t0, t1 float64) (p0, p1 fixed.Vec3, start, remaining float64) {
	start = math.Max(t0, t1)
	p0 = a.PositionAt(start - t0)
	p1 = b.PositionAt(start - t1)
	remaining = math.Max(dt-start, 0)

	return p0, p1, start, remaining
}

// Overlap reports whether two spheres overlap, in integer space
func Overlap(pos0 fixed.Vec3, r0 fixed.Unit, pos1 fixed.Vec3, r1 fixed.Unit) bool {
	radiusSum := int64(r0) + int64(r1)
	return pos0.Sub(pos1).LenSq() < radiusSum*radiusSum
}

// IsColliding checks whether the spheres already overlap by more than the allowed tolerance.
// If so, collision is filled with the positions that separate them along the line
// between their centers, each sphere moving by its radius share of the missing clearance
func IsColliding(a, b *actor.SphereObject, dt, t0, t1 float64, tolerance fixed.Unit, collision *SphereCollision) bool {
	if a.IsStatic() && b.IsStatic() {
		return false
	}

	p0, p1, start, _ := commonStart(a, b, dt, t0, t1)

	radiusSum := a.Radius + b.Radius
	limit := radiusSum - tolerance
	if limit <= 0 {
		limit = radiusSum
	}
	if !Overlap(p0, limit, p1, 0) {
		return false
	}

	delta := p0.Sub(p1)
	normal := mgl64.Vec3{1, 0, 0} // coincident centers, any axis separates them
	if !delta.IsZero() {
		normal = delta.Float().Normalize()
	}

	// one extra unit absorbs the rounding of both pushes
	missing := radiusSum.Float() - delta.Len() + 1

	share0 := a.Radius.Float() / radiusSum.Float()
	share1 := b.Radius.Float() / radiusSum.Float()
	if a.IsStatic() {
		share0, share1 = 0, 1
	} else if b.IsStatic() {
		share0, share1 = 1, 0
	}

	post0 := p0.Add(fixed.Round(normal.Mul(missing * share0)))
	post1 := p1.Sub(fixed.Round(normal.Mul(missing * share1)))

	*collision = SphereCollision{
		Object0:      a,
		Object1:      b,
		WillCollide:  true,
		AreStuck:     true,
		Time:         start,
		Position:     contactPoint(post0, post1, a.Radius, b.Radius),
		Obj0Position: post0,
		Obj1Position: post1,
		Normal0:      normal,
		Normal1:      normal.Mul(-1),
	}

	return true
}

// CouldCollide is a cheap early reject.
// Separating spheres never collide; otherwise both paths are covered by
// resolution inflated spheres sampled at the same instants, and the pair
// could collide only if one of the sampled pairs overlaps
func CouldCollide(a, b *actor.SphereObject, dt, t0, t1 float64, resolution int) bool {
	p0, p1, _, remaining := commonStart(a, b, dt, t0, t1)

	relativePosition := p0.Sub(p1).Meters()
	relativeVelocity := a.Velocity.Sub(b.Velocity)
	if relativePosition.Dot(relativeVelocity) >= 0 {
		return false
	}
	if remaining <= 0 {
		return false
	}

	resolution = max(resolution, 1)
	segment := remaining / float64(resolution)

	// half the distance travelled during one segment, plus a unit for rounding
	r0 := a.Radius + fixed.Unit(math.Ceil(a.Velocity.Len()*fixed.UnitsPerMeter*segment/2.0)) + 1
	r1 := b.Radius + fixed.Unit(math.Ceil(b.Velocity.Len()*fixed.UnitsPerMeter*segment/2.0)) + 1

	for i := 0; i < resolution; i++ {
		t := segment * (float64(i) + 0.5)
		c0 := p0.Add(fixed.Displacement(a.Velocity, t))
		c1 := p1.Add(fixed.Displacement(b.Velocity, t))

		if Overlap(c0, r0, c1, r1) {
			return true
		}
	}

	return false
}

// WillCollide calculates when the spheres first touch within the window.
//
// The relative position is linear in time, d(t) = d0 + v·t, and the spheres
// touch when |d(t)|² = R². This expands to
//
//	v·v t² + 2(d0·v) t + (d0·d0 − R²) = 0
//
// whose two roots bound the interval during which the spheres overlap.
// Spheres already overlapping deeper than the tolerance are left to IsColliding
func WillCollide(a, b *actor.SphereObject, dt, t0, t1 float64, tolerance fixed.Unit, collision *SphereCollision) bool {
	p0, p1, start, remaining := commonStart(a, b, dt, t0, t1)

	d := p0.Sub(p1).Meters()
	v := a.Velocity.Sub(b.Velocity)
	radiusSum := (a.Radius + b.Radius).Meters()

	vv := v.Dot(v)
	if vv < MinRelativeSpeedSq {
		return false // no relative motion, dont divide by zero
	}

	// p-q formula, p is half of the linear coefficient
	p := d.Dot(v) / vv
	q := (d.Dot(d) - radiusSum*radiusSum) / vv

	discriminant := p*p - q
	if discriminant <= 0 {
		return false // no real solution, the paths never get close enough
	}

	root := math.Sqrt(discriminant)
	time0 := -p - root
	time1 := -p + root

	if time1 < 0 || time0 > remaining {
		return false
	}

	if time0 < 0 {
		// already touching at the start of the window
		if p >= 0 {
			return false // moving apart
		}
		depth := fixed.FromMeters(radiusSum - d.Len())
		if depth > tolerance {
			return false
		}
	}

	t := math.Max(time0, 0)

	post0 := p0.Add(fixed.Displacement(a.Velocity, t))
	post1 := p1.Add(fixed.Displacement(b.Velocity, t))

	separation := post0.Sub(post1)
	var normal mgl64.Vec3
	if separation.IsZero() {
		normal = v.Mul(-1).Normalize()
	} else {
		normal = separation.Float().Normalize()
	}

	*collision = SphereCollision{
		Object0:      a,
		Object1:      b,
		WillCollide:  true,
		AreStuck:     false,
		Time:         start + t,
		Position:     contactPoint(post0, post1, a.Radius, b.Radius),
		Obj0Position: post0,
		Obj1Position: post1,
		Normal0:      normal,
		Normal1:      normal.Mul(-1),
	}

	return true
}

// Detect runs the three stages in order: CouldCollide, WillCollide, then IsColliding as fallback
func Detect(a, b *actor.SphereObject, dt, t0, t1 float64, options Options, collision *SphereCollision) bool {
	if CouldCollide(a, b, dt, t0, t1, options.SweepResolution) &&
		WillCollide(a, b, dt, t0, t1, options.AllowedOverlap, collision) {
		return true
	}

	return IsColliding(a, b, dt, t0, t1, options.AllowedOverlap, collision)
}

// contactPoint interpolates between the two centers so the point lies on both surfaces
func contactPoint(pos0, pos1 fixed.Vec3, r0, r1 fixed.Unit) fixed.Vec3 {
	share := r1.Float() / (r0 + r1).Float()
	return pos1.Add(fixed.Round(pos0.Sub(pos1).Float().Mul(share)))
}
